package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-registrar/internal/infra/rest"
	"push-registrar/internal/push/domain"
	"sync"
)

const PushServiceDeviceObject = "MobilePushServiceDevice"

var errNoResponse = errors.New("rest client closed without a response")

func NewPushNotification(options *domain.RegistrationOptions, clients RestClientFactory) *PushNotification {
	return &PushNotification{
		options: options,
		clients: clients,
	}
}

// PushNotification mirrors the device's push registration into a remote
// MobilePushServiceDevice record.
//
// The registered flag is written by whichever asynchronous completion finishes
// last, register or unregister alike. Nothing orders completions against each
// other, so IsRegistered may reflect an older call than the most recent one.
type PushNotification struct {
	clients RestClientFactory

	mu         sync.Mutex
	options    *domain.RegistrationOptions
	registered bool
	lastResult *RegistrationResult
}

// RegisterRemote creates the remote record for the configured token. Session
// and argument errors are returned synchronously; the outcome of the request
// itself arrives on the returned channel, which yields one result and closes.
func (p *PushNotification) RegisterRemote(ctx context.Context) (<-chan RegistrationResult, error) {
	if p.options == nil {
		return nil, ErrOptionsRequired
	}

	client, err := p.clients.PeekRestClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting rest client: %w", err)
	}

	options := p.Options()
	fields := map[string]any{
		"ApplicationName": options.ApplicationName,
		"ConnectionToken": options.Token,
		"NamespacePrefix": options.NamespacePrefix,
		"Vendor":          options.Vendor,
	}

	responses := client.SendAsync(ctx, rest.NewCreateRequest(options.APIVersion, PushServiceDeviceObject, fields))
	return p.complete(ctx, responses, p.onRegisterCompleted), nil
}

// UnregisterRemote deletes the remote record created by RegisterRemote.
func (p *PushNotification) UnregisterRemote(ctx context.Context) (<-chan RegistrationResult, error) {
	if p.options == nil {
		return nil, ErrOptionsRequired
	}

	client, err := p.clients.PeekRestClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting rest client: %w", err)
	}

	options := p.Options()
	if !options.HasObjectID() {
		return nil, ErrObjectIDMissing
	}

	request := rest.NewDeleteRequest(options.APIVersion, PushServiceDeviceObject, options.ObjectIDOrEmpty())
	responses := client.SendAsync(ctx, request)
	return p.complete(ctx, responses, func(response rest.AsyncResponse) RegistrationResult {
		return p.onUnregisterCompleted(response, options.ObjectIDOrEmpty())
	}), nil
}

// IsRegistered returns the last flag value written by a completion.
func (p *PushNotification) IsRegistered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registered
}

// LastResult returns the most recent completion, if any.
func (p *PushNotification) LastResult() (RegistrationResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastResult == nil {
		return RegistrationResult{}, false
	}
	return *p.lastResult, true
}

// Options returns a copy of the current options, including any object id
// recorded by a successful registration.
func (p *PushNotification) Options() domain.RegistrationOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.options == nil {
		return domain.RegistrationOptions{}
	}
	return *p.options
}

func (p *PushNotification) complete(
	ctx context.Context,
	responses <-chan rest.AsyncResponse,
	handle func(rest.AsyncResponse) RegistrationResult,
) <-chan RegistrationResult {
	results := make(chan RegistrationResult, 1)
	go func() {
		defer close(results)
		response, ok := <-responses
		if !ok {
			response = rest.AsyncResponse{Err: errNoResponse}
		}
		result := handle(response)
		recordRemoteCompletion(context.WithoutCancel(ctx), result)
		results <- result
	}()
	return results
}

func (p *PushNotification) onRegisterCompleted(response rest.AsyncResponse) RegistrationResult {
	result := RegistrationResult{
		Operation:  OperationRegister,
		StatusCode: response.Response.StatusCode,
	}

	if response.Err != nil {
		result.Err = response.Err
		slog.Warn("remote push registration failed", slog.Any("error", response.Err))
		p.store(result)
		return result
	}

	objectID, err := extractObjectID(response.Response)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		slog.Warn("remote push registration returned an unusable body",
			slog.Int("status_code", response.Response.StatusCode),
			slog.Any("error", err))
		p.store(result)
		return result
	}

	result.ObjectID = objectID
	result.Registered = true
	p.store(result)

	slog.Info("device registered for remote push notifications", slog.String("object_id", objectID))
	return result
}

func (p *PushNotification) onUnregisterCompleted(response rest.AsyncResponse, objectID string) RegistrationResult {
	result := RegistrationResult{
		Operation:  OperationUnregister,
		ObjectID:   objectID,
		StatusCode: response.Response.StatusCode,
	}

	if response.Err != nil {
		// the remote record is assumed to still exist
		result.Err = response.Err
		result.Registered = true
		slog.Warn("remote push unregistration failed",
			slog.String("object_id", objectID),
			slog.Any("error", response.Err))
		p.store(result)
		return result
	}

	p.store(result)
	slog.Info("device unregistered from remote push notifications", slog.String("object_id", objectID))
	return result
}

func (p *PushNotification) store(result RegistrationResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if result.Operation == OperationRegister && result.Err == nil {
		p.options.SetObjectID(result.ObjectID)
	}
	p.registered = result.Registered
	p.lastResult = &result
}

func extractObjectID(response rest.Response) (string, error) {
	object, err := response.AsJSONObject()
	if err != nil {
		return "", err
	}

	id, ok := object["id"].(string)
	if !ok || id == "" {
		return "", errors.New("response has no id")
	}

	return id, nil
}
