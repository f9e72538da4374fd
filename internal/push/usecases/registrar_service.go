package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-registrar/internal/push/domain"
	"sync"
	"sync/atomic"
)

var (
	ErrPushNotConfigured      = errors.New("push transport is not configured")
	ErrTransportNotRegistered = errors.New("push transport returned no registration id")
)

type RegistrationConfig struct {
	ApplicationName string
	NamespacePrefix string
	Vendor          string
	APIVersion      string
}

func NewRegistrarService(
	login *domain.LoginOptions,
	transport Transport,
	clients RestClientFactory,
	repository OptionsRepository,
	config RegistrationConfig,
) *SimpleRegistrarService {
	return &SimpleRegistrarService{
		login:      login,
		transport:  transport,
		clients:    clients,
		repository: repository,
		config:     config,
	}
}

var _ RegistrarService = (*SimpleRegistrarService)(nil)

// SimpleRegistrarService runs the full device registration: platform
// transport first, then the remote MobilePushServiceDevice record. Calls are
// serialized.
type SimpleRegistrarService struct {
	login      *domain.LoginOptions
	transport  Transport
	clients    RestClientFactory
	repository OptionsRepository
	config     RegistrationConfig

	mu sync.Mutex
	// last PushNotification used, readable without mu
	push atomic.Pointer[PushNotification]
}

func (s *SimpleRegistrarService) Register(ctx context.Context) (RegistrationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.register(ctx)
}

func (s *SimpleRegistrarService) Unregister(ctx context.Context) (RegistrationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unregister(ctx)
}

func (s *SimpleRegistrarService) unregister(ctx context.Context) (RegistrationResult, error) {
	var result RegistrationResult
	options, err := s.repository.Get(ctx, s.config.ApplicationName)
	switch {
	case errors.Is(err, ErrOptionsNotFound):
		slog.Info("no remote registration recorded", slog.String("application_name", s.config.ApplicationName))
	case err != nil:
		return RegistrationResult{}, fmt.Errorf("loading registration options: %w", err)
	default:
		push := NewPushNotification(&options, s.clients)
		s.push.Store(push)

		results, err := push.UnregisterRemote(ctx)
		if err != nil {
			return RegistrationResult{}, fmt.Errorf("unregistering remote device: %w", err)
		}

		result, err = awaitResult(ctx, results)
		if err != nil {
			return RegistrationResult{}, fmt.Errorf("waiting for remote unregistration: %w", err)
		}
		if result.Failed() {
			return result, fmt.Errorf("unregistering remote device: %w", result.Err)
		}
	}

	if s.login.PushConfigured() {
		if err := UnregisterTransport(ctx, s.transport); err != nil {
			return result, err
		}
	}

	err = s.repository.Delete(ctx, s.config.ApplicationName)
	if err != nil && !errors.Is(err, ErrOptionsNotFound) {
		return result, fmt.Errorf("deleting registration options: %w", err)
	}

	return result, nil
}

// Reconcile retries a failed unregister first. Otherwise it registers again
// when nothing was registered, the transport registration id no longer matches
// the registered token, or the last registration failed. It reports whether an
// operation was attempted.
func (s *SimpleRegistrarService) Reconcile(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if operation, failed := s.lastFailedOperation(); failed && operation == OperationUnregister {
		slog.Info("reconciling push registration", slog.String("reason", "last unregister failed"))
		_, err := s.unregister(ctx)
		return true, err
	}

	if !s.login.PushConfigured() {
		return false, nil
	}

	registrationID, err := s.transport.RegistrationID(ctx)
	if err != nil {
		return false, fmt.Errorf("getting transport registration id: %w", err)
	}

	stored, err := s.repository.Get(ctx, s.config.ApplicationName)
	if err != nil && !errors.Is(err, ErrOptionsNotFound) {
		return false, fmt.Errorf("loading registration options: %w", err)
	}
	found := err == nil

	reason := ""
	switch {
	case !found:
		reason = "not registered"
	case registrationID == "":
		reason = "transport registration lost"
	case stored.Token != registrationID:
		reason = "token changed"
	default:
		if _, failed := s.lastFailedOperation(); failed {
			reason = "last attempt failed"
		}
	}

	if reason == "" {
		return false, nil
	}

	slog.Info("reconciling push registration", slog.String("reason", reason))

	// the new record replaces any stored one, even for an unchanged token
	if found && stored.HasObjectID() {
		s.dropStale(ctx, stored)
	}

	_, err = s.register(ctx)
	return true, err
}

// Status does not take the operation lock, so it answers while a registration
// is in flight.
func (s *SimpleRegistrarService) Status(ctx context.Context) (RegistrationStatus, error) {
	push := s.push.Load()

	status := RegistrationStatus{
		ApplicationName: s.config.ApplicationName,
		PushConfigured:  s.login.PushConfigured(),
	}

	if status.PushConfigured {
		registrationID, err := s.transport.RegistrationID(ctx)
		if err != nil {
			return RegistrationStatus{}, fmt.Errorf("getting transport registration id: %w", err)
		}
		status.TransportRegistrationID = registrationID
	}

	options, err := s.repository.Get(ctx, s.config.ApplicationName)
	switch {
	case err == nil:
		status.Options = &options
	case !errors.Is(err, ErrOptionsNotFound):
		return RegistrationStatus{}, fmt.Errorf("loading registration options: %w", err)
	}

	if push != nil {
		status.Registered = push.IsRegistered()
		if result, ok := push.LastResult(); ok {
			status.LastResult = &result
		}
	}

	return status, nil
}

func (s *SimpleRegistrarService) register(ctx context.Context) (RegistrationResult, error) {
	if !s.login.PushConfigured() {
		return RegistrationResult{}, ErrPushNotConfigured
	}

	if err := RegisterTransport(ctx, s.login, s.transport); err != nil {
		return RegistrationResult{}, err
	}

	token, err := s.transport.RegistrationID(ctx)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("getting transport registration id: %w", err)
	}
	if token == "" {
		return RegistrationResult{}, ErrTransportNotRegistered
	}

	options, err := domain.NewRegistrationOptionsBuilder().
		WithToken(token).
		WithApplicationName(s.config.ApplicationName).
		WithNamespacePrefix(s.config.NamespacePrefix).
		WithVendor(s.config.Vendor).
		WithAPIVersion(s.config.APIVersion).
		Build()
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("building registration options: %w", err)
	}

	push := NewPushNotification(&options, s.clients)
	results, err := push.RegisterRemote(ctx)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("registering remote device: %w", err)
	}
	s.push.Store(push)

	result, err := awaitResult(ctx, results)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("waiting for remote registration: %w", err)
	}
	if result.Failed() {
		return result, fmt.Errorf("registering remote device: %w", result.Err)
	}

	if err := s.repository.Save(ctx, push.Options()); err != nil {
		return result, fmt.Errorf("saving registration options: %w", err)
	}

	return result, nil
}

// dropStale deletes the remote record of a replaced token. Failures are only
// logged since the new registration does not depend on it.
func (s *SimpleRegistrarService) dropStale(ctx context.Context, stale domain.RegistrationOptions) {
	results, err := NewPushNotification(&stale, s.clients).UnregisterRemote(ctx)
	if err != nil {
		slog.Warn("failed to drop stale remote registration", slog.Any("error", err))
		return
	}

	result, err := awaitResult(ctx, results)
	if err == nil {
		err = result.Err
	}
	if err != nil {
		slog.Warn("failed to drop stale remote registration",
			slog.String("object_id", stale.ObjectIDOrEmpty()),
			slog.Any("error", err))
	}
}

func (s *SimpleRegistrarService) lastFailedOperation() (Operation, bool) {
	push := s.push.Load()
	if push == nil {
		return "", false
	}
	result, ok := push.LastResult()
	if !ok || !result.Failed() {
		return "", false
	}
	return result.Operation, true
}

func awaitResult(ctx context.Context, results <-chan RegistrationResult) (RegistrationResult, error) {
	select {
	case result, ok := <-results:
		if !ok {
			return RegistrationResult{}, errNoResponse
		}
		return result, nil
	case <-ctx.Done():
		return RegistrationResult{}, ctx.Err()
	}
}
