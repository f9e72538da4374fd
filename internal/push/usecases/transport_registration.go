package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"push-registrar/internal/push/domain"
)

// RegisterTransport registers the device with the push transport when login
// carries a transport application id. It blocks until the transport answers and
// does nothing when a registration id already exists.
func RegisterTransport(ctx context.Context, login *domain.LoginOptions, transport Transport) error {
	if !login.PushConfigured() {
		slog.Debug("push transport not configured, skipping registration")
		return nil
	}

	if err := transport.CheckEligibility(ctx); err != nil {
		return fmt.Errorf("checking transport eligibility: %w", err)
	}

	registrationID, err := transport.RegistrationID(ctx)
	if err != nil {
		return fmt.Errorf("getting transport registration id: %w", err)
	}

	if registrationID != "" {
		slog.Debug("device already registered with push transport", slog.String("registration_id", registrationID))
		return nil
	}

	err = transport.Register(ctx, login.TransportApplicationID)
	recordTransportOperation(ctx, OperationRegister, err)
	if err != nil {
		return fmt.Errorf("registering with push transport: %w", err)
	}

	slog.Info("device registered with push transport",
		slog.String("application_id", login.TransportApplicationID))
	return nil
}

// UnregisterTransport asks the transport to drop this device.
func UnregisterTransport(ctx context.Context, transport Transport) error {
	err := transport.Unregister(ctx)
	recordTransportOperation(ctx, OperationUnregister, err)
	if err != nil {
		return fmt.Errorf("unregistering from push transport: %w", err)
	}

	slog.Info("device unregistered from push transport")
	return nil
}
