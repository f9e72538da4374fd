package usecases

import (
	"context"
	"push-registrar/internal/infra/rest"
)

//go:generate mockgen -source=port.go -destination=../../../test/unit/doubles/push/usecases/port_mock.go -package=usecases -mock_names=Transport=MockTransport,RestClientFactory=MockRestClientFactory

// Transport is the platform push delivery channel a device registers with.
type Transport interface {
	CheckEligibility(ctx context.Context) error
	RegistrationID(ctx context.Context) (string, error)
	Register(ctx context.Context, applicationID string) error
	Unregister(ctx context.Context) error
}

// RestClientFactory hands out a REST client bound to the active session.
// It fails with ErrAccountNotFound when no session exists.
type RestClientFactory interface {
	PeekRestClient(ctx context.Context) (rest.Sender, error)
}
