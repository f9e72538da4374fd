package usecases

import (
	"context"
	"push-registrar/internal/push/domain"
)

//go:generate mockgen -source=./api.go -destination=../../../test/unit/doubles/push/usecases/api_mock.go -package=usecases

type RegistrarService interface {
	Register(context.Context) (RegistrationResult, error)
	Unregister(context.Context) (RegistrationResult, error)
	Reconcile(context.Context) (bool, error)
	Status(context.Context) (RegistrationStatus, error)
}

type SessionService interface {
	SetAccount(context.Context, domain.Account) error
	ClearAccount(context.Context) error
}

// RegistrationStatus describes the device as seen by this process. Registered
// and LastResult only reflect completions observed since start up.
type RegistrationStatus struct {
	ApplicationName         string
	PushConfigured          bool
	TransportRegistrationID string
	Registered              bool
	Options                 *domain.RegistrationOptions
	LastResult              *RegistrationResult
}
