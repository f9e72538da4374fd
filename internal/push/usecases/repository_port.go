package usecases

import (
	"context"
	"errors"
	"push-registrar/internal/push/domain"
)

//go:generate mockgen -source=repository_port.go -destination=../../../test/unit/doubles/push/usecases/repository_port_mock.go -package=usecases -mock_names=AccountRepository=MockAccountRepository,OptionsRepository=MockOptionsRepository

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrOptionsNotFound = errors.New("registration options not found")
)

type AccountRepository interface {
	Upsert(context.Context, domain.Account) error
	GetByAccountType(context.Context, domain.AccountType) (domain.Account, error)
	DeleteByAccountType(context.Context, domain.AccountType) error
}

// OptionsRepository persists RegistrationOptions keyed by application name.
type OptionsRepository interface {
	Save(context.Context, domain.RegistrationOptions) error
	Get(ctx context.Context, applicationName string) (domain.RegistrationOptions, error)
	Delete(ctx context.Context, applicationName string) error
}
