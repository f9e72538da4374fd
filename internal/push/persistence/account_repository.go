package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-registrar/internal/infra/sql"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/persistence/internal"
	"push-registrar/internal/push/usecases"
	"time"
)

func NewAccountRepository(orm sql.ORM) (*SimpleAccountRepository, error) {
	err := orm.AutoMigrate(&internal.Account{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleAccountRepository{
		orm: orm,
	}, nil
}

var _ usecases.AccountRepository = (*SimpleAccountRepository)(nil)

type SimpleAccountRepository struct {
	orm sql.ORM
}

// Upsert stores the account as the single account of its type.
func (r *SimpleAccountRepository) Upsert(ctx context.Context, account domain.Account) error {
	entity := internal.FromAccount(account)

	return r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		var existing internal.Account
		err := tx.Where("account_type = ?", entity.AccountType).First(&existing).Error()

		if errors.Is(err, sql.ErrRecordNotFound) {
			if err := tx.Create(&entity).Error(); err != nil {
				return fmt.Errorf("creating account: %w", err)
			}
			slog.Info("created account",
				slog.String("account_id", entity.ID),
				slog.String("account_type", entity.AccountType))
			return nil
		}

		if err != nil {
			return fmt.Errorf("checking existing account: %w", err)
		}

		if existing.ID != entity.ID {
			if err := tx.Delete(&existing).Error(); err != nil {
				return fmt.Errorf("replacing account: %w", err)
			}
			if err := tx.Create(&entity).Error(); err != nil {
				return fmt.Errorf("creating account: %w", err)
			}
			slog.Info("replaced account",
				slog.String("account_id", entity.ID),
				slog.String("account_type", entity.AccountType))
			return nil
		}

		entity.CreatedAt = existing.CreatedAt
		if entity.UpdatedAt.IsZero() {
			entity.UpdatedAt = time.Now()
		}
		if err := tx.Save(&entity).Error(); err != nil {
			return fmt.Errorf("updating account: %w", err)
		}

		slog.Info("updated account",
			slog.String("account_id", entity.ID),
			slog.String("account_type", entity.AccountType))
		return nil
	})
}

func (r *SimpleAccountRepository) GetByAccountType(ctx context.Context, accountType domain.AccountType) (domain.Account, error) {
	var entity internal.Account
	err := r.orm.
		WithContext(ctx).
		Where("account_type = ?", accountType.String()).
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Account{}, usecases.ErrAccountNotFound
	}

	if err != nil {
		return domain.Account{}, fmt.Errorf("getting account: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleAccountRepository) DeleteByAccountType(ctx context.Context, accountType domain.AccountType) error {
	var existing internal.Account
	err := r.orm.WithContext(ctx).
		Where("account_type = ?", accountType.String()).
		First(&existing).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return usecases.ErrAccountNotFound
	}

	if err != nil {
		return fmt.Errorf("finding account: %w", err)
	}

	err = r.orm.WithContext(ctx).
		Delete(&existing).
		Error()

	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	slog.Info("deleted account", slog.String("account_type", accountType.String()))
	return nil
}
