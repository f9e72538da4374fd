package internal

import (
	"push-registrar/internal/infra/utils"
	"push-registrar/internal/push/domain"
	"time"
)

type Account struct {
	ID           string `gorm:"primaryKey"`
	AccountType  string `gorm:"uniqueIndex;not null"`
	InstanceURL  string `gorm:"not null"`
	AccessToken  string `gorm:"not null"`
	RefreshToken string
	ClientID     string
	TokenURL     string
	UserID       string
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a Account) ToDomain() domain.Account {
	return domain.Account{
		ID:           domain.ID(a.ID),
		AccountType:  domain.AccountType(a.AccountType),
		InstanceURL:  a.InstanceURL,
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		ClientID:     a.ClientID,
		TokenURL:     a.TokenURL,
		UserID:       a.UserID,
		CreatedAt:    utils.Time{Time: a.CreatedAt},
		UpdatedAt:    utils.Time{Time: a.UpdatedAt},
	}
}

func FromAccount(value domain.Account) Account {
	return Account{
		ID:           value.ID.String(),
		AccountType:  value.AccountType.String(),
		InstanceURL:  value.InstanceURL,
		AccessToken:  value.AccessToken,
		RefreshToken: value.RefreshToken,
		ClientID:     value.ClientID,
		TokenURL:     value.TokenURL,
		UserID:       value.UserID,
		CreatedAt:    value.CreatedAt.Time,
		UpdatedAt:    value.UpdatedAt.Time,
	}
}
