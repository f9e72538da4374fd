package domain

import (
	"errors"
	"net/url"
	"push-registrar/internal/infra/utils"
	"time"
)

// Account is the remote session REST calls are issued with.
type Account struct {
	ID           ID
	AccountType  AccountType
	InstanceURL  string
	AccessToken  string
	RefreshToken string
	ClientID     string
	TokenURL     string
	UserID       string
	CreatedAt    utils.Time
	UpdatedAt    utils.Time
}

func NewAccountBuilder() *accountBuilder {
	return &accountBuilder{}
}

type accountBuilder struct {
	actions []accountHandler
}

type accountHandler func(v *Account) error

func (b *accountBuilder) WithAccountType(value AccountType) *accountBuilder {
	b.actions = append(b.actions, func(d *Account) error {
		d.AccountType = value
		return nil
	})
	return b
}

func (b *accountBuilder) WithInstanceURL(value string) *accountBuilder {
	b.actions = append(b.actions, func(d *Account) error {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return errors.New("instance URL must be absolute")
		}
		d.InstanceURL = value
		return nil
	})
	return b
}

func (b *accountBuilder) WithTokens(accessToken, refreshToken string) *accountBuilder {
	b.actions = append(b.actions, func(d *Account) error {
		d.AccessToken = accessToken
		d.RefreshToken = refreshToken
		return nil
	})
	return b
}

func (b *accountBuilder) WithOAuthClient(clientID, tokenURL string) *accountBuilder {
	b.actions = append(b.actions, func(d *Account) error {
		d.ClientID = clientID
		d.TokenURL = tokenURL
		return nil
	})
	return b
}

func (b *accountBuilder) WithUserID(value string) *accountBuilder {
	b.actions = append(b.actions, func(d *Account) error {
		d.UserID = value
		return nil
	})
	return b
}

func (b *accountBuilder) Build() (Account, error) {
	now := utils.Time{Time: time.Now()}
	result := Account{
		ID:        ID(utils.GenerateUUID()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return Account{}, err
		}
	}

	if result.AccountType == "" {
		return Account{}, errors.New("account type is required")
	}

	if result.InstanceURL == "" {
		return Account{}, errors.New("instance URL is required")
	}

	if result.AccessToken == "" {
		return Account{}, errors.New("access token is required")
	}

	if result.RefreshToken != "" && (result.ClientID == "" || result.TokenURL == "") {
		return Account{}, errors.New("refresh token requires client ID and token URL")
	}

	return result, nil
}
