package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"push-registrar/internal/infra/cache"
	"push-registrar/internal/infra/rest"
	"push-registrar/internal/infra/utils"
	"push-registrar/internal/push/domain"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	_defaultSessionLifetime = 2 * time.Hour
	_defaultClientTTL       = 10 * time.Minute
	_defaultHTTPTimeout     = 30 * time.Second
)

type ClientManagerConfig struct {
	AccountType     domain.AccountType
	SessionLifetime time.Duration
	ClientTTL       time.Duration
	HTTPTimeout     time.Duration
}

func NewClientManager(accounts AccountRepository, clients cache.Cache, config ClientManagerConfig) *SimpleClientManager {
	if config.SessionLifetime <= 0 {
		config.SessionLifetime = _defaultSessionLifetime
	}
	if config.ClientTTL <= 0 {
		config.ClientTTL = _defaultClientTTL
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = _defaultHTTPTimeout
	}

	return &SimpleClientManager{
		accounts: accounts,
		clients:  clients,
		config:   config,
	}
}

var _ RestClientFactory = (*SimpleClientManager)(nil)

// SimpleClientManager builds REST clients from the stored account of one
// account type. Clients are cached until the account changes.
type SimpleClientManager struct {
	accounts AccountRepository
	clients  cache.Cache
	config   ClientManagerConfig
}

func (m *SimpleClientManager) PeekRestClient(ctx context.Context) (rest.Sender, error) {
	account, err := m.accounts.GetByAccountType(ctx, m.config.AccountType)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	key := fmt.Sprintf("rest-client:%s:%d", account.ID, account.UpdatedAt.UnixNano())
	value, err := m.clients.GetOrSet(ctx, key, m.config.ClientTTL, func() (any, error) {
		slog.Debug("building rest client",
			slog.String("account_id", account.ID.String()),
			slog.String("instance_url", account.InstanceURL))
		return rest.NewClient(account.InstanceURL, m.httpClient(account)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("building rest client: %w", err)
	}

	client, ok := value.(rest.Sender)
	if !ok {
		return nil, fmt.Errorf("unexpected cached rest client %T", value)
	}
	return client, nil
}

// SetAccount stores the session for the configured account type, replacing any
// existing one.
func (m *SimpleClientManager) SetAccount(ctx context.Context, account domain.Account) error {
	if account.AccountType != m.config.AccountType {
		return fmt.Errorf("account type %q does not match %q", account.AccountType, m.config.AccountType)
	}
	if err := m.accounts.Upsert(ctx, account); err != nil {
		return fmt.Errorf("storing account: %w", err)
	}
	slog.Info("session stored", slog.String("account_type", account.AccountType.String()))
	return nil
}

// ClearAccount removes the stored session. Later PeekRestClient calls fail
// with ErrAccountNotFound.
func (m *SimpleClientManager) ClearAccount(ctx context.Context) error {
	if err := m.accounts.DeleteByAccountType(ctx, m.config.AccountType); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	slog.Info("session cleared", slog.String("account_type", m.config.AccountType.String()))
	return nil
}

func (m *SimpleClientManager) httpClient(account domain.Account) *http.Client {
	base := &http.Client{Timeout: m.config.HTTPTimeout}
	token := &oauth2.Token{
		AccessToken: account.AccessToken,
		TokenType:   "Bearer",
	}

	if account.RefreshToken == "" {
		client := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(token))
		client.Timeout = m.config.HTTPTimeout
		return client
	}

	token.RefreshToken = account.RefreshToken
	token.Expiry = account.UpdatedAt.Add(m.config.SessionLifetime)

	oauthConfig := &oauth2.Config{
		ClientID: account.ClientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  account.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// refresh requests outlive any single caller context
	refreshCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	source := &accountTokenSource{
		base:     oauthConfig.TokenSource(refreshCtx, token),
		accounts: m.accounts,
		account:  account,
	}

	client := oauth2.NewClient(refreshCtx, source)
	client.Timeout = m.config.HTTPTimeout
	return client
}

// accountTokenSource writes refreshed tokens back to the account repository.
type accountTokenSource struct {
	base     oauth2.TokenSource
	accounts AccountRepository

	mu      sync.Mutex
	account domain.Account
}

func (s *accountTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.AccessToken == s.account.AccessToken {
		return token, nil
	}

	s.account.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.account.RefreshToken = token.RefreshToken
	}
	s.account.UpdatedAt = utils.Time{Time: time.Now()}

	if err := s.accounts.Upsert(context.Background(), s.account); err != nil {
		slog.Warn("failed to persist refreshed session", slog.Any("error", err))
	} else {
		slog.Info("session refreshed", slog.String("account_id", s.account.ID.String()))
	}

	return token, nil
}
