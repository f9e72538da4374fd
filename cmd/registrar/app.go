package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-registrar/cmd/config"
	"push-registrar/internal/infra/async"
	"push-registrar/internal/infra/cache"
	"push-registrar/internal/infra/mqtt"
	"push-registrar/internal/infra/node"
	"push-registrar/internal/infra/sql"
	"push-registrar/internal/infra/transport"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/persistence"
	"push-registrar/internal/push/usecases"

	"github.com/redis/go-redis/v9"
)

// app holds the wired registrar. Parts are built on first use so that the
// account commands do not need Redis or a broker.
type app struct {
	config config.AppConfig
	broker *async.LocalBroker

	closers []func() error

	clientManager *usecases.SimpleClientManager
	redisClient   *redis.Client
	registrar     *usecases.SimpleRegistrarService
}

func newApp(config config.AppConfig) *app {
	return &app{
		config: config,
		broker: async.NewLocalBroker(),
	}
}

func (a *app) login() *domain.LoginOptions {
	return &domain.LoginOptions{
		TransportApplicationID: a.config.Login.TransportApplicationID,
		AccountType:            domain.AccountType(a.config.Login.AccountType),
	}
}

func (a *app) sessions() (*usecases.SimpleClientManager, error) {
	if a.clientManager != nil {
		return a.clientManager, nil
	}

	orm, err := sql.NewORM(a.config.Database.Driver, a.config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening account store: %w", err)
	}
	a.closers = append(a.closers, orm.Close)

	accounts, err := persistence.NewAccountRepository(orm)
	if err != nil {
		return nil, fmt.Errorf("creating account repository: %w", err)
	}

	clients, err := cache.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating client cache: %w", err)
	}
	a.closers = append(a.closers, func() error {
		clients.Close()
		return nil
	})

	a.clientManager = usecases.NewClientManager(accounts, clients, usecases.ClientManagerConfig{
		AccountType:     domain.AccountType(a.config.Login.AccountType),
		SessionLifetime: a.config.Session.Lifetime,
		ClientTTL:       a.config.Session.ClientTTL,
		HTTPTimeout:     a.config.Session.HTTPTimeout,
	})
	return a.clientManager, nil
}

func (a *app) redis() (*redis.Client, error) {
	if a.redisClient != nil {
		return a.redisClient, nil
	}

	redisConfig := cache.DefaultRedisConfig()
	redisConfig.Addr = a.config.Redis.Addr
	redisConfig.Password = a.config.Redis.Password
	redisConfig.DB = a.config.Redis.DB
	if a.config.Redis.PoolSize > 0 {
		redisConfig.PoolSize = a.config.Redis.PoolSize
	}

	client, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		return nil, err
	}
	a.redisClient = client
	a.closers = append(a.closers, client.Close)
	return client, nil
}

func (a *app) transport(ctx context.Context) (usecases.Transport, error) {
	deviceID := a.config.MQTTClient.DeviceID

	if a.config.IsLocal() {
		if deviceID == "" {
			deviceID = node.GetNodeInfo().Hostname
		}
		slog.Info("using in-memory push transport", slog.String("device_id", deviceID))
		return transport.NewMemoryTransport(deviceID), nil
	}

	redisClient, err := a.redis()
	if err != nil {
		return nil, err
	}

	client, err := mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
		Broker:   a.config.MQTTClient.Broker,
		ClientID: node.ClientID(a.config.MQTTClient.ClientID),
		Username: a.config.MQTTClient.Username,
		Password: a.config.MQTTClient.Password, //pragma: allowlist secret
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		client.Disconnect()
		return nil
	})

	store := cache.NewRedisCacheWithClient(redisClient, nil)
	return transport.NewMQTTTransport(ctx, client, store, a.broker, transport.MQTTTransportConfig{
		DeviceID: deviceID,
	})
}

func (a *app) registrarService(ctx context.Context) (*usecases.SimpleRegistrarService, error) {
	if a.registrar != nil {
		return a.registrar, nil
	}

	if a.config.Registration.ApplicationName == "" {
		return nil, errors.New("registration.application_name is required")
	}

	clientManager, err := a.sessions()
	if err != nil {
		return nil, err
	}

	redisClient, err := a.redis()
	if err != nil {
		return nil, err
	}

	pushTransport, err := a.transport(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating push transport: %w", err)
	}

	a.registrar = usecases.NewRegistrarService(
		a.login(),
		pushTransport,
		clientManager,
		persistence.NewOptionsRepository(redisClient),
		usecases.RegistrationConfig{
			ApplicationName: a.config.Registration.ApplicationName,
			NamespacePrefix: a.config.Registration.NamespacePrefix,
			Vendor:          a.config.Registration.Vendor,
			APIVersion:      a.config.Registration.APIVersion,
		},
	)
	return a.registrar, nil
}

func (a *app) Close() {
	a.broker.Stop()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("closing resource", slog.Any("error", err))
		}
	}
	a.closers = nil
}
