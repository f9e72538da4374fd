package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"push-registrar/internal/infra/cache"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/persistence/internal"
	"push-registrar/internal/push/usecases"

	"github.com/redis/go-redis/v9"
)

const _optionsKeyPrefix = "push:registration:options:"

func NewOptionsRepository(client cache.CacheClient) *RedisOptionsRepository {
	return &RedisOptionsRepository{
		client: client,
	}
}

var _ usecases.OptionsRepository = (*RedisOptionsRepository)(nil)

// RedisOptionsRepository keeps one options bundle per application name.
// Entries never expire.
type RedisOptionsRepository struct {
	client cache.CacheClient
}

func (r *RedisOptionsRepository) Save(ctx context.Context, options domain.RegistrationOptions) error {
	data, err := internal.FromRegistrationOptions(options).Marshal()
	if err != nil {
		return fmt.Errorf("encoding registration options: %w", err)
	}

	if err := r.client.Set(ctx, optionsKey(options.ApplicationName), data, 0).Err(); err != nil {
		return fmt.Errorf("saving registration options: %w", err)
	}

	slog.Debug("saved registration options",
		slog.String("application_name", options.ApplicationName),
		slog.String("object_id", options.ObjectIDOrEmpty()))
	return nil
}

func (r *RedisOptionsRepository) Get(ctx context.Context, applicationName string) (domain.RegistrationOptions, error) {
	data, err := r.client.Get(ctx, optionsKey(applicationName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RegistrationOptions{}, usecases.ErrOptionsNotFound
	}
	if err != nil {
		return domain.RegistrationOptions{}, fmt.Errorf("getting registration options: %w", err)
	}

	entity, err := internal.UnmarshalRegistrationOptions(data)
	if err != nil {
		return domain.RegistrationOptions{}, fmt.Errorf("decoding registration options: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *RedisOptionsRepository) Delete(ctx context.Context, applicationName string) error {
	deleted, err := r.client.Del(ctx, optionsKey(applicationName)).Result()
	if err != nil {
		return fmt.Errorf("deleting registration options: %w", err)
	}
	if deleted == 0 {
		return usecases.ErrOptionsNotFound
	}

	slog.Debug("deleted registration options", slog.String("application_name", applicationName))
	return nil
}

func optionsKey(applicationName string) string {
	return _optionsKeyPrefix + applicationName
}
