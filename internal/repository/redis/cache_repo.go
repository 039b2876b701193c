package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// CacheRepo реализует repository.CacheRepository поверх Redis
type CacheRepo struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewCacheRepo создает новый репозиторий кеша
func NewCacheRepo(client redis.UniversalClient) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{
		client:  client,
		timeout: 2 * time.Second,
	}, nil
}

func (r *CacheRepo) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Delete удаляет значение из кеша
func (r *CacheRepo) Delete(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

// SetJSON сохраняет структуру в кеше в виде JSON
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON читает JSON из кеша в dest. Отсутствие ключа - apperrors.ErrNotFound.
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := r.ctx()
	defer cancel()
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetNX устанавливает значение ключа, только если ключ не существует.
// Возвращает true, если ключ был установлен, false - если ключ уже существовал.
func (r *CacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.SetNX(ctx, key, value, expiration).Result()
}
