package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rummy-gateway-backend/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	// ErrCacheMiss means the key does not exist.
	ErrCacheMiss = errors.New("cache miss")
	// ErrStoreUnavailable means the operation could not reach the store.
	// Callers treat it like an absent value; it must never crash gameplay.
	ErrStoreUnavailable = errors.New("keyed store unavailable")
)

// RedisService is the process-wide facade over the shared keyed store. The
// connection handle is created once, behind the mutex, either by an explicit
// Initialize at startup or lazily by the first operation.
type RedisService struct {
	mu     sync.Mutex
	client *redis.Client

	cfg  *config.Config
	log  *logrus.Entry
	dial func() *redis.Client
}

func NewRedisService(cfg *config.Config, logger *logrus.Logger) *RedisService {
	s := &RedisService{
		cfg: cfg,
		log: logger.WithField("component", "redis"),
	}
	s.dial = func() *redis.Client {
		return redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
	}
	return s
}

// Initialize dials the store, validating each attempt with a throwaway
// write/read/delete cycle, up to the configured retry budget. An error here
// is fatal to the process: nothing downstream works without the store.
func (s *RedisService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *RedisService) initLocked(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.RedisMaxRetries; attempt++ {
		client := s.dial()
		if err := probeConnection(ctx, client); err != nil {
			lastErr = err
			client.Close()
			s.log.Errorf("Redis connection failed, retry %d/%d: %v", attempt, s.cfg.RedisMaxRetries, err)

			if attempt == s.cfg.RedisMaxRetries {
				break
			}
			select {
			case <-time.After(s.cfg.RedisRetryInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		s.client = client
		s.log.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("could not connect to redis after %d attempts: %w", s.cfg.RedisMaxRetries, lastErr)
}

func probeConnection(ctx context.Context, client *redis.Client) error {
	if err := client.Set(ctx, keyConnProbe, "ok", time.Minute).Err(); err != nil {
		return err
	}
	if err := client.Get(ctx, keyConnProbe).Err(); err != nil {
		return err
	}
	return client.Del(ctx, keyConnProbe).Err()
}

// getClient hands out the shared handle, bringing the connection up on first
// use. Operations share one retry budget here rather than each spinning
// their own loop.
func (s *RedisService) getClient(ctx context.Context) (*redis.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		if err := s.initLocked(ctx); err != nil {
			return nil, err
		}
	}
	return s.client, nil
}

func (s *RedisService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Errorf("Failed to set cache: %v", err)
		return ErrStoreUnavailable
	}
	if ttl == 0 {
		ttl = TTLDefault
	}
	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Errorf("Failed to set cache: %v", err)
		return ErrStoreUnavailable
	}
	return nil
}

func (s *RedisService) Get(ctx context.Context, key string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Errorf("Failed to get cache: %v", err)
		return "", ErrStoreUnavailable
	}
	value, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		s.log.Infof("Cache not found: %s", key)
		return "", ErrCacheMiss
	}
	if err != nil {
		s.log.Errorf("Failed to get cache: %v", err)
		return "", ErrStoreUnavailable
	}
	return value, nil
}

func (s *RedisService) Delete(ctx context.Context, key string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Errorf("Failed to delete cache: %v", err)
		return ErrStoreUnavailable
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		s.log.Errorf("Failed to delete cache: %v", err)
		return ErrStoreUnavailable
	}
	return nil
}

func (s *RedisService) Increment(ctx context.Context, key string, amount int64) (int64, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Errorf("Failed to increment cache: %v", err)
		return 0, ErrStoreUnavailable
	}
	value, err := client.IncrBy(ctx, key, amount).Result()
	if err != nil {
		s.log.Errorf("Failed to increment cache: %v", err)
		return 0, ErrStoreUnavailable
	}
	return value, nil
}

func (s *RedisService) SetHashField(ctx context.Context, hash, field, value string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Errorf("Failed to set hash field: %v", err)
		return ErrStoreUnavailable
	}
	if err := client.HSet(ctx, hash, field, value).Err(); err != nil {
		s.log.Errorf("Failed to set hash field: %v", err)
		return ErrStoreUnavailable
	}
	return nil
}

func (s *RedisService) GetHashField(ctx context.Context, hash, field string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		s.log.Errorf("Failed to get hash field: %v", err)
		return "", ErrStoreUnavailable
	}
	value, err := client.HGet(ctx, hash, field).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		s.log.Errorf("Failed to get hash field: %v", err)
		return "", ErrStoreUnavailable
	}
	return value, nil
}

// FlushAll clears the entire database. Maintenance tooling only; never part
// of the request-serving path.
func (s *RedisService) FlushAll(ctx context.Context) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return ErrStoreUnavailable
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		s.log.Errorf("Failed to flush database: %v", err)
		return ErrStoreUnavailable
	}
	s.log.Info("All keys deleted from the current Redis database")
	return nil
}

func (s *RedisService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
