package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rummy-gateway-backend/internal/config"
	"rummy-gateway-backend/internal/services"
)

func liveConfig() *config.Config {
	return &config.Config{
		RedisHost:          "localhost",
		RedisPort:          "6379",
		RedisMaxRetries:    1,
		RedisRetryInterval: 100 * time.Millisecond,
	}
}

func TestRedisServiceOperations(t *testing.T) {
	ctx := context.Background()

	store := services.NewRedisService(liveConfig(), quietLogger())
	if err := store.Initialize(ctx); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer store.Close()

	key := "test:gateway:scalar"
	defer store.Delete(ctx, key)

	if err := store.Set(ctx, key, "value-1", time.Minute); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	value, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if value != "value-1" {
		t.Errorf("Expected value-1, got %q", value)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, services.ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}

	counter := "test:gateway:counter"
	defer store.Delete(ctx, counter)

	first, err := store.Increment(ctx, counter, 3)
	if err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if first != 3 {
		t.Errorf("Fresh counter should return the increment amount, got %d", first)
	}

	second, err := store.Increment(ctx, counter, 2)
	if err != nil {
		t.Fatalf("Failed to increment again: %v", err)
	}
	if second != 5 {
		t.Errorf("Counter should accumulate to 5, got %d", second)
	}

	hash := "test:gateway:hash"
	defer store.Delete(ctx, hash)

	if err := store.SetHashField(ctx, hash, "field", "fv"); err != nil {
		t.Fatalf("Failed to set hash field: %v", err)
	}
	fieldValue, err := store.GetHashField(ctx, hash, "field")
	if err != nil {
		t.Fatalf("Failed to get hash field: %v", err)
	}
	if fieldValue != "fv" {
		t.Errorf("Expected fv, got %q", fieldValue)
	}
	if _, err := store.GetHashField(ctx, hash, "absent"); !errors.Is(err, services.ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for absent hash field, got %v", err)
	}
}

func TestRedisServiceUnreachable(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{
		RedisHost:          "127.0.0.1",
		RedisPort:          "1",
		RedisMaxRetries:    2,
		RedisRetryInterval: 10 * time.Millisecond,
	}
	store := services.NewRedisService(cfg, quietLogger())

	if err := store.Initialize(ctx); err == nil {
		t.Fatal("Initialize against a closed port should exhaust its retries")
	}

	// Every operation degrades to the sentinel instead of panicking or
	// propagating a transport error.
	if err := store.Set(ctx, "k", "v", time.Minute); !errors.Is(err, services.ErrStoreUnavailable) {
		t.Errorf("Set should return ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, services.ErrStoreUnavailable) {
		t.Errorf("Get should return ErrStoreUnavailable, got %v", err)
	}
	if err := store.Delete(ctx, "k"); !errors.Is(err, services.ErrStoreUnavailable) {
		t.Errorf("Delete should return ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Increment(ctx, "k", 1); !errors.Is(err, services.ErrStoreUnavailable) {
		t.Errorf("Increment should return ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.GetHashField(ctx, "h", "f"); !errors.Is(err, services.ErrStoreUnavailable) {
		t.Errorf("GetHashField should return ErrStoreUnavailable, got %v", err)
	}
}
