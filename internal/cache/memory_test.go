package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryProviderRoundTrip(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	if err := provider.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := provider.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != "v" {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestMemoryProviderMiss(t *testing.T) {
	provider := NewMemoryProvider()

	if _, err := provider.Get(context.Background(), "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestMemoryProviderTTLExpiry(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	current := time.Now()
	provider.now = func() time.Time { return current }

	if err := provider.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); err != nil {
		t.Fatalf("expected hit before expiry: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := provider.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestMemoryProviderZeroTTLKeepsEntry(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	current := time.Now()
	provider.now = func() time.Time { return current }

	if err := provider.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	current = current.Add(24 * time.Hour)
	if _, err := provider.Get(ctx, "k"); err != nil {
		t.Fatalf("expected entry without TTL to survive: %v", err)
	}
}

func TestMemoryProviderDel(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	provider.Set(ctx, "k", []byte("v"), time.Minute)
	if err := provider.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestNoopProvider(t *testing.T) {
	provider := NoopProvider{}
	ctx := context.Background()

	if err := provider.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("noop set must not fail: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("noop get must always miss, got %v", err)
	}
}
