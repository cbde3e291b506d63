package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBackend(client, ""), mr
}

func TestRedisBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)

	if _, err := backend.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty slot, got %v", err)
	}

	if err := backend.Save(ctx, []byte(`{"user":null}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, err := mr.Get(DefaultRedisKey); err != nil || got != `{"user":null}` {
		t.Fatalf("expected slot under default key, got %q (err %v)", got, err)
	}

	data, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != `{"user":null}` {
		t.Fatalf("unexpected slot contents: %s", data)
	}

	if err := backend.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := backend.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestRedisBackendCustomKey(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := NewRedisBackend(client, "cdep:gw1:session")
	if err := backend.Save(ctx, []byte("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !mr.Exists("cdep:gw1:session") {
		t.Fatal("expected slot under custom key")
	}
}

func TestRedisBackendUnavailable(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)
	mr.Close()

	if _, err := backend.Load(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on load, got %v", err)
	}
	if err := backend.Save(ctx, []byte("x")); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on save, got %v", err)
	}
}
