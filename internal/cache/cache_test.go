package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/counterpos/api/internal/config"
)

func TestNoopStoreAlwaysMisses(t *testing.T) {
	s := Noop()
	ctx := context.Background()

	if err := s.Set(ctx, "menu:items", []byte("[]"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(ctx, "menu:items"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get error = %v, want ErrCacheMiss", err)
	}
	if err := s.Delete(ctx, "menu:items"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestNewStoreWithoutRedisAddrIsNoop(t *testing.T) {
	s, err := NewStore(context.Background(), &config.Config{}, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := s.(noopStore); !ok {
		t.Fatalf("store = %T, want noopStore", s)
	}
}

func TestNewStoreUnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := NewStore(ctx, &config.Config{RedisAddr: "127.0.0.1:1"}, nil)
	if err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}
}
