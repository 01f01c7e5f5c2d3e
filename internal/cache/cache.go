// Package cache is a thin string cache used for WhatsApp bridge status
// and checkout idempotency reservations. When no Redis address is
// configured the noop implementation is wired instead and callers fall
// back to database-only behavior.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores the value only if the key is absent and reports
	// whether it was stored.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type Noop struct{}

func (Noop) Get(_ context.Context, _ string) (string, bool, error) { return "", false, nil }

func (Noop) Set(_ context.Context, _, _ string, _ time.Duration) error { return nil }

func (Noop) SetNX(_ context.Context, _, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (Noop) Delete(_ context.Context, _ string) error { return nil }
