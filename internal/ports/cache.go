package ports

import (
	"context"
	"time"
)

// LoginActivityStore tracks failed sign-in attempts per account key.
// The store is advisory: a store outage must never block authentication, so
// callers log and proceed when it errors.
type LoginActivityStore interface {
	RecordFailure(ctx context.Context, key string, at time.Time) error
	FailuresSince(ctx context.Context, key string, since time.Time) (int, error)
	Clear(ctx context.Context, key string) error
}
