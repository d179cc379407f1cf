package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

type stubUsers struct {
	ports.UserRepository
	calls atomic.Int64
}

func (s *stubUsers) ClearExpiredOneTimeState(_ context.Context, _ time.Time) (int64, error) {
	s.calls.Add(1)
	return 2, nil
}

type stubActivity struct {
	calls   atomic.Int64
	cutoffs chan time.Time
}

func (s *stubActivity) Insert(context.Context, domain.ActivityEntry) error { return nil }

func (s *stubActivity) ListByUser(context.Context, uuid.UUID, ports.ActivityQuery) ([]domain.ActivityEntry, error) {
	return nil, nil
}

func (s *stubActivity) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.calls.Add(1)
	select {
	case s.cutoffs <- cutoff:
	default:
	}
	return 1, nil
}

func (s *stubActivity) DeleteAllByUser(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func TestRetentionWorkerSweepsUntilCancelled(t *testing.T) {
	t.Parallel()

	users := &stubUsers{}
	activity := &stubActivity{cutoffs: make(chan time.Time, 1)}
	retention := 90 * 24 * time.Hour
	w := NewRetentionWorker(nil, users, activity, 5*time.Millisecond, retention)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var cutoff time.Time
	select {
	case cutoff = <-activity.cutoffs:
	case <-time.After(time.Second):
		t.Fatalf("worker never swept")
	}
	if got := time.Since(cutoff.Add(retention)); got > time.Minute || got < -time.Minute {
		t.Fatalf("cutoff not at retention horizon: %s", cutoff)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("worker did not stop on cancel")
	}

	if users.calls.Load() == 0 || activity.calls.Load() == 0 {
		t.Fatalf("expected both sweep steps to run")
	}
}
