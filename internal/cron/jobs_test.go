package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test"})
}

type stubCanceler struct {
	olderThan time.Duration
	limit     int
	canceled  int
	err       error
}

func (c *stubCanceler) CancelStale(_ context.Context, olderThan time.Duration, limit int) (int, error) {
	c.olderThan = olderThan
	c.limit = limit
	return c.canceled, c.err
}

type stubCleaner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (c *stubCleaner) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	c.cutoff = cutoff
	return c.deleted, c.err
}

type stubOutboxRepo struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (r *stubOutboxRepo) DeletePublishedBefore(cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.deleted, r.err
}

func TestOrderTTLJob(t *testing.T) {
	t.Parallel()

	t.Run("passes window and batch size", func(t *testing.T) {
		canceler := &stubCanceler{canceled: 4}
		job, err := NewOrderTTLJob(OrderTTLJobParams{
			Logger:         testLogger(),
			Canceler:       canceler,
			StaleAfterDays: 7,
		})
		if err != nil {
			t.Fatalf("NewOrderTTLJob error: %v", err)
		}
		if err := job.Run(context.Background()); err != nil {
			t.Fatalf("Run error: %v", err)
		}
		if canceler.olderThan != 7*24*time.Hour {
			t.Fatalf("expected 7 day window, got %s", canceler.olderThan)
		}
		if canceler.limit != staleCancelBatchSize {
			t.Fatalf("expected batch size %d, got %d", staleCancelBatchSize, canceler.limit)
		}
	})

	t.Run("defaults stale window", func(t *testing.T) {
		canceler := &stubCanceler{}
		job, err := NewOrderTTLJob(OrderTTLJobParams{Logger: testLogger(), Canceler: canceler})
		if err != nil {
			t.Fatalf("NewOrderTTLJob error: %v", err)
		}
		if err := job.Run(context.Background()); err != nil {
			t.Fatalf("Run error: %v", err)
		}
		if canceler.olderThan != defaultStaleAfterDays*24*time.Hour {
			t.Fatalf("expected default window, got %s", canceler.olderThan)
		}
	})

	t.Run("surfaces sweep failure", func(t *testing.T) {
		canceler := &stubCanceler{err: fmt.Errorf("db down")}
		job, err := NewOrderTTLJob(OrderTTLJobParams{Logger: testLogger(), Canceler: canceler})
		if err != nil {
			t.Fatalf("NewOrderTTLJob error: %v", err)
		}
		if err := job.Run(context.Background()); err == nil {
			t.Fatalf("expected error from failed sweep")
		}
	})

	t.Run("requires dependencies", func(t *testing.T) {
		if _, err := NewOrderTTLJob(OrderTTLJobParams{Logger: testLogger()}); err == nil {
			t.Fatalf("expected error without canceler")
		}
		if _, err := NewOrderTTLJob(OrderTTLJobParams{Canceler: &stubCanceler{}}); err == nil {
			t.Fatalf("expected error without logger")
		}
	})
}

func TestNotificationCleanupJob(t *testing.T) {
	t.Parallel()

	cleaner := &stubCleaner{deleted: 12}
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:    testLogger(),
		Cleaner:   cleaner,
		Retention: 45,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob error: %v", err)
	}

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	job.(*notificationCleanupJob).now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := fixed.Add(-45 * 24 * time.Hour)
	if !cleaner.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, cleaner.cutoff)
	}

	cleaner.err = fmt.Errorf("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error from failed cleanup")
	}
}

func TestOutboxRetentionJob(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{deleted: 5}
	job, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     testLogger(),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewOutboxRetentionJob error: %v", err)
	}

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	job.(*outboxRetentionJob).now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := fixed.Add(-outboxRetentionDays * 24 * time.Hour)
	if !repo.cutoff.Equal(want) {
		t.Fatalf("expected default retention cutoff %s, got %s", want, repo.cutoff)
	}

	repo.err = fmt.Errorf("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error from failed retention pass")
	}
}
