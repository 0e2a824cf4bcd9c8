package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
)

const (
	defaultStaleAfterDays = 14
	staleCancelBatchSize  = 100
)

// OrderTTLJobParams configure the stale order scheduler.
type OrderTTLJobParams struct {
	Logger         *logger.Logger
	Canceler       staleOrderCanceler
	StaleAfterDays int
}

type staleOrderCanceler interface {
	CancelStale(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// NewOrderTTLJob builds the cron job that cancels orders stuck in TO_PROCESS.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Canceler == nil {
		return nil, fmt.Errorf("stale order canceler required")
	}
	staleAfter := params.StaleAfterDays
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfterDays
	}
	return &orderTTLJob{
		logg:       params.Logger,
		canceler:   params.Canceler,
		staleAfter: staleAfter,
	}, nil
}

type orderTTLJob struct {
	logg       *logger.Logger
	canceler   staleOrderCanceler
	staleAfter int
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	olderThan := time.Duration(j.staleAfter) * 24 * time.Hour
	canceled, err := j.canceler.CancelStale(ctx, olderThan, staleCancelBatchSize)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"stale_after_days": j.staleAfter,
		"canceled":         canceled,
	})
	if err != nil {
		j.logg.Warn(logCtx, "stale order sweep finished with errors")
		return fmt.Errorf("stale order sweep: %w", err)
	}
	j.logg.Info(logCtx, "stale order sweep complete")
	return nil
}
