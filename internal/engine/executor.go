package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
)

// Executor applies mutating operations one at a time. Each operation runs
// against a journal checkpoint and is rolled back entirely if it fails or panics.
type Executor struct {
	mu      sync.Mutex
	journal assets.JournalInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	version atomic.Uint64
}

func NewExecutor(journal assets.JournalInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Executor {
	return &Executor{
		journal: journal,
		logger:  logger,
		metrics: metrics,
	}
}

// Version changes after every committed operation.
func (e *Executor) Version() uint64 {
	return e.version.Load()
}

func (e *Executor) Run(ctx context.Context, op string, channel providers.TypeEnum, fn func(ctx context.Context) error) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	cp := e.journal.Checkpoint()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", op, r)
		}
		if err != nil {
			e.journal.RevertTo(cp)
			e.logger.Warnf(channel, "%s reverted: %s", op, err)
		} else {
			e.journal.Commit()
			e.version.Add(1)
			e.logger.Infof(channel, "%s committed", op)
		}
		e.metrics.IncOperationsTotal(op, Outcome(err))
		e.metrics.ObserveOperationDuration(op, time.Since(start))
	}()

	return fn(ctx)
}

// Exclusive runs fn under the executor lock without journaling.
func (e *Executor) Exclusive(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Invalidate bumps the version after state was replaced wholesale.
func (e *Executor) Invalidate() {
	e.version.Add(1)
}

func run[T any](ctx context.Context, e *Executor, op string, channel providers.TypeEnum, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := e.Run(ctx, op, channel, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Outcome labels an operation result for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, models.ErrPlanNotFound):
		return "plan_not_found"
	case errors.Is(err, models.ErrSubscriptionNotActive):
		return "subscription_not_active"
	case errors.Is(err, models.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, models.ErrInvalidPercentageSum):
		return "invalid_percentage_sum"
	case errors.Is(err, models.ErrTransferFailed):
		return "transfer_failed"
	case errors.Is(err, models.ErrPaymentIdOutOfOrder):
		return "payment_id_out_of_order"
	case errors.Is(err, models.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
