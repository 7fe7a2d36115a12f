package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct{ db *gorm.DB }

func NewGormTxRunner(db *gorm.DB) TxRunner { return gormTxRunner{db: db} }

func (r gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// BaseDeps is shared by every aggregate. Zero fields get working defaults.
type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Retry    RetryPolicy
	Clock    func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Retry.MaxAttempts <= 0 {
		d.Retry = DefaultRetryPolicy()
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

func (d BaseDeps) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock().UTC()
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflictRetryable) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

// executeWriteWithRetry re-runs fn in a fresh transaction while it fails with a
// conflict or a transient error. A conflict that outlives the policy surfaces
// as CodeRetryable; conflicts never leave this function.
func executeWriteWithRetry(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	policy := deps.Retry
	var err error
	for attempt := 1; ; attempt++ {
		err = executeWrite(ctx, deps, op, fn)
		if err == nil {
			return nil
		}
		code := domainagg.CodeOf(err)
		if !code.Retryable() {
			return err
		}
		if attempt >= policy.MaxAttempts {
			break
		}
		deps.Log.Debug("Retrying aggregate write", "op", op, "attempt", attempt, "code", string(code))
		if waitErr := policy.wait(ctx, attempt); waitErr != nil {
			return domainagg.Wrap(domainagg.CodeRetryable, op, waitErr)
		}
	}
	if domainagg.IsCode(err, domainagg.CodeConflictRetryable) {
		return domainagg.NewError(domainagg.CodeRetryable, op, "write kept conflicting after retries", err)
	}
	return err
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
