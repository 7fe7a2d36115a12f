package aggregates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
)

type spyTxRunner struct {
	calls int
	errs  []error
}

func (r *spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.calls++
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		return err
	}
	if len(r.errs) >= r.calls {
		return r.errs[r.calls-1]
	}
	return nil
}

type spyHooks struct {
	mu         sync.Mutex
	statuses   []string
	conflicts  int
	retries    int
	reconciled int
}

func (h *spyHooks) ObserveOperation(_ string, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *spyHooks) IncConflict(string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conflicts++
}

func (h *spyHooks) IncRetry(string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retries++
}

func (h *spyHooks) IncReconciled(_ string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reconciled += n
}

// failCommitRunner runs the body in a real transaction and then fails the
// chosen attempts, which rolls the transaction back as a failed commit would.
type failCommitRunner struct {
	inner TxRunner

	mu       sync.Mutex
	failOn   map[int]error
	attempts int
}

func (r *failCommitRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.attempts++
	injected := r.failOn[r.attempts]
	r.mu.Unlock()
	return r.inner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		return injected
	})
}

func fastRetry(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts}
}

func TestExecuteWriteRecordsSuccess(t *testing.T) {
	runner := &spyTxRunner{}
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{Runner: runner, Hooks: hooks}, "Test.Write", func(dbctx.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if runner.calls != 1 || len(hooks.statuses) != 1 || hooks.statuses[0] != "success" {
		t.Fatalf("unexpected runner/hooks state: calls=%d statuses=%v", runner.calls, hooks.statuses)
	}
}

func TestExecuteWriteMapsErrorsAndCountsConflicts(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{Runner: &spyTxRunner{}, Hooks: hooks}, "Test.Write", func(dbctx.Context) error {
		return ConflictError("lost race")
	})
	if !domainagg.IsCode(err, domainagg.CodeConflictRetryable) {
		t.Fatalf("want conflict_retryable got=%v", err)
	}
	if hooks.conflicts != 1 || hooks.statuses[0] != string(domainagg.CodeConflictRetryable) {
		t.Fatalf("unexpected hooks state: %+v", hooks)
	}
}

func TestExecuteWriteWithRetryRecoversFromConflict(t *testing.T) {
	runner := &spyTxRunner{}
	hooks := &spyHooks{}
	attempts := 0
	err := executeWriteWithRetry(context.Background(), BaseDeps{Runner: runner, Hooks: hooks, Retry: fastRetry(3)}, "Test.Write", func(dbctx.Context) error {
		attempts++
		if attempts < 3 {
			return ConflictError("lost race")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("executeWriteWithRetry: %v", err)
	}
	if attempts != 3 || hooks.conflicts != 2 {
		t.Fatalf("attempts=%d conflicts=%d", attempts, hooks.conflicts)
	}
}

func TestExecuteWriteWithRetryExhaustedConflictIsRetryable(t *testing.T) {
	runner := &spyTxRunner{}
	err := executeWriteWithRetry(context.Background(), BaseDeps{Runner: runner, Retry: fastRetry(4)}, "Test.Write", func(dbctx.Context) error {
		return ConflictError("always loses")
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("want retryable got=%v", err)
	}
	if runner.calls != 4 {
		t.Fatalf("want 4 attempts got=%d", runner.calls)
	}
}

func TestExecuteWriteWithRetryDoesNotRetryDomainErrors(t *testing.T) {
	runner := &spyTxRunner{}
	err := executeWriteWithRetry(context.Background(), BaseDeps{Runner: runner, Retry: fastRetry(5)}, "Test.Write", func(dbctx.Context) error {
		return InvalidTransitionError("done -> in_progress")
	})
	if !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
		t.Fatalf("want invalid_transition got=%v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("want 1 attempt got=%d", runner.calls)
	}
}

func TestExecuteWriteWithRetryRetriesCommitFailures(t *testing.T) {
	runner := &spyTxRunner{errs: []error{errors.New("database is locked")}}
	err := executeWriteWithRetry(context.Background(), BaseDeps{Runner: runner, Retry: fastRetry(2)}, "Test.Write", func(dbctx.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("executeWriteWithRetry: %v", err)
	}
	if runner.calls != 2 {
		t.Fatalf("want 2 attempts got=%d", runner.calls)
	}
}

func TestExecuteWriteWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second}
	err := executeWriteWithRetry(ctx, BaseDeps{Runner: &spyTxRunner{}, Retry: policy}, "Test.Write", func(dbctx.Context) error {
		return ConflictError("lost race")
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("want retryable got=%v", err)
	}
}

func TestRetryPolicyBackoffIsBounded(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 10, BaseDelay: 5 * time.Millisecond, MaxDelay: 20 * time.Millisecond}
	for attempt := 1; attempt <= 10; attempt++ {
		if d := p.backoff(attempt); d < 0 || d > 20*time.Millisecond {
			t.Fatalf("attempt %d: backoff %s out of range", attempt, d)
		}
	}
	if d := (RetryPolicy{}).backoff(3); d != 0 {
		t.Fatalf("zero policy should not wait, got %s", d)
	}
}
