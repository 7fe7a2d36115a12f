package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/danfirsten/Standup/internal/domain/aggregates"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad"), domainagg.CodeValidation},
		{"not found sentinel", NotFoundError("gone"), domainagg.CodeNotFound},
		{"gorm not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"invalid state", InvalidStateError("closed"), domainagg.CodeInvalidState},
		{"invalid transition", InvalidTransitionError("done -> dropped"), domainagg.CodeInvalidTransition},
		{"conflict", ConflictError("lost"), domainagg.CodeConflictRetryable},
		{"retryable", RetryableError("later"), domainagg.CodeRetryable},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflictRetryable},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: theme.user_id, theme.normalized_name (2067)"), domainagg.CodeConflictRetryable},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), domainagg.CodeRetryable},
		{"unknown", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("Test.Op", tc.err)
			if code := domainagg.CodeOf(got); code != tc.want {
				t.Fatalf("want %s got %s (%v)", tc.want, code, got)
			}
		})
	}
}

func TestMapErrorKeepsAggregateErrors(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeInvalidState, "Inner.Op", "closed", nil)
	if got := MapError("Outer.Op", in); got != in {
		t.Fatalf("aggregate error should pass through unchanged: %v", got)
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil should map to nil")
	}
}
