package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeHelpers(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInvalidState, "session.append", cause)
	wrapped := fmt.Errorf("outer: %w", err)

	if !IsCode(wrapped, CodeInvalidState) {
		t.Fatalf("IsCode: want invalid_state")
	}
	if IsCode(wrapped, CodeNotFound) {
		t.Fatalf("IsCode: unexpected not_found")
	}
	if got := CodeOf(wrapped); got != CodeInvalidState {
		t.Fatalf("CodeOf: want=%s got=%s", CodeInvalidState, got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("unwrap: want cause reachable")
	}
	if CodeOf(cause) != "" {
		t.Fatalf("CodeOf plain: want empty")
	}
	if Wrap(CodeInternal, "x", nil) != nil {
		t.Fatalf("Wrap(nil): want nil")
	}
}

func TestErrorString(t *testing.T) {
	err := NewError(CodeInvalidTransition, "goal.transition", "not_started -> done", nil)
	if got := err.Error(); got != "goal.transition: not_started -> done (invalid_transition)" {
		t.Fatalf("Error(): got=%q", got)
	}
}

func TestErrorCodeClasses(t *testing.T) {
	for _, c := range []ErrorCode{CodeConflictRetryable, CodeRetryable} {
		if !c.Retryable() || c.Rejected() {
			t.Fatalf("%s: want retryable only", c)
		}
	}
	for _, c := range []ErrorCode{CodeValidation, CodeNotFound, CodeInvalidState, CodeInvalidTransition} {
		if c.Retryable() || !c.Rejected() {
			t.Fatalf("%s: want rejected only", c)
		}
	}
	for _, c := range []ErrorCode{CodeInternal, CodeConsistencyViolation, ""} {
		if c.Retryable() || c.Rejected() {
			t.Fatalf("%q: want neither class", c)
		}
	}
}
