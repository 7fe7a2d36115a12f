package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var ThemeAggregateContract = Contract{
	Name:      "Memory.ThemeAggregate",
	Writes:    []string{"theme", "theme_occurrence"},
	Invariant: "occurrence_count moves only together with a new (theme, session) occurrence.",
}

// ThemeAggregate merges candidate labels from a closed session into the user's themes.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvalidState, CodeRetryable, CodeInternal.
// Create/increment races are resolved internally and never surface as CodeConflictRetryable.
type ThemeAggregate interface {
	Aggregate

	ApplyThemes(ctx context.Context, in ApplyThemesInput) (ApplyThemesResult, error)
}

type ThemeCandidate struct {
	Label       string  `json:"label" yaml:"label"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

type ApplyThemesInput struct {
	UserID     uuid.UUID
	SessionID  uuid.UUID
	Candidates []ThemeCandidate
}

type ThemeOutcomeStatus string

const (
	ThemeCreated     ThemeOutcomeStatus = "created"
	ThemeIncremented ThemeOutcomeStatus = "incremented"
	// ThemeUnchanged means the session was already recorded for the theme.
	ThemeUnchanged ThemeOutcomeStatus = "unchanged"
)

type ThemeOutcome struct {
	Label           string             `json:"label"`
	NormalizedName  string             `json:"normalized_name"`
	ThemeID         uuid.UUID          `json:"theme_id"`
	Status          ThemeOutcomeStatus `json:"status"`
	OccurrenceCount int64              `json:"occurrence_count"`
}

type ApplyThemesResult struct {
	SessionID uuid.UUID      `json:"session_id"`
	Outcomes  []ThemeOutcome `json:"outcomes"`
}
