package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danfirsten/Standup/internal/pkg/ids"
)

type Type string

const (
	SessionClosed     Type = "session.closed"
	ThemesApplied     Type = "themes.applied"
	ArtifactGenerated Type = "artifact.generated"
	GoalTransitioned  Type = "goal.transitioned"
	ThemeReconciled   Type = "theme.reconciled"
)

// Event is the envelope published for every memory change.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	UserID     uuid.UUID       `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func New(t Type, userID uuid.UUID, data any) (Event, error) {
	ev := Event{ID: ids.New(), Type: t, UserID: userID, OccurredAt: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s event: %w", t, err)
		}
		ev.Data = raw
	}
	return ev, nil
}

// Decode unmarshals the event data into out.
func (e Event) Decode(out any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s event has no data", e.Type)
	}
	return json.Unmarshal(e.Data, out)
}

type Handler func(ev Event)

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe delivers events to fn until ctx ends.
	Subscribe(ctx context.Context, fn Handler) error
	Close() error
}

type SessionClosedData struct {
	SessionID uuid.UUID `json:"session_id"`
	EndedAt   time.Time `json:"ended_at"`
}

type ThemesAppliedData struct {
	SessionID uuid.UUID   `json:"session_id"`
	ThemeIDs  []uuid.UUID `json:"theme_ids"`
	Created   int         `json:"created"`
	Updated   int         `json:"updated"`
}

type ArtifactGeneratedData struct {
	ArtifactID uuid.UUID  `json:"artifact_id"`
	SessionID  *uuid.UUID `json:"session_id,omitempty"`
	Type       string     `json:"type"`
	Created    bool       `json:"created"`
}

type GoalTransitionedData struct {
	GoalID  uuid.UUID `json:"goal_id"`
	Status  string    `json:"status"`
	Version int       `json:"version"`
}

type ThemeReconciledData struct {
	RunID       string    `json:"run_id"`
	ThemeID     uuid.UUID `json:"theme_id"`
	StoredCount int64     `json:"stored_count"`
	ActualCount int64     `json:"actual_count"`
}
