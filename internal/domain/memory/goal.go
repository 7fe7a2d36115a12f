package memory

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalInProgress GoalStatus = "in_progress"
	GoalDone       GoalStatus = "done"
	GoalDropped    GoalStatus = "dropped"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalNotStarted, GoalInProgress, GoalDone, GoalDropped:
		return true
	}
	return false
}

func (s GoalStatus) Terminal() bool {
	return s == GoalDone || s == GoalDropped
}

var goalTransitions = map[GoalStatus][]GoalStatus{
	GoalNotStarted: {GoalInProgress, GoalDropped},
	GoalInProgress: {GoalDone, GoalDropped},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to GoalStatus) bool {
	for _, next := range goalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PriorStatuses lists the states from which to is reachable in one step.
func PriorStatuses(to GoalStatus) []GoalStatus {
	var out []GoalStatus
	for _, from := range []GoalStatus{GoalNotStarted, GoalInProgress} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Goal is a user commitment. ArtifactID is provenance only.
type Goal struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ArtifactID *uuid.UUID `gorm:"type:uuid;index" json:"artifact_id,omitempty"`
	// Set only by promotion. At most one goal per promoted artifact.
	PromotedFromArtifactID *uuid.UUID `gorm:"column:promoted_from_artifact_id;type:uuid;uniqueIndex:idx_goal_promoted_from" json:"promoted_from_artifact_id,omitempty"`

	Description string     `gorm:"column:description;not null" json:"description"`
	TimeHorizon *string    `gorm:"column:time_horizon" json:"time_horizon,omitempty"`
	Status      GoalStatus `gorm:"column:status;not null;default:'not_started';index" json:"status"`
	TargetDate  *time.Time `gorm:"column:target_date" json:"target_date,omitempty"`

	Version int `gorm:"column:version;not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Goal) TableName() string { return "goal" }
