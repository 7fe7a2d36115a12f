package memory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ArtifactType string

const (
	ArtifactSummary       ArtifactType = "summary"
	ArtifactActionPlan    ArtifactType = "action_plan"
	ArtifactQuestionDraft ArtifactType = "question_draft"
	ArtifactGoal          ArtifactType = "goal"
	ArtifactInsight       ArtifactType = "insight"
)

func (t ArtifactType) Valid() bool {
	switch t {
	case ArtifactSummary, ArtifactActionPlan, ArtifactQuestionDraft, ArtifactGoal, ArtifactInsight:
		return true
	}
	return false
}

// Artifact is a generated output. At most one exists per (session, type);
// standalone artifacts (no session) are unconstrained.
type Artifact struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_artifact_session_type,priority:1" json:"session_id,omitempty"`

	Type    ArtifactType   `gorm:"column:type;not null;uniqueIndex:idx_artifact_session_type,priority:2" json:"type"`
	Title   *string        `gorm:"column:title" json:"title,omitempty"`
	Content datatypes.JSON `gorm:"column:content;not null" json:"content"`

	IsPinned bool `gorm:"column:is_pinned;not null;default:false;index" json:"is_pinned"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Artifact) TableName() string { return "artifact" }

// Payload decodes the stored content into its typed variant.
func (a *Artifact) Payload() (Content, error) {
	return DecodeContent(a.Type, a.Content)
}
