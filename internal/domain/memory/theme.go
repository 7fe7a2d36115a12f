package memory

import (
	"time"

	"github.com/google/uuid"
)

// Theme is a recurring topic for one user, keyed by its normalized label.
// OccurrenceCount mirrors the number of ThemeOccurrence rows.
type Theme struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_theme_user_normalized,priority:1" json:"user_id"`

	Name           string  `gorm:"column:name;not null" json:"name"`
	NormalizedName string  `gorm:"column:normalized_name;not null;uniqueIndex:idx_theme_user_normalized,priority:2" json:"normalized_name"`
	Description    *string `gorm:"column:description" json:"description,omitempty"`

	OccurrenceCount int64     `gorm:"column:occurrence_count;not null;default:0;index" json:"occurrence_count"`
	FirstSeen       time.Time `gorm:"column:first_seen;not null" json:"first_seen"`
	LastSeen        time.Time `gorm:"column:last_seen;not null;index" json:"last_seen"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Theme) TableName() string { return "theme" }

// ThemeOccurrence records that a theme came up in a session. Immutable.
type ThemeOccurrence struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThemeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_theme_occurrence_theme_session,priority:1" json:"theme_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_theme_occurrence_theme_session,priority:2;index" json:"session_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ThemeOccurrence) TableName() string { return "theme_occurrence" }
