package chat

import (
	"time"

	"github.com/google/uuid"
)

// Session is one conversation. EndedAt is written once by close and never again.
type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       *string `gorm:"column:title" json:"title,omitempty"`
	IsBrainDump bool    `gorm:"column:is_brain_dump;not null;default:false" json:"is_brain_dump"`

	StartedAt time.Time  `gorm:"column:started_at;not null;index" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at;index" json:"ended_at,omitempty"`

	// Per-session message sequencing.
	NextSeq int64 `gorm:"column:next_seq;not null;default:0" json:"next_seq"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "session" }

func (s *Session) Closed() bool { return s != nil && s.EndedAt != nil }
