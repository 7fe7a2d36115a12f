package memory

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationEntry is a durable record of one counter repair.
type ReconciliationEntry struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RunID   string    `gorm:"column:run_id;not null;index" json:"run_id"`
	ThemeID uuid.UUID `gorm:"type:uuid;not null;index" json:"theme_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	StoredCount int64 `gorm:"column:stored_count;not null" json:"stored_count"`
	ActualCount int64 `gorm:"column:actual_count;not null" json:"actual_count"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ReconciliationEntry) TableName() string { return "reconciliation_report" }
