package user

import (
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelJunior    Level = "junior"
	LevelMid       Level = "mid"
	LevelSenior    Level = "senior"
	LevelStaff     Level = "staff"
	LevelPrincipal Level = "principal"
)

func (l Level) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior, LevelStaff, LevelPrincipal:
		return true
	}
	return false
}

// Profile is the one-per-user career context the mentor keeps.
type Profile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`

	Role        string  `gorm:"column:role;not null;default:''" json:"role"`
	Level       *Level  `gorm:"column:level" json:"level,omitempty"`
	CompanyType *string `gorm:"column:company_type" json:"company_type,omitempty"`
	Timezone    string  `gorm:"column:timezone;not null;default:'UTC'" json:"timezone"`

	OnboardingCompleted bool `gorm:"column:onboarding_completed;not null;default:false" json:"onboarding_completed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }
