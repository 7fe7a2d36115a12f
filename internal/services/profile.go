package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos"
	types "github.com/danfirsten/Standup/internal/domain"
	"github.com/danfirsten/Standup/internal/domain/user"
	"github.com/danfirsten/Standup/internal/normalization"
	"github.com/danfirsten/Standup/internal/pkg/dbctx"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

// ProfileInput is a partial profile; nil fields keep their stored value.
type ProfileInput struct {
	Role        *string `json:"role,omitempty"`
	Level       *string `json:"level,omitempty"`
	CompanyType *string `json:"company_type,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.Profile, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.Profile, error)
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	profiles repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profiles repos.ProfileRepo) ProfileService {
	return &profileService{
		db:       db,
		log:      log.With("service", "ProfileService"),
		profiles: profiles,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	const op = "Profile.Get"
	if userID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id")
	}
	p, err := s.profiles.GetByUserID(dbctx.From(ctx), userID)
	if err != nil {
		return nil, readError(op, err)
	}
	return p, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.Profile, error) {
	return s.save(ctx, "Profile.Upsert", userID, in, false)
}

func (s *profileService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.Profile, error) {
	return s.save(ctx, "Profile.CompleteOnboarding", userID, in, true)
}

func (s *profileService) save(ctx context.Context, op string, userID uuid.UUID, in ProfileInput, onboarding bool) (*types.Profile, error) {
	if userID == uuid.Nil {
		return nil, invalidInput(op, "missing user_id")
	}
	var out *types.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.profiles.GetByUserID(dbc, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row := &types.Profile{UserID: userID, Timezone: "UTC"}
		if existing != nil {
			copied := *existing
			row = &copied
		}
		if err := applyProfileInput(op, row, in); err != nil {
			return err
		}
		if onboarding {
			if strings.TrimSpace(row.Role) == "" {
				return invalidInput(op, "role is required to complete onboarding")
			}
			if row.Level == nil {
				lvl := user.LevelMid
				row.Level = &lvl
			}
			row.OnboardingCompleted = true
		}
		out, err = s.profiles.Upsert(dbc, row)
		return err
	})
	if err != nil {
		return nil, readError(op, err)
	}
	s.log.Debug("Profile saved", "user_id", userID.String(), "onboarding_completed", out.OnboardingCompleted)
	return out, nil
}

func applyProfileInput(op string, row *types.Profile, in ProfileInput) error {
	if in.Role != nil {
		row.Role = normalization.DisplayLabel(*in.Role)
	}
	if in.Level != nil {
		raw := strings.ToLower(strings.TrimSpace(*in.Level))
		if raw == "" {
			row.Level = nil
		} else {
			lvl := user.Level(raw)
			if !lvl.Valid() {
				return invalidInput(op, "unknown level: "+raw)
			}
			row.Level = &lvl
		}
	}
	if in.CompanyType != nil {
		row.CompanyType = normalization.ParseInputStringPtr(in.CompanyType)
	}
	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return invalidInput(op, "unknown timezone: "+tz)
		}
		row.Timezone = tz
	}
	return nil
}
