package repos

import (
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos/chat"
	"github.com/danfirsten/Standup/internal/data/repos/memory"
	"github.com/danfirsten/Standup/internal/data/repos/user"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type ProfileRepo = user.ProfileRepo

type SessionRepo = chat.SessionRepo
type MessageRepo = chat.MessageRepo

type ThemeRepo = memory.ThemeRepo
type ThemeOccurrenceRepo = memory.ThemeOccurrenceRepo
type ArtifactRepo = memory.ArtifactRepo
type ArtifactQuery = memory.ArtifactQuery
type GoalRepo = memory.GoalRepo
type ReconciliationRepo = memory.ReconciliationRepo
type OccurrenceSighting = memory.OccurrenceSighting

func NewProfileRepo(db *gorm.DB, log *logger.Logger) ProfileRepo { return user.NewProfileRepo(db, log) }

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo { return chat.NewSessionRepo(db, log) }
func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo { return chat.NewMessageRepo(db, log) }

func NewThemeRepo(db *gorm.DB, log *logger.Logger) ThemeRepo { return memory.NewThemeRepo(db, log) }
func NewThemeOccurrenceRepo(db *gorm.DB, log *logger.Logger) ThemeOccurrenceRepo {
	return memory.NewThemeOccurrenceRepo(db, log)
}
func NewArtifactRepo(db *gorm.DB, log *logger.Logger) ArtifactRepo { return memory.NewArtifactRepo(db, log) }
func NewGoalRepo(db *gorm.DB, log *logger.Logger) GoalRepo         { return memory.NewGoalRepo(db, log) }
func NewReconciliationRepo(db *gorm.DB, log *logger.Logger) ReconciliationRepo {
	return memory.NewReconciliationRepo(db, log)
}
