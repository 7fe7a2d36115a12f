package app

import (
	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/repos"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type Repos struct {
	Profile         repos.ProfileRepo
	Session         repos.SessionRepo
	Message         repos.MessageRepo
	Theme           repos.ThemeRepo
	ThemeOccurrence repos.ThemeOccurrenceRepo
	Artifact        repos.ArtifactRepo
	Goal            repos.GoalRepo
	Reconciliation  repos.ReconciliationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:         repos.NewProfileRepo(db, log),
		Session:         repos.NewSessionRepo(db, log),
		Message:         repos.NewMessageRepo(db, log),
		Theme:           repos.NewThemeRepo(db, log),
		ThemeOccurrence: repos.NewThemeOccurrenceRepo(db, log),
		Artifact:        repos.NewArtifactRepo(db, log),
		Goal:            repos.NewGoalRepo(db, log),
		Reconciliation:  repos.NewReconciliationRepo(db, log),
	}
}
