package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/danfirsten/Standup/internal/http/handlers"
	httpMW "github.com/danfirsten/Standup/internal/http/middleware"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type Handlers struct {
	Auth     *httpMW.AuthMiddleware
	Health   *httpH.HealthHandler
	Profile  *httpH.ProfileHandler
	Session  *httpH.SessionHandler
	Theme    *httpH.ThemeHandler
	Artifact *httpH.ArtifactHandler
	Goal     *httpH.GoalHandler
	Audit    *httpH.AuditHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     httpMW.NewAuthMiddleware(log, cfg.JWTSecret),
		Health:   httpH.NewHealthHandler(pingDB(db)),
		Profile:  httpH.NewProfileHandler(services.Profiles),
		Session:  httpH.NewSessionHandler(services.Sessions),
		Theme:    httpH.NewThemeHandler(services.Themes),
		Artifact: httpH.NewArtifactHandler(services.Artifacts, services.Goals),
		Goal:     httpH.NewGoalHandler(services.Goals),
		Audit:    httpH.NewAuditHandler(services.Audit),
	}
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
