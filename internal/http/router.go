package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/danfirsten/Standup/internal/http/handlers"
	httpMW "github.com/danfirsten/Standup/internal/http/middleware"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	ProfileHandler  *httpH.ProfileHandler
	SessionHandler  *httpH.SessionHandler
	ThemeHandler    *httpH.ThemeHandler
	ArtifactHandler *httpH.ArtifactHandler
	GoalHandler     *httpH.GoalHandler
	AuditHandler    *httpH.AuditHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Profile
	if cfg.ProfileHandler != nil {
		api.GET("/profile", cfg.ProfileHandler.GetProfile)
		api.PUT("/profile", cfg.ProfileHandler.UpsertProfile)
		api.POST("/profile/onboarding", cfg.ProfileHandler.CompleteOnboarding)
	}

	// Sessions
	if cfg.SessionHandler != nil {
		api.POST("/sessions", cfg.SessionHandler.OpenSession)
		api.GET("/sessions", cfg.SessionHandler.ListSessions)
		api.GET("/sessions/:id", cfg.SessionHandler.GetSession)
		api.PATCH("/sessions/:id", cfg.SessionHandler.RenameSession)
		api.POST("/sessions/:id/close", cfg.SessionHandler.CloseSession)
		api.POST("/sessions/:id/messages", cfg.SessionHandler.AppendMessage)
		api.GET("/sessions/:id/messages", cfg.SessionHandler.ListMessages)
		api.POST("/sessions/:id/extraction", cfg.SessionHandler.SubmitExtraction)
	}

	// Themes
	if cfg.ThemeHandler != nil {
		api.GET("/themes", cfg.ThemeHandler.ListThemes)
		api.GET("/themes/:id/sessions", cfg.ThemeHandler.ListThemeSessions)
	}

	// Artifacts
	if cfg.ArtifactHandler != nil {
		api.POST("/artifacts", cfg.ArtifactHandler.CreateArtifact)
		api.GET("/artifacts", cfg.ArtifactHandler.ListArtifacts)
		api.GET("/artifacts/:id", cfg.ArtifactHandler.GetArtifact)
		api.PATCH("/artifacts/:id", cfg.ArtifactHandler.RenameArtifact)
		api.POST("/artifacts/:id/pin", cfg.ArtifactHandler.PinArtifact)
		api.POST("/artifacts/:id/unpin", cfg.ArtifactHandler.UnpinArtifact)
		api.POST("/artifacts/:id/promote", cfg.ArtifactHandler.PromoteArtifact)
	}

	// Goals
	if cfg.GoalHandler != nil {
		api.POST("/goals", cfg.GoalHandler.CreateGoal)
		api.GET("/goals", cfg.GoalHandler.ListGoals)
		api.GET("/goals/:id", cfg.GoalHandler.GetGoal)
		api.PATCH("/goals/:id", cfg.GoalHandler.UpdateGoal)
		api.POST("/goals/:id/transition", cfg.GoalHandler.TransitionGoal)
	}

	// Consistency
	if cfg.AuditHandler != nil {
		api.POST("/audit", cfg.AuditHandler.AuditMe)
	}

	return r
}
