package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/howscary-backend/internal/http/handlers"
	httpMW "github.com/yungbote/howscary-backend/internal/http/middleware"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/ratelimit"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string

	AuthMiddleware *httpMW.AuthMiddleware
	CreateLimiter  ratelimit.Limiter
	AllowedOrigins []string

	WikiHandler      *httpH.WikiHandler
	ModeratorHandler *httpH.ModeratorHandler
	AdminHandler     *httpH.AdminHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "howscary-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.WikiHandler != nil {
		api.GET("/search", cfg.WikiHandler.Search)
		api.GET("/wiki/:key", cfg.WikiHandler.Get)
		api.POST("/entities/status", cfg.WikiHandler.Status)
		api.GET("/knowledge-graph/entity", cfg.WikiHandler.KnowledgeGraphEntity)
		api.GET("/reviews", cfg.WikiHandler.ListReviews)
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	if cfg.WikiHandler != nil {
		protected.POST("/entities/create", httpMW.RateLimit(log, cfg.CreateLimiter, "create"), cfg.WikiHandler.Create)
		protected.POST("/ratings", cfg.WikiHandler.Rate)
		protected.GET("/ratings/user", cfg.WikiHandler.UserRatings)
		protected.POST("/reviews", cfg.WikiHandler.CreateReview)
	}

	// Moderator
	if cfg.ModeratorHandler != nil {
		mod := protected.Group("/moderator/entities")
		mod.Use(cfg.AuthMiddleware.RequireModerator())
		mod.POST("/:key/integrations", cfg.ModeratorHandler.TriggerIntegration)
		mod.POST("/:key/regenerate", cfg.ModeratorHandler.Regenerate)
		mod.PUT("/:key/summary", cfg.ModeratorHandler.EditSummary)
		mod.PATCH("/:key", cfg.ModeratorHandler.UpdateMetadata)
	}

	// Admin
	if cfg.AdminHandler != nil {
		admin := protected.Group("/admin")
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
		admin.GET("/users", cfg.AdminHandler.ListUsers)
		admin.PATCH("/users/:id", cfg.AdminHandler.SetRole)
	}

	return r
}
