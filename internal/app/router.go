package app

import (
	"github.com/yungbote/howscary-backend/internal/http"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, services Services) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      cfg.Otel.ServiceName,
		AuthMiddleware:   middleware.Auth,
		CreateLimiter:    services.CreateLimiter,
		AllowedOrigins:   cfg.AllowedOrigins,
		WikiHandler:      handlers.Wiki,
		ModeratorHandler: handlers.Moderator,
		AdminHandler:     handlers.Admin,
		HealthHandler:    handlers.Health,
	})
}
