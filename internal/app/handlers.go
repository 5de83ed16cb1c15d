package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/howscary-backend/internal/http/handlers"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Wiki      *httpH.WikiHandler
	Moderator *httpH.ModeratorHandler
	Admin     *httpH.AdminHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Wiki:      httpH.NewWikiHandler(log, services.Wiki),
		Moderator: httpH.NewModeratorHandler(log, services.Wiki),
		Admin:     httpH.NewAdminHandler(log, services.Wiki),
	}
}
