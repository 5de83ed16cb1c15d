package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/jobs"
	"github.com/yungbote/howscary-backend/internal/modules/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/ratelimit"
	"github.com/yungbote/howscary-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Wiki          wiki.Usecases
	Runner        *jobs.Runner
	CreateLimiter ratelimit.Limiter
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	catalog, err := integrations.LoadCatalog()
	if err != nil {
		return Services{}, fmt.Errorf("load integration catalog: %w", err)
	}
	registry := integrations.NewRegistry(catalog, integrations.DefaultHandlers(clients.Providers), nil)
	for _, p := range registry.Available() {
		log.Debug("Integration available", "key", p.Key)
	}

	runner := jobs.NewRunner(log)

	limitCfg := ratelimit.Config{Limit: cfg.CreateRateLimit, Window: cfg.CreateRateWindow}
	var limiter ratelimit.Limiter
	if clients.Redis != nil {
		limiter = ratelimit.NewRedis(clients.Redis, limitCfg, "howscary:ratelimit:")
	} else {
		log.Warn("REDIS_ADDR not set; using the in-memory rate limiter (single instance only)")
		limiter = ratelimit.NewMemory(limitCfg)
	}

	return Services{
		Auth: services.NewAuthService(log, reposet.User, cfg.JWTSecretKey),
		Wiki: wiki.New(wiki.UsecasesDeps{
			DB:         db,
			Log:        log.With("service", "WikiUsecases"),
			AI:         clients.AI,
			Registry:   registry,
			Search:     clients.Search,
			Lookup:     clients.Lookup,
			Runner:     runner,
			Entities:   reposet.Entity,
			Dimensions: reposet.Dimension,
			Ratings:    reposet.Rating,
			ModLogs:    reposet.ModeratorLog,
			Reviews:    reposet.Review,
			Users:      reposet.User,
			StaleAfter: cfg.GenerationStaleAfter,
		}),
		Runner:        runner,
		CreateLimiter: limiter,
	}, nil
}
