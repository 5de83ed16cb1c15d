package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/howscary-backend/internal/clients/knowledgegraph"
	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/integrations/googlebooks"
	"github.com/yungbote/howscary-backend/internal/integrations/musicbrainz"
	"github.com/yungbote/howscary-backend/internal/integrations/tmdb"
	"github.com/yungbote/howscary-backend/internal/integrations/wikipedia"
	"github.com/yungbote/howscary-backend/internal/platform/ai"
	"github.com/yungbote/howscary-backend/internal/platform/gemini"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/openai"
)

type Clients struct {
	AI        ai.Generator
	Search    knowledgegraph.Searcher
	Lookup    knowledgegraph.EntityLookup
	Providers integrations.Clients
	Redis     *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// AI
	var gen ai.Generator
	switch cfg.AIProvider {
	case "gemini":
		g, err := gemini.NewClient(ctx, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init gemini client: %w", err)
		}
		gen = g
	default:
		o, err := openai.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		gen = o
	}

	// Knowledge Graph
	var (
		search knowledgegraph.Searcher
		lookup knowledgegraph.EntityLookup
	)
	if cfg.GoogleCloudProject != "" {
		kg, err := knowledgegraph.NewClient(ctx, log, knowledgegraph.Config{
			ProjectID: cfg.GoogleCloudProject,
			CacheSize: cfg.KGCacheSize,
			CacheTTL:  cfg.KGCacheTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init knowledge graph client: %w", err)
		}
		search, lookup = kg, kg
	} else {
		log.Warn("GOOGLE_CLOUD_PROJECT not set; search is disabled")
	}

	// Providers
	providers := integrations.Clients{
		MusicBrainz: musicbrainz.NewClient(log, cfg.IntegrationTimeout),
		Wikipedia:   wikipedia.NewClient(log, cfg.IntegrationTimeout),
	}
	if cfg.TMDBAPIKey != "" {
		providers.TMDB = tmdb.NewClient(log, cfg.TMDBAPIKey, cfg.IntegrationTimeout)
	}
	// Google Books works unauthenticated at a lower quota.
	providers.GoogleBooks = googlebooks.NewClient(log, cfg.GoogleBooksAPIKey, cfg.IntegrationTimeout)

	// Redis
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
	}

	return Clients{AI: gen, Search: search, Lookup: lookup, Providers: providers, Redis: rdb}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
