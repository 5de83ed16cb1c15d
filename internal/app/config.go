package app

import (
	"strings"
	"time"

	"github.com/yungbote/howscary-backend/internal/data/db"
	"github.com/yungbote/howscary-backend/internal/http/middleware"
	"github.com/yungbote/howscary-backend/internal/observability"
	"github.com/yungbote/howscary-backend/internal/platform/envutil"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DBDriver   string
	SQLitePath string
	Postgres   db.PostgresConfig

	JWTSecretKey     string
	RedisAddr        string
	RedisPassword    string
	CreateRateLimit  int
	CreateRateWindow time.Duration

	AIProvider string

	TMDBAPIKey         string
	GoogleBooksAPIKey  string
	IntegrationTimeout time.Duration

	GoogleCloudProject string
	KGCacheSize        int
	KGCacheTTL         time.Duration

	GenerationStaleAfter time.Duration
	AllowedOrigins       []string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),

		DBDriver:   strings.ToLower(envutil.String("DB_DRIVER", "postgres")),
		SQLitePath: envutil.String("SQLITE_PATH", "howscary.db"),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "howscary"),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},

		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", ""),
		RedisAddr:        envutil.String("REDIS_ADDR", ""),
		RedisPassword:    envutil.String("REDIS_PASSWORD", ""),
		CreateRateLimit:  envutil.Int("CREATE_RATE_LIMIT", 5),
		CreateRateWindow: envutil.Seconds("CREATE_RATE_WINDOW_SECONDS", time.Minute),

		AIProvider: strings.ToLower(envutil.String("AI_PROVIDER", "openai")),

		TMDBAPIKey:         envutil.String("TMDB_API_KEY", ""),
		GoogleBooksAPIKey:  envutil.String("GOOGLE_BOOKS_API_KEY", ""),
		IntegrationTimeout: envutil.Seconds("INTEGRATION_TIMEOUT_SECONDS", 10*time.Second),

		GoogleCloudProject: envutil.String("GOOGLE_CLOUD_PROJECT", ""),
		KGCacheSize:        envutil.Int("KG_CACHE_SIZE", 512),
		KGCacheTTL:         envutil.Seconds("KG_CACHE_TTL_SECONDS", 10*time.Minute),

		GenerationStaleAfter: time.Duration(envutil.Int("GENERATION_STALE_MINUTES", 5)) * time.Minute,
		AllowedOrigins:       envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "howscary-api"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
	if cfg.GenerationStaleAfter <= 0 {
		cfg.GenerationStaleAfter = 5 * time.Minute
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY is empty; every authenticated request will be rejected")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		log.Warn("Unknown DB_DRIVER; using postgres", "driver", cfg.DBDriver)
		cfg.DBDriver = "postgres"
	}
	return cfg
}
