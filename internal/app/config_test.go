package app

import (
	"testing"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "CREATE_RATE_LIMIT", "CREATE_RATE_WINDOW_SECONDS", "GENERATION_STALE_MINUTES", "CORS_ALLOWED_ORIGINS", "AI_PROVIDER"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" || cfg.DBDriver != "postgres" || cfg.AIProvider != "openai" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CreateRateLimit != 5 || cfg.CreateRateWindow != time.Minute {
		t.Fatalf("unexpected rate limit defaults %d/%s", cfg.CreateRateLimit, cfg.CreateRateWindow)
	}
	if cfg.GenerationStaleAfter != 5*time.Minute {
		t.Fatalf("unexpected stale window %s", cfg.GenerationStaleAfter)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("GENERATION_STALE_MINUTES", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://howscary.example, https://admin.howscary.example")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")
	cfg := LoadConfig(logger.Nop())
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected sqlite, got %q", cfg.DBDriver)
	}
	if cfg.GenerationStaleAfter != 5*time.Minute {
		t.Fatalf("non-positive stale minutes must fall back, got %s", cfg.GenerationStaleAfter)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.howscary.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.Otel.SampleRatio != 0.5 {
		t.Fatalf("unexpected sample ratio %v", cfg.Otel.SampleRatio)
	}
}
