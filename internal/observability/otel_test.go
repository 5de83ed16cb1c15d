package observability

import (
	"context"
	"testing"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc ,broken, =x,team=wiki")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "wiki" {
		t.Fatalf("unexpected headers %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{0: 0.1, -1: 0.1, 0.5: 0.5, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), OtelConfig{})
	if shutdown == nil {
		t.Fatalf("expected a shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
