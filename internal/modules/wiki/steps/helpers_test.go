package steps

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	"github.com/yungbote/howscary-backend/internal/data/repos/testutil"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
)

// fakeAI answers by prompt kind. A non-nil gate blocks analysis calls until closed.
type fakeAI struct {
	selection   string
	pick        string
	analysis    string
	analysisErr error
	gate        chan struct{}

	analysisCalls atomic.Int32
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	switch {
	case strings.Contains(system, "metadata sources"):
		return f.selection, nil
	case strings.Contains(system, "encyclopedia article"):
		return f.pick, nil
	}
	f.analysisCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.analysis, f.analysisErr
}

func analysisJSON(why string, scores ...int) string {
	parts := make([]string, 0, len(scores))
	for i, s := range scores {
		parts = append(parts, fmt.Sprintf(`{"dimensionId":%q,"score":%d,"reasoning":"r%d"}`, types.StandardDimensionSlugs()[i], s, i))
	}
	return fmt.Sprintf(`{"whyScary":%q,"dimensionScores":[%s]}`, why, strings.Join(parts, ","))
}

func allEnv(string) string { return "set" }

func testRegistry(t *testing.T, handlers map[string]integrations.Handler) *integrations.Registry {
	t.Helper()
	catalog, err := integrations.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return integrations.NewRegistry(catalog, handlers, allEnv)
}

func generationDeps(t *testing.T, db *gorm.DB, reg *integrations.Registry, gen *fakeAI) GenerationDeps {
	t.Helper()
	log := testutil.Logger(t)
	return GenerationDeps{
		DB:         db,
		Log:        log,
		Entities:   repos.NewEntityRepo(db, log),
		Dimensions: repos.NewDimensionRepo(db, log),
		Registry:   reg,
		AI:         gen,
	}
}

func strPtr(s string) *string { return &s }
