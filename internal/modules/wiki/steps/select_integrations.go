package steps

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/platform/ai"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const MinSelectionConfidence = 0.7

type SelectIntegrationsDeps struct {
	Log      *logger.Logger
	AI       ai.Generator
	Registry *integrations.Registry
}

// rawSelection accepts both "integrationKey" and the shorter "integration".
type rawSelection struct {
	IntegrationKey string              `json:"integrationKey"`
	Integration    string              `json:"integration"`
	Confidence     float64             `json:"confidence"`
	Reasoning      string              `json:"reasoning"`
	Hints          *integrations.Hints `json:"hints"`
}

// SelectIntegrations asks the model which available providers describe the
// candidate. Any failure yields an empty selection.
func SelectIntegrations(ctx context.Context, deps SelectIntegrationsDeps, c types.Candidate) []integrations.Selection {
	if deps.AI == nil || deps.Registry == nil {
		return nil
	}
	ctx, span := tracer.Start(ctx, "wiki.select_integrations")
	defer span.End()

	available := deps.Registry.Available()
	if len(available) == 0 {
		return nil
	}
	system, user := promptSelectIntegrations(c, integrations.PromptLines(available))
	text, err := deps.AI.GenerateText(ctx, system, user)
	if err != nil {
		deps.Log.Warn("Integration selection failed", "entity", c.ID, "error", err)
		return nil
	}
	out, err := parseSelections(text, deps.Registry)
	if err != nil {
		deps.Log.Warn("Integration selection unparseable", "entity", c.ID, "error", err)
		return nil
	}
	deps.Log.Debug("Integrations selected", "entity", c.ID, "count", len(out))
	return out
}

func parseSelections(text string, reg *integrations.Registry) ([]integrations.Selection, error) {
	raw, err := ai.ExtractJSON(text, '[')
	if err != nil {
		return nil, err
	}
	var rows []rawSelection
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, err
	}
	out := make([]integrations.Selection, 0, len(rows))
	for _, r := range rows {
		key := strings.TrimSpace(r.IntegrationKey)
		if key == "" {
			key = strings.TrimSpace(r.Integration)
		}
		if r.Confidence < MinSelectionConfidence || strings.TrimSpace(r.Reasoning) == "" || r.Hints == nil {
			continue
		}
		if _, ok := reg.Get(key); !ok || !reg.IsAvailable(key) {
			continue
		}
		out = append(out, integrations.Selection{
			Key:        key,
			Confidence: r.Confidence,
			Reasoning:  r.Reasoning,
			Hints:      r.Hints,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}
