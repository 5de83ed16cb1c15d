package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/ai"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const (
	fallbackExcerptLength = 500
	fallbackScore         = 3
	missingScore          = 1

	missingReasoning  = "No specific scary elements identified for this dimension."
	fallbackReasoning = "Unable to analyze specific scary qualities. This is a moderate default score."
	fallbackWhyScary  = "This entity may have scary or unsettling qualities that could be frightening to some viewers. " +
		"The specific scary elements would depend on individual sensitivities and the context in which the entity is encountered."
)

type GenerateAnalysisDeps struct {
	Log *logger.Logger
	AI  ai.Generator
}

type DimensionScore struct {
	Slug      string
	Score     int
	Reasoning string
}

// GeneratedAnalysis always holds one score per standard dimension, in standard order.
type GeneratedAnalysis struct {
	WhyScary string
	Scores   []DimensionScore
	// Fallback is set when the model output could not be parsed.
	Fallback bool
}

// GenerateAnalysis scores the candidate. It fails only when the model call fails;
// unusable output degrades to a neutral analysis.
func GenerateAnalysis(ctx context.Context, deps GenerateAnalysisDeps, c types.Candidate, extract string) (GeneratedAnalysis, error) {
	if deps.AI == nil {
		return GeneratedAnalysis{}, errors.New("analysis generator not configured")
	}
	ctx, span := tracer.Start(ctx, "wiki.generate_analysis")
	defer span.End()

	system, user := promptScaryAnalysis(c, extract)
	text, err := deps.AI.GenerateText(ctx, system, user)
	if err != nil {
		return GeneratedAnalysis{}, fmt.Errorf("generate analysis: %w", err)
	}
	out, err := ParseAnalysis(text)
	if err != nil {
		deps.Log.Warn("Analysis output unparseable; using fallback", "entity", c.ID, "error", err)
		return FallbackAnalysis(text), nil
	}
	return out, nil
}

type rawAnalysis struct {
	WhyScary        *string `json:"whyScary"`
	DimensionScores []struct {
		DimensionID string          `json:"dimensionId"`
		Score       json.RawMessage `json:"score"`
		Reasoning   string          `json:"reasoning"`
	} `json:"dimensionScores"`
}

// ParseAnalysis reads the model's JSON answer.
func ParseAnalysis(text string) (GeneratedAnalysis, error) {
	raw, err := ai.ExtractJSON(text, '{')
	if err != nil {
		return GeneratedAnalysis{}, err
	}
	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return GeneratedAnalysis{}, err
	}
	if parsed.WhyScary == nil || parsed.DimensionScores == nil {
		return GeneratedAnalysis{}, errors.New("analysis missing whyScary or dimensionScores")
	}

	bySlug := make(map[string]DimensionScore, len(parsed.DimensionScores))
	for _, ds := range parsed.DimensionScores {
		s := strings.TrimSpace(ds.DimensionID)
		if _, seen := bySlug[s]; seen || !isStandardSlug(s) {
			continue
		}
		bySlug[s] = DimensionScore{Slug: s, Score: clampScore(parseScore(ds.Score)), Reasoning: ds.Reasoning}
	}
	out := GeneratedAnalysis{WhyScary: *parsed.WhyScary}
	for _, s := range types.StandardDimensionSlugs() {
		ds, ok := bySlug[s]
		if !ok {
			ds = DimensionScore{Slug: s, Score: missingScore, Reasoning: missingReasoning}
		}
		out.Scores = append(out.Scores, ds)
	}
	return out, nil
}

// FallbackAnalysis builds the neutral analysis used when the answer is unusable.
func FallbackAnalysis(text string) GeneratedAnalysis {
	why := fallbackWhyScary
	if r := []rune(text); len(r) > fallbackExcerptLength {
		why = string(r[:fallbackExcerptLength]) + "..."
	} else if strings.TrimSpace(text) != "" {
		why = text
	}
	out := GeneratedAnalysis{WhyScary: why, Fallback: true}
	for _, s := range types.StandardDimensionSlugs() {
		out.Scores = append(out.Scores, DimensionScore{Slug: s, Score: fallbackScore, Reasoning: fallbackReasoning})
	}
	return out
}

func isStandardSlug(s string) bool {
	for _, std := range types.StandardDimensionSlugs() {
		if s == std {
			return true
		}
	}
	return false
}

// parseScore accepts numbers and numeric strings. Anything else scores 0 and clamps to 1.
func parseScore(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

func clampScore(f float64) int {
	n := int(math.Round(f))
	if n < types.MinScore {
		return types.MinScore
	}
	if n > types.MaxScore {
		return types.MaxScore
	}
	return n
}
