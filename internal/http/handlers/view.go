package handlers

import (
	"strings"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

// entityView is the flat JSON shape clients read for a stored entity.
type entityView struct {
	ID          string   `json:"id"`
	DBID        string   `json:"dbId"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Types       []string `json:"types"`
	ImageURL    *string  `json:"imageUrl"`
	PosterURL   *string  `json:"posterUrl"`

	AverageAIScore *float64 `json:"averageAIScore,omitempty"`
	IsGenerating   bool     `json:"isGenerating"`

	types.MovieData
	types.BookData
	types.MusicData
	types.EncyclopediaData
}

func newEntityView(e *types.ScaryEntity) *entityView {
	if e == nil {
		return nil
	}
	// PosterURL shadows the provider poster in the embedded MovieData.
	return &entityView{
		ID:               e.GoogleKGID,
		DBID:             e.ID.String(),
		Slug:             e.Slug,
		Name:             e.Name,
		Description:      e.Description,
		Types:            entityTypes(e),
		ImageURL:         e.ImageURL,
		PosterURL:        e.PosterURL,
		AverageAIScore:   e.RoundedAIScore(),
		IsGenerating:     e.IsGenerating,
		MovieData:        e.TMDB,
		BookData:         e.GoogleBooks,
		MusicData:        e.MusicBrainz,
		EncyclopediaData: e.Wikipedia,
	}
}

type dimensionScoreView struct {
	DimensionID string `json:"dimensionId"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Reasoning   string `json:"reasoning"`
}

type analysisView struct {
	WhyScary        string               `json:"whyScary"`
	IsHumanEdited   bool                 `json:"isHumanEdited"`
	DimensionScores []dimensionScoreView `json:"dimensionScores"`
}

func newAnalysisView(a *types.ScaryAnalysis) *analysisView {
	if a == nil {
		return nil
	}
	v := &analysisView{WhyScary: a.WhyScary, IsHumanEdited: a.IsHumanEdited}
	for _, ds := range a.DimensionScores {
		name := ""
		if ds.Dimension != nil {
			name = ds.Dimension.Name
		}
		v.DimensionScores = append(v.DimensionScores, dimensionScoreView{
			DimensionID: slug.Make(name),
			Name:        name,
			Score:       ds.Score,
			Reasoning:   ds.Reasoning,
		})
	}
	return v
}

func entityTypes(e *types.ScaryEntity) []string {
	if len(e.EntityTypes) > 0 {
		return e.EntityTypes
	}
	return []string{e.EntityType}
}

func trimmed(s string) string { return strings.TrimSpace(s) }
