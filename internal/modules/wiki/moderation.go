package wiki

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/modules/wiki/steps"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

func requireModerator(op string, user *types.User) error {
	if user == nil || !user.Role.CanModerate() {
		return types.NewError(types.CodeForbidden, op, "moderator role required", nil)
	}
	return nil
}

// TriggerIntegration runs one provider for an entity on a moderator's behalf
// and returns the namespaces it filled.
func (u Usecases) TriggerIntegration(ctx context.Context, moderator *types.User, slugOrID, key, id string) ([]string, error) {
	const op = "trigger integration"
	if err := requireModerator(op, moderator); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, types.NewError(types.CodeValidation, op, "integration key required", nil)
	}
	e, err := u.resolve(ctx, op, slugOrID)
	if err != nil {
		return nil, err
	}
	out, err := steps.ProcessManualIntegration(ctx, steps.ProcessIntegrationsDeps{
		Log:      u.deps.Log,
		Registry: u.deps.Registry,
		AI:       u.deps.AI,
	}, types.CandidateFromEntity(e), key, id)
	if err != nil {
		return nil, types.NewError(types.CodeValidation, op, err.Error(), err)
	}
	if len(out.Applied) == 0 {
		return nil, types.NewError(types.CodeNotFound, op, types.ErrNoMatch.Error(), types.ErrNoMatch)
	}
	err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.deps.Entities.UpdateEnrichment(ctx, tx, e.ID, out.Enrichment, out.Applied); err != nil {
			return err
		}
		return u.deps.ModLogs.Create(ctx, tx, moderator.ID, e.ID, types.ActionTriggerIntegration, map[string]any{
			"integration": key,
			"id":          strings.TrimSpace(id),
			"applied":     out.Applied,
		})
	})
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	u.deps.Log.Info("Integration triggered", "slug", e.Slug, "integration", key, "moderator", moderator.ID.String())
	return out.Applied, nil
}

// RegenerateAnalysis discards the analysis and reruns generation in the background.
func (u Usecases) RegenerateAnalysis(ctx context.Context, moderator *types.User, slugOrID string) (*types.ScaryEntity, error) {
	const op = "regenerate analysis"
	if err := requireModerator(op, moderator); err != nil {
		return nil, err
	}
	e, err := u.resolve(ctx, op, slugOrID)
	if err != nil {
		return nil, err
	}
	if err := steps.RegenerateAnalysis(ctx, u.backgroundDeps(), e); err != nil {
		return nil, err
	}
	if err := u.deps.ModLogs.Create(ctx, nil, moderator.ID, e.ID, types.ActionRegenerateAnalysis, nil); err != nil {
		u.deps.Log.Warn("Moderator log failed", "action", types.ActionRegenerateAnalysis, "error", err)
	}
	return e, nil
}

type EditSummaryInput struct {
	WhyScary *string
	// Scores are keyed by dimension slug.
	Scores map[string]int
}

// EditSummary applies a human edit to the write-up and dimension scores. The
// first edit keeps the generated text in WhyScaryOriginal.
func (u Usecases) EditSummary(ctx context.Context, moderator *types.User, slugOrID string, in EditSummaryInput) (*types.ScaryEntity, error) {
	const op = "edit summary"
	if err := requireModerator(op, moderator); err != nil {
		return nil, err
	}
	if in.WhyScary == nil && len(in.Scores) == 0 {
		return nil, types.NewError(types.CodeValidation, op, "nothing to update", nil)
	}
	e, err := u.resolve(ctx, op, slugOrID)
	if err != nil {
		return nil, err
	}
	if !e.HasAnalysis() {
		return nil, types.NewError(types.CodeConflict, op, "entity has no analysis yet", nil)
	}
	a := e.Analysis

	byDimension := make(map[uuid.UUID]int, len(in.Scores))
	for s, score := range in.Scores {
		if !types.ValidScore(score) {
			return nil, types.NewError(types.CodeValidation, op, fmt.Sprintf("score for %s must be between 1 and 10", s), nil)
		}
		id, ok := dimensionIDForSlug(a, s)
		if !ok {
			return nil, types.NewError(types.CodeValidation, op, "unknown dimension "+s, nil)
		}
		byDimension[id] = score
	}

	if in.WhyScary != nil {
		why := strings.TrimSpace(*in.WhyScary)
		if why == "" {
			return nil, types.NewError(types.CodeValidation, op, "whyScary cannot be empty", nil)
		}
		if a.WhyScaryOriginal == nil {
			orig := a.WhyScary
			a.WhyScaryOriginal = &orig
		}
		a.WhyScary = why
	}
	now := time.Now()
	a.IsHumanEdited = true
	a.LastEditedByID = &moderator.ID
	a.LastEditedAt = &now

	err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.deps.Entities.UpdateAnalysisEdit(ctx, tx, a, byDimension); err != nil {
			return err
		}
		if in.WhyScary != nil {
			if err := u.deps.ModLogs.Create(ctx, tx, moderator.ID, e.ID, types.ActionEditAISummary, map[string]any{
				"length": len(a.WhyScary),
			}); err != nil {
				return err
			}
		}
		if len(in.Scores) > 0 {
			scores := make(map[string]any, len(in.Scores))
			for s, v := range in.Scores {
				scores[s] = v
			}
			if err := u.deps.ModLogs.Create(ctx, tx, moderator.ID, e.ID, types.ActionEditDimensionScore, scores); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	return u.reload(ctx, op, e.ID)
}

func dimensionIDForSlug(a *types.ScaryAnalysis, dimensionSlug string) (uuid.UUID, bool) {
	name := slug.DimensionName(dimensionSlug)
	for _, ds := range a.DimensionScores {
		if ds.Dimension != nil && ds.Dimension.Name == name {
			return ds.DimensionID, true
		}
	}
	return uuid.Nil, false
}

type MetadataPatch struct {
	Description *string
	PosterURL   *string
	ImageURL    *string
}

func (p MetadataPatch) columns() map[string]any {
	out := map[string]any{}
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		if s := strings.TrimSpace(*v); s != "" {
			out[col] = s
		} else {
			out[col] = nil
		}
	}
	set("description", p.Description)
	set("poster_url", p.PosterURL)
	set("image_url", p.ImageURL)
	return out
}

func (u Usecases) UpdateMetadata(ctx context.Context, moderator *types.User, slugOrID string, patch MetadataPatch) (*types.ScaryEntity, error) {
	const op = "update metadata"
	if err := requireModerator(op, moderator); err != nil {
		return nil, err
	}
	cols := patch.columns()
	if len(cols) == 0 {
		return nil, types.NewError(types.CodeValidation, op, "nothing to update", nil)
	}
	e, err := u.resolve(ctx, op, slugOrID)
	if err != nil {
		return nil, err
	}
	err = u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.deps.Entities.UpdateMetadata(ctx, tx, e.ID, cols); err != nil {
			return err
		}
		return u.deps.ModLogs.Create(ctx, tx, moderator.ID, e.ID, types.ActionEditMetadata, cols)
	})
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	return u.reload(ctx, op, e.ID)
}

func (u Usecases) reload(ctx context.Context, op string, id uuid.UUID) (*types.ScaryEntity, error) {
	e, err := u.deps.Entities.GetByID(ctx, nil, id)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	if e == nil {
		return nil, types.NewError(types.CodeNotFound, op, "entity not found", nil)
	}
	return e, nil
}
