package steps

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/platform/ai"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

type Status string

const (
	StatusReady      Status = "ready"
	StatusGenerating Status = "generating"
	StatusUnsuitable Status = "unsuitable"
	StatusFailed     Status = "failed"
)

const (
	DefaultStaleAfter = 5 * time.Minute
	maxInsertAttempts = 3
)

type GenerationDeps struct {
	DB         *gorm.DB
	Log        *logger.Logger
	Entities   repos.EntityRepo
	Dimensions repos.DimensionRepo
	Registry   *integrations.Registry
	AI         ai.Generator
}

type CreateEntityDeps struct {
	GenerationDeps
	StaleAfter time.Duration
	Now        func() time.Time
}

type CreateEntityInput struct {
	Candidate types.Candidate
	UserID    *uuid.UUID
}

type CreateEntityOutput struct {
	Status Status
	Entity *types.ScaryEntity
}

// CreateEntity resolves a candidate into a stored entity, running the whole
// pipeline for the caller that wins the insert. Other callers see generating.
func CreateEntity(ctx context.Context, deps CreateEntityDeps, in CreateEntityInput) (CreateEntityOutput, error) {
	c := in.Candidate
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" || c.Name == "" {
		return CreateEntityOutput{}, types.NewError(types.CodeValidation, "create entity", "candidate id and name are required", nil)
	}
	// a disconnecting client must not abort a creation it started
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "wiki.create_entity")
	defer span.End()

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	stale := deps.StaleAfter
	if stale <= 0 {
		stale = DefaultStaleAfter
	}
	log := deps.Log.With("entity", c.ID)

	existing, err := deps.Entities.GetByExternalID(ctx, nil, c.ID)
	if err != nil {
		return CreateEntityOutput{}, types.Wrap(types.CodeInternal, "create entity", err)
	}
	if existing != nil {
		switch {
		case existing.HasAnalysis():
			return CreateEntityOutput{Status: StatusReady, Entity: existing}, nil
		case !existing.NeedsRepair(now(), stale):
			return CreateEntityOutput{Status: StatusGenerating, Entity: existing}, nil
		}
		won, err := deps.Entities.ClaimRepair(ctx, nil, existing.ID, now().Add(-stale))
		if err != nil {
			return CreateEntityOutput{}, types.Wrap(types.CodeInternal, "claim entity", err)
		}
		if !won {
			return CreateEntityOutput{Status: StatusGenerating, Entity: existing}, nil
		}
		log.Info("Retrying generation for existing entity", "slug", existing.Slug)
		return runCreated(ctx, deps.GenerationDeps, existing, c)
	}

	entity, winner, err := insertPlaceholder(ctx, deps.GenerationDeps, c)
	if err != nil {
		return CreateEntityOutput{}, err
	}
	if winner != nil {
		return CreateEntityOutput{Status: StatusGenerating, Entity: winner}, nil
	}
	log.Info("Entity placeholder created", "slug", entity.Slug)
	return runCreated(ctx, deps.GenerationDeps, entity, c)
}

// insertPlaceholder returns the new row, or the concurrent winner when another
// request created the same external ID first.
func insertPlaceholder(ctx context.Context, deps GenerationDeps, c types.Candidate) (*types.ScaryEntity, *types.ScaryEntity, error) {
	var lastErr error
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		s, err := UniqueSlug(ctx, nil, deps.Entities, c)
		if err != nil {
			return nil, nil, types.Wrap(types.CodeInternal, "allocate slug", err)
		}
		entity := &types.ScaryEntity{
			GoogleKGID:  c.ID,
			Slug:        s,
			Name:        c.Name,
			Description: optional(c.Description),
			EntityType:  c.PrimaryType(),
			EntityTypes: c.Types,
			ImageURL:    optional(c.ImageURL),
		}
		err = deps.Entities.InsertPlaceholder(ctx, nil, entity)
		if err == nil {
			return entity, nil, nil
		}
		if !errors.Is(err, repos.ErrDuplicate) {
			return nil, nil, types.Wrap(types.CodeInternal, "insert entity", err)
		}
		winner, gErr := deps.Entities.GetByExternalID(ctx, nil, c.ID)
		if gErr != nil {
			return nil, nil, types.Wrap(types.CodeInternal, "insert entity", gErr)
		}
		if winner != nil {
			return nil, winner, nil
		}
		// the slug was claimed between allocation and insert
		deps.Log.Debug("Slug collision; retrying", "slug", s, "attempt", attempt+1)
		lastErr = err
	}
	return nil, nil, types.NewError(types.CodeConflict, "insert entity", "could not allocate a unique slug", lastErr)
}

func runCreated(ctx context.Context, deps GenerationDeps, entity *types.ScaryEntity, c types.Candidate) (CreateEntityOutput, error) {
	if !c.IsSuitable() {
		if err := deps.Entities.ClearGenerating(ctx, nil, entity.ID); err != nil {
			deps.Log.Warn("Clear generating failed", "entity", c.ID, "error", err)
		}
		entity.IsGenerating = false
		return CreateEntityOutput{Status: StatusUnsuitable, Entity: entity},
			types.NewError(types.CodeUnsuitable, "create entity", "entity is not suitable for a scary analysis", nil)
	}
	status, out, err := RunGeneration(ctx, deps, entity, c)
	return CreateEntityOutput{Status: status, Entity: out}, err
}

// RunGeneration enriches the entity and writes its analysis. The caller must
// hold the generating lease; it is released on every exit path.
func RunGeneration(ctx context.Context, deps GenerationDeps, entity *types.ScaryEntity, c types.Candidate) (Status, *types.ScaryEntity, error) {
	ctx, span := tracer.Start(ctx, "wiki.run_generation")
	defer span.End()
	log := deps.Log.With("entity", c.ID, "entityId", entity.ID.String())

	selections := SelectIntegrations(ctx, SelectIntegrationsDeps{Log: deps.Log, AI: deps.AI, Registry: deps.Registry}, c)
	processed := ProcessIntegrations(ctx, ProcessIntegrationsDeps{Log: deps.Log, Registry: deps.Registry, AI: deps.AI}, c, selections)
	if len(processed.Applied) > 0 {
		if err := deps.Entities.UpdateEnrichment(ctx, nil, entity.ID, processed.Enrichment, processed.Applied); err != nil {
			log.Warn("Store enrichment failed; continuing", "error", err)
		} else {
			for _, ns := range processed.Applied {
				entity.Enrichment.Merge(ns, processed.Enrichment)
			}
		}
	}

	extract := ""
	if entity.Wikipedia.Extract != nil {
		extract = *entity.Wikipedia.Extract
	}
	gen, err := GenerateAnalysis(ctx, GenerateAnalysisDeps{Log: deps.Log, AI: deps.AI}, c, extract)
	if err != nil {
		log.Error("Analysis generation failed", "error", err)
		releaseLease(ctx, deps, entity)
		return StatusFailed, entity, types.Wrap(types.CodeInternal, "generate analysis", err)
	}
	if err := SaveGeneratedAnalysis(ctx, deps, entity.ID, gen); err != nil {
		log.Error("Save analysis failed", "error", err)
		releaseLease(ctx, deps, entity)
		return StatusFailed, entity, types.Wrap(types.CodeInternal, "save analysis", err)
	}

	ready, err := deps.Entities.GetByID(ctx, nil, entity.ID)
	if err != nil || ready == nil {
		return StatusFailed, entity, types.NewError(types.CodeInternal, "reload entity", "entity vanished after analysis", err)
	}
	log.Info("Entity ready", "slug", ready.Slug, "integrations", processed.Applied, "fallback", gen.Fallback)
	return StatusReady, ready, nil
}

// SaveGeneratedAnalysis upserts the dimensions and stores the analysis atomically.
func SaveGeneratedAnalysis(ctx context.Context, deps GenerationDeps, entityID uuid.UUID, gen GeneratedAnalysis) error {
	names := make([]string, len(gen.Scores))
	for i, s := range gen.Scores {
		names[i] = slug.DimensionName(s.Slug)
	}
	return deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dims, err := deps.Dimensions.UpsertByNames(ctx, tx, names)
		if err != nil {
			return err
		}
		analysis := &types.ScaryAnalysis{WhyScary: gen.WhyScary}
		for i, s := range gen.Scores {
			dim, ok := dims[names[i]]
			if !ok {
				return errors.New("dimension missing after upsert: " + names[i])
			}
			analysis.DimensionScores = append(analysis.DimensionScores, types.AnalysisDimensionScore{
				DimensionID: dim.ID,
				Dimension:   dim,
				Score:       s.Score,
				Reasoning:   s.Reasoning,
			})
		}
		return deps.Entities.SaveAnalysis(ctx, tx, entityID, analysis)
	})
}

func releaseLease(ctx context.Context, deps GenerationDeps, entity *types.ScaryEntity) {
	if err := deps.Entities.ClearGenerating(ctx, nil, entity.ID); err != nil {
		deps.Log.Warn("Clear generating failed", "entityId", entity.ID.String(), "error", err)
		return
	}
	entity.IsGenerating = false
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
