package wiki

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/clients/knowledgegraph"
	"github.com/yungbote/howscary-backend/internal/data/repos"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/jobs"
	"github.com/yungbote/howscary-backend/internal/modules/wiki/steps"
	"github.com/yungbote/howscary-backend/internal/platform/ai"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	AI       ai.Generator
	Registry *integrations.Registry
	// Optional: Search and KnowledgeGraphEntity report an internal error without them.
	Search knowledgegraph.Searcher
	Lookup knowledgegraph.EntityLookup
	Runner *jobs.Runner

	Entities   repos.EntityRepo
	Dimensions repos.DimensionRepo
	Ratings    repos.RatingRepo
	ModLogs    repos.ModeratorLogRepo
	Reviews    repos.ReviewRepo
	Users      repos.UserRepo

	StaleAfter time.Duration
	Now        func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	Status             = steps.Status
	CreateEntityInput  = steps.CreateEntityInput
	CreateEntityOutput = steps.CreateEntityOutput
)

const (
	StatusReady      = steps.StatusReady
	StatusGenerating = steps.StatusGenerating
	StatusUnsuitable = steps.StatusUnsuitable
	StatusFailed     = steps.StatusFailed
)

func (u Usecases) now() time.Time {
	if u.deps.Now != nil {
		return u.deps.Now()
	}
	return time.Now()
}

func (u Usecases) staleAfter() time.Duration {
	if u.deps.StaleAfter > 0 {
		return u.deps.StaleAfter
	}
	return steps.DefaultStaleAfter
}

func (u Usecases) generationDeps() steps.GenerationDeps {
	return steps.GenerationDeps{
		DB:         u.deps.DB,
		Log:        u.deps.Log,
		Entities:   u.deps.Entities,
		Dimensions: u.deps.Dimensions,
		Registry:   u.deps.Registry,
		AI:         u.deps.AI,
	}
}

func (u Usecases) backgroundDeps() steps.BackgroundDeps {
	return steps.BackgroundDeps{
		GenerationDeps: u.generationDeps(),
		Runner:         u.deps.Runner,
		StaleAfter:     u.staleAfter(),
		Now:            u.deps.Now,
	}
}

func (u Usecases) Create(ctx context.Context, in CreateEntityInput) (CreateEntityOutput, error) {
	return steps.CreateEntity(ctx, steps.CreateEntityDeps{
		GenerationDeps: u.generationDeps(),
		StaleAfter:     u.deps.StaleAfter,
		Now:            u.deps.Now,
	}, in)
}

type LookupOutput struct {
	Status  Status
	Entity  *types.ScaryEntity
	Ratings *types.RatingSummary
}

// Lookup reads an entity by slug or external ID. Abandoned or failed records
// are claimed and regenerated in the background without failing the read.
func (u Usecases) Lookup(ctx context.Context, key string) (LookupOutput, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return LookupOutput{}, types.NewError(types.CodeValidation, "lookup", "slug or id required", nil)
	}
	e, err := u.deps.Entities.GetBySlug(ctx, nil, key)
	if err == nil && e == nil {
		e, err = u.deps.Entities.GetByExternalID(ctx, nil, key)
	}
	if err != nil {
		return LookupOutput{}, types.Wrap(types.CodeInternal, "lookup", err)
	}
	if e == nil {
		return LookupOutput{}, types.NewError(types.CodeNotFound, "lookup", "entity not found", nil)
	}

	if !e.HasAnalysis() {
		needsRepair := e.NeedsRepair(u.now(), u.staleAfter())
		// rejected records stay failed; only an explicit moderator regenerate retries them
		if needsRepair && !types.CandidateFromEntity(e).IsSuitable() {
			return LookupOutput{Status: StatusUnsuitable, Entity: e},
				types.NewError(types.CodeUnsuitable, "lookup", "entity is not suitable for a scary analysis", nil)
		}
		if needsRepair {
			won, err := u.deps.Entities.ClaimRepair(ctx, nil, e.ID, u.now().Add(-u.staleAfter()))
			if err != nil {
				u.deps.Log.Warn("Claim repair failed", "slug", e.Slug, "error", err)
			} else if won {
				e.IsGenerating = true
				e.UpdatedAt = u.now()
				u.deps.Log.Info("Repairing entity generation", "slug", e.Slug)
				if !steps.ScheduleGeneration(u.backgroundDeps(), e) {
					_ = u.deps.Entities.ClearGenerating(ctx, nil, e.ID)
				}
			}
		}
		return LookupOutput{Status: StatusGenerating, Entity: e}, nil
	}

	summary, err := u.deps.Ratings.SummaryForEntity(ctx, nil, e.ID)
	if err != nil {
		return LookupOutput{}, types.Wrap(types.CodeInternal, "rating summary", err)
	}
	return LookupOutput{Status: StatusReady, Entity: e, Ratings: &summary}, nil
}

type EntityStatus struct {
	Exists       bool `json:"exists"`
	IsGenerating bool `json:"isGenerating"`
	HasAnalysis  bool `json:"hasAnalysis"`
}

func (u Usecases) Status(ctx context.Context, externalID string) (EntityStatus, error) {
	e, err := u.deps.Entities.GetByExternalID(ctx, nil, strings.TrimSpace(externalID))
	if err != nil {
		return EntityStatus{}, types.Wrap(types.CodeInternal, "status", err)
	}
	if e == nil {
		return EntityStatus{}, nil
	}
	return EntityStatus{Exists: true, IsGenerating: e.IsGenerating, HasAnalysis: e.HasAnalysis()}, nil
}

type SearchResult struct {
	types.Candidate
	InDatabase       bool     `json:"inDatabase"`
	DBID             *string  `json:"dbId"`
	Slug             *string  `json:"slug"`
	HasAnalysis      bool     `json:"hasAnalysis"`
	AverageAIScore   *float64 `json:"averageAIScore"`
	AverageUserScore *float64 `json:"averageUserScore"`
	TotalRatings     int      `json:"totalRatings"`
	IsGenerating     bool     `json:"isGenerating"`
}

// Search returns suitable knowledge-graph results annotated with local state.
func (u Usecases) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.NewError(types.CodeValidation, "search", "query required", nil)
	}
	if u.deps.Search == nil {
		return nil, types.NewError(types.CodeInternal, "search", "knowledge graph search not configured", nil)
	}
	candidates, err := u.deps.Search.Search(ctx, query)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, "search", err)
	}
	suitable := make([]types.Candidate, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.IsSuitable() {
			suitable = append(suitable, c)
			ids = append(ids, c.ID)
		}
	}

	stored, err := u.deps.Entities.GetByExternalIDs(ctx, nil, ids)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, "search annotate", err)
	}
	byKG := make(map[string]*types.ScaryEntity, len(stored))
	entityIDs := make([]uuid.UUID, 0, len(stored))
	for _, e := range stored {
		byKG[e.GoogleKGID] = e
		entityIDs = append(entityIDs, e.ID)
	}
	summaries, err := u.deps.Ratings.SummariesForEntities(ctx, nil, entityIDs)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, "search annotate", err)
	}

	out := make([]SearchResult, 0, len(suitable))
	for _, c := range suitable {
		r := SearchResult{Candidate: c}
		if e := byKG[c.ID]; e != nil {
			id, s := e.ID.String(), e.Slug
			sum := summaries[e.ID]
			r.InDatabase = true
			r.DBID = &id
			r.Slug = &s
			r.HasAnalysis = e.HasAnalysis()
			r.AverageAIScore = e.RoundedAIScore()
			r.AverageUserScore = sum.AverageScore
			r.TotalRatings = sum.TotalRatings
			r.IsGenerating = e.IsGenerating
		}
		out = append(out, r)
	}
	return out, nil
}

// KnowledgeGraphEntity fetches one knowledge-graph result by ID. Results the
// wiki would refuse to analyse are forbidden rather than returned.
func (u Usecases) KnowledgeGraphEntity(ctx context.Context, id string) (*types.Candidate, error) {
	const op = "knowledge graph entity"
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, types.NewError(types.CodeValidation, op, "id required", nil)
	}
	if u.deps.Lookup == nil {
		return nil, types.NewError(types.CodeInternal, op, "knowledge graph lookup not configured", nil)
	}
	c, err := u.deps.Lookup.Lookup(ctx, id)
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	if c == nil {
		return nil, types.NewError(types.CodeNotFound, op, "entity not found", nil)
	}
	if !c.IsSuitable() {
		return nil, types.NewError(types.CodeForbidden, op, "entity is not suitable for scary wiki", nil)
	}
	return c, nil
}

func (u Usecases) resolve(ctx context.Context, op, slugOrID string) (*types.ScaryEntity, error) {
	slugOrID = strings.TrimSpace(slugOrID)
	var (
		e   *types.ScaryEntity
		err error
	)
	if id, perr := uuid.Parse(slugOrID); perr == nil {
		e, err = u.deps.Entities.GetByID(ctx, nil, id)
	} else {
		e, err = u.deps.Entities.GetBySlug(ctx, nil, slugOrID)
	}
	if err != nil {
		return nil, types.Wrap(types.CodeInternal, op, err)
	}
	if e == nil {
		return nil, types.NewError(types.CodeNotFound, op, "entity not found", nil)
	}
	return e, nil
}
