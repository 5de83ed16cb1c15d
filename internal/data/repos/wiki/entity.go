package wiki

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/dberr"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type EntityRepo interface {
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.ScaryEntity, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ScaryEntity, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScaryEntity, error)
	GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.ScaryEntity, error)
	SlugTaken(ctx context.Context, tx *gorm.DB, slug string) (*types.ScaryEntity, error)

	InsertPlaceholder(ctx context.Context, tx *gorm.DB, entity *types.ScaryEntity) error
	UpdateEnrichment(ctx context.Context, tx *gorm.DB, id uuid.UUID, enrichment types.Enrichment, namespaces []string) error
	UpdateMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error

	TouchGenerating(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ClaimRepair(ctx context.Context, tx *gorm.DB, id uuid.UUID, staleBefore time.Time) (bool, error)
	ClearGenerating(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	SaveAnalysis(ctx context.Context, tx *gorm.DB, entityID uuid.UUID, analysis *types.ScaryAnalysis) error
	DeleteAnalysis(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) error
	UpdateAnalysisEdit(ctx context.Context, tx *gorm.DB, analysis *types.ScaryAnalysis, scores map[uuid.UUID]int) error
}

type entityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntityRepo(db *gorm.DB, baseLog *logger.Logger) EntityRepo {
	repoLog := baseLog.With("repo", "EntityRepo")
	return &entityRepo{db: db, log: repoLog}
}

func (r *entityRepo) tx(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func withAnalysis(q *gorm.DB) *gorm.DB {
	return q.Preload("Analysis").Preload("Analysis.DimensionScores").Preload("Analysis.DimensionScores.Dimension")
}

func (r *entityRepo) first(ctx context.Context, tx *gorm.DB, query string, arg any) (*types.ScaryEntity, error) {
	var rows []*types.ScaryEntity
	if err := withAnalysis(r.tx(tx).WithContext(ctx)).
		Where(query, arg).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	sortScores(rows[0])
	return rows[0], nil
}

// GetByExternalID returns (nil, nil) when no record exists.
func (r *entityRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.ScaryEntity, error) {
	if externalID == "" {
		return nil, nil
	}
	return r.first(ctx, tx, "google_kg_id = ?", externalID)
}

func (r *entityRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ScaryEntity, error) {
	if slug == "" {
		return nil, nil
	}
	return r.first(ctx, tx, "slug = ?", slug)
}

func (r *entityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScaryEntity, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(ctx, tx, "id = ?", id)
}

func (r *entityRepo) GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.ScaryEntity, error) {
	var rows []*types.ScaryEntity
	if len(externalIDs) == 0 {
		return rows, nil
	}
	if err := r.tx(tx).WithContext(ctx).
		Preload("Analysis").
		Where("google_kg_id IN ?", externalIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SlugTaken returns the row owning slug, or nil when the slug is free.
func (r *entityRepo) SlugTaken(ctx context.Context, tx *gorm.DB, slug string) (*types.ScaryEntity, error) {
	var rows []*types.ScaryEntity
	if err := r.tx(tx).WithContext(ctx).
		Select("id", "slug", "entity_type", "google_kg_id").
		Where("slug = ?", slug).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// InsertPlaceholder creates the record with its lease held. A unique
// violation on either the external ID or the slug returns ErrDuplicate.
func (r *entityRepo) InsertPlaceholder(ctx context.Context, tx *gorm.DB, entity *types.ScaryEntity) error {
	if entity == nil {
		return fmt.Errorf("entity required")
	}
	entity.IsGenerating = true
	entity.Analysis = nil
	if err := r.tx(tx).WithContext(ctx).Omit("Analysis").Create(entity).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}
	return nil
}

func (r *entityRepo) UpdateEnrichment(ctx context.Context, tx *gorm.DB, id uuid.UUID, enrichment types.Enrichment, namespaces []string) error {
	cols := enrichment.Columns(namespaces...)
	if len(cols) == 0 {
		return nil
	}
	if posterURL := enrichment.TMDB.PosterURL; posterURL != nil {
		cols["poster_url"] = gorm.Expr("COALESCE(poster_url, ?)", *posterURL)
	}
	return r.updates(ctx, tx, id, cols)
}

func (r *entityRepo) UpdateMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.updates(ctx, tx, id, fields)
}

func (r *entityRepo) updates(ctx context.Context, tx *gorm.DB, id uuid.UUID, cols map[string]any) error {
	res := r.tx(tx).WithContext(ctx).
		Model(&types.ScaryEntity{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchGenerating (re)acquires the lease unconditionally.
func (r *entityRepo) TouchGenerating(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.updates(ctx, tx, id, map[string]any{
		"is_generating": true,
		"updated_at":    time.Now(),
	})
}

// ClaimRepair acquires the lease only if it is free or older than staleBefore
// and no analysis exists, so concurrent readers trigger at most one rerun.
func (r *entityRepo) ClaimRepair(ctx context.Context, tx *gorm.DB, id uuid.UUID, staleBefore time.Time) (bool, error) {
	res := r.tx(tx).WithContext(ctx).
		Model(&types.ScaryEntity{}).
		Where("id = ?", id).
		Where("(is_generating = ? OR updated_at < ?)", false, staleBefore).
		Where("NOT EXISTS (SELECT 1 FROM scary_analysis WHERE scary_analysis.entity_id = scary_entity.id)").
		Updates(map[string]any{
			"is_generating": true,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *entityRepo) ClearGenerating(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.updates(ctx, tx, id, map[string]any{"is_generating": false})
}

// SaveAnalysis replaces any existing analysis, sets the cached average and
// releases the lease. Callers run it inside a transaction.
func (r *entityRepo) SaveAnalysis(ctx context.Context, tx *gorm.DB, entityID uuid.UUID, analysis *types.ScaryAnalysis) error {
	if analysis == nil {
		return fmt.Errorf("analysis required")
	}
	db := r.tx(tx).WithContext(ctx)
	if err := r.DeleteAnalysis(ctx, db, entityID); err != nil {
		return err
	}
	analysis.EntityID = entityID
	// score rows reference existing dimensions; never cascade-write them.
	dims := make([]*types.ScaryDimension, len(analysis.DimensionScores))
	for i := range analysis.DimensionScores {
		dims[i] = analysis.DimensionScores[i].Dimension
		analysis.DimensionScores[i].Dimension = nil
	}
	err := db.Create(analysis).Error
	for i := range analysis.DimensionScores {
		analysis.DimensionScores[i].Dimension = dims[i]
	}
	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	avg := types.AverageScore(analysis.Scores())
	return r.updates(ctx, db, entityID, map[string]any{
		"average_ai_score": avg,
		"is_generating":    false,
	})
}

func (r *entityRepo) DeleteAnalysis(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) error {
	db := r.tx(tx).WithContext(ctx)
	var ids []uuid.UUID
	if err := db.Model(&types.ScaryAnalysis{}).Where("entity_id = ?", entityID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := db.Where("analysis_id IN ?", ids).Delete(&types.AnalysisDimensionScore{}).Error; err != nil {
		return err
	}
	if err := db.Where("id IN ?", ids).Delete(&types.ScaryAnalysis{}).Error; err != nil {
		return err
	}
	return db.Model(&types.ScaryEntity{}).Where("id = ?", entityID).Update("average_ai_score", nil).Error
}

// UpdateAnalysisEdit persists a human edit of the write-up and the given
// dimension scores (keyed by dimension ID), then refreshes the cached average.
func (r *entityRepo) UpdateAnalysisEdit(ctx context.Context, tx *gorm.DB, analysis *types.ScaryAnalysis, scores map[uuid.UUID]int) error {
	db := r.tx(tx).WithContext(ctx)
	if err := db.Model(&types.ScaryAnalysis{}).
		Where("id = ?", analysis.ID).
		Updates(map[string]any{
			"why_scary":          analysis.WhyScary,
			"why_scary_original": analysis.WhyScaryOriginal,
			"is_human_edited":    analysis.IsHumanEdited,
			"last_edited_by_id":  analysis.LastEditedByID,
			"last_edited_at":     analysis.LastEditedAt,
		}).Error; err != nil {
		return err
	}
	for dimID, score := range scores {
		if err := db.Model(&types.AnalysisDimensionScore{}).
			Where("analysis_id = ? AND dimension_id = ?", analysis.ID, dimID).
			Update("score", score).Error; err != nil {
			return err
		}
	}
	var current []int
	if err := db.Model(&types.AnalysisDimensionScore{}).
		Where("analysis_id = ?", analysis.ID).
		Pluck("score", &current).Error; err != nil {
		return err
	}
	return r.updates(ctx, db, analysis.EntityID, map[string]any{"average_ai_score": types.AverageScore(current)})
}

var standardOrder = func() map[string]int {
	m := make(map[string]int, len(types.StandardDimensionNames))
	for i, n := range types.StandardDimensionNames {
		m[n] = i
	}
	return m
}()

func sortScores(e *types.ScaryEntity) {
	if e == nil || e.Analysis == nil {
		return
	}
	rank := func(ds types.AnalysisDimensionScore) int {
		if ds.Dimension == nil {
			return len(standardOrder)
		}
		if i, ok := standardOrder[ds.Dimension.Name]; ok {
			return i
		}
		return len(standardOrder)
	}
	sort.SliceStable(e.Analysis.DimensionScores, func(i, j int) bool {
		return rank(e.Analysis.DimensionScores[i]) < rank(e.Analysis.DimensionScores[j])
	})
}
