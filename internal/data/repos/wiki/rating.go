package wiki

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

type RatingRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.ScaryRating) error
	SummaryForEntity(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) (types.RatingSummary, error)
	SummariesForEntities(ctx context.Context, tx *gorm.DB, entityIDs []uuid.UUID) (map[uuid.UUID]types.RatingSummary, error)
	ListForUser(ctx context.Context, tx *gorm.DB, entityID, userID uuid.UUID) ([]types.UserRating, error)
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	return &ratingRepo{db: db, log: baseLog.With("repo", "RatingRepo")}
}

// Upsert keeps one rating per (entity, dimension, user).
func (r *ratingRepo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.ScaryRating) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	rating.UpdatedAt = time.Now()
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}, {Name: "dimension_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "review", "updated_at"}),
		}).
		Create(rating).Error
}

type summaryRow struct {
	EntityID uuid.UUID
	Average  *float64
	Raters   int
}

func (r *ratingRepo) SummaryForEntity(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) (types.RatingSummary, error) {
	m, err := r.SummariesForEntities(ctx, tx, []uuid.UUID{entityID})
	if err != nil {
		return types.RatingSummary{}, err
	}
	if s, ok := m[entityID]; ok {
		return s, nil
	}
	return types.RatingSummary{EntityID: entityID}, nil
}

// SummariesForEntities returns the average score (one decimal) and number of distinct raters per entity.
func (r *ratingRepo) SummariesForEntities(ctx context.Context, tx *gorm.DB, entityIDs []uuid.UUID) (map[uuid.UUID]types.RatingSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]types.RatingSummary, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}
	var rows []summaryRow
	if err := transaction.WithContext(ctx).
		Model(&types.ScaryRating{}).
		Select("entity_id, AVG(score) AS average, COUNT(DISTINCT user_id) AS raters").
		Where("entity_id IN ?", entityIDs).
		Group("entity_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		s := types.RatingSummary{EntityID: row.EntityID, TotalRatings: row.Raters}
		if row.Average != nil {
			v := types.Round1(*row.Average)
			s.AverageScore = &v
		}
		out[row.EntityID] = s
	}
	return out, nil
}

type userRatingRow struct {
	DimensionName string
	Score         int
}

// ListForUser returns one user's scores for an entity in dimension-name order.
func (r *ratingRepo) ListForUser(ctx context.Context, tx *gorm.DB, entityID, userID uuid.UUID) ([]types.UserRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []userRatingRow
	if err := transaction.WithContext(ctx).
		Table("scary_rating").
		Select("scary_dimension.name AS dimension_name, scary_rating.score AS score").
		Joins("JOIN scary_dimension ON scary_dimension.id = scary_rating.dimension_id").
		Where("scary_rating.entity_id = ? AND scary_rating.user_id = ?", entityID, userID).
		Order("scary_dimension.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.UserRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.UserRating{
			DimensionID:   slug.Make(row.DimensionName),
			DimensionName: row.DimensionName,
			Score:         row.Score,
		})
	}
	return out, nil
}
