package wiki

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, review *types.Review) error
	// ListForEntity returns reviews newest first with their authors loaded.
	ListForEntity(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) ([]*types.Review, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) Create(ctx context.Context, tx *gorm.DB, review *types.Review) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("User").Create(review).Error
}

func (r *reviewRepo) ListForEntity(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Review
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
