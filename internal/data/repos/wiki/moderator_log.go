package wiki

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type ModeratorLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, moderatorID, entityID uuid.UUID, action types.ModeratorAction, details map[string]any) error
	ListForEntity(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) ([]*types.ModeratorLog, error)
}

type moderatorLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModeratorLogRepo(db *gorm.DB, baseLog *logger.Logger) ModeratorLogRepo {
	return &moderatorLogRepo{db: db, log: baseLog.With("repo", "ModeratorLogRepo")}
}

func (r *moderatorLogRepo) Create(ctx context.Context, tx *gorm.DB, moderatorID, entityID uuid.UUID, action types.ModeratorAction, details map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	entry := &types.ModeratorLog{ModeratorID: moderatorID, EntityID: entityID, Action: action}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = datatypes.JSON(raw)
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

// ListForEntity returns log rows newest first.
func (r *moderatorLogRepo) ListForEntity(ctx context.Context, tx *gorm.DB, entityID uuid.UUID) ([]*types.ModeratorLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ModeratorLog
	if err := transaction.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
