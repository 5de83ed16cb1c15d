package wiki

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

type DimensionRepo interface {
	UpsertByNames(ctx context.Context, tx *gorm.DB, names []string) (map[string]*types.ScaryDimension, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.ScaryDimension, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ScaryDimension, error)
}

type dimensionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDimensionRepo(db *gorm.DB, baseLog *logger.Logger) DimensionRepo {
	return &dimensionRepo{db: db, log: baseLog.With("repo", "DimensionRepo")}
}

// UpsertByNames creates any missing standard dimension rows and returns all of them keyed by name.
func (r *dimensionRepo) UpsertByNames(ctx context.Context, tx *gorm.DB, names []string) (map[string]*types.ScaryDimension, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[string]*types.ScaryDimension, len(names))
	if len(names) == 0 {
		return out, nil
	}
	rows := make([]*types.ScaryDimension, 0, len(names))
	for _, name := range names {
		rows = append(rows, &types.ScaryDimension{
			Name:        name,
			Description: types.DimensionDescription(slug.Make(name)),
			IsStandard:  true,
		})
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, err
	}
	var existing []*types.ScaryDimension
	if err := transaction.WithContext(ctx).Where("name IN ?", names).Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, d := range existing {
		out[d.Name] = d
	}
	return out, nil
}

func (r *dimensionRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.ScaryDimension, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ScaryDimension
	if err := transaction.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *dimensionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ScaryDimension, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ScaryDimension
	if err := transaction.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
