package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/howscary-backend/internal/domain/wiki"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&wiki.User{},
		&wiki.ScaryDimension{},
		&wiki.ScaryEntity{},
		&wiki.ScaryAnalysis{},
		&wiki.AnalysisDimensionScore{},
		&wiki.ScaryRating{},
		&wiki.Review{},
		&wiki.ModeratorLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return SeedStandardDimensions(db)
}

// SeedStandardDimensions makes sure every standard dimension row exists.
func SeedStandardDimensions(db *gorm.DB) error {
	rows := make([]wiki.ScaryDimension, 0, len(wiki.StandardDimensionNames))
	for _, name := range wiki.StandardDimensionNames {
		d := wiki.ScaryDimension{Name: name, IsStandard: true}
		d.Description = wiki.DimensionDescription(d.Slug())
		rows = append(rows, d)
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed dimensions: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Running automigrate...")
	return AutoMigrateAll(s.db)
}
