package wiki

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScaryRating struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_entity_dimension_user" json:"entityId"`
	DimensionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_entity_dimension_user" json:"dimensionId"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_entity_dimension_user;index" json:"userId"`
	Score       int       `gorm:"not null" json:"score"`
	Review      *string   `gorm:"type:text" json:"review,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (ScaryRating) TableName() string { return "scary_rating" }

func (r *ScaryRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RatingSummary aggregates user ratings for one entity.
type RatingSummary struct {
	EntityID     uuid.UUID `json:"-"`
	AverageScore *float64  `json:"averageScore"`
	TotalRatings int       `json:"totalRatings"`
}

const (
	MinScore = 1
	MaxScore = 10
)

func ValidScore(score int) bool { return score >= MinScore && score <= MaxScore }
