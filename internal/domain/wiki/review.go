package wiki

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxReviewLength = 5000

// Review is a free-text opinion left by a signed-in user.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index:idx_review_entity_created" json:"entityId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index:idx_review_entity_created" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string { return "review" }

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// UserRating is one of the caller's own dimension scores for an entity.
type UserRating struct {
	DimensionID   string `json:"dimensionId"`
	DimensionName string `json:"dimensionName"`
	Score         int    `json:"score"`
}
