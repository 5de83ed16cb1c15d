package wiki

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ModeratorLog struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ModeratorID uuid.UUID       `gorm:"type:uuid;not null;index" json:"moderatorId"`
	EntityID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"entityId"`
	Action      ModeratorAction `gorm:"not null" json:"action"`
	Details     datatypes.JSON  `gorm:"type:json" json:"details,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"createdAt"`
}

func (ModeratorLog) TableName() string { return "moderator_log" }

func (l *ModeratorLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
