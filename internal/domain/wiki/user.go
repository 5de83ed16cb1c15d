package wiki

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local mirror of an identity-provider account.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalUID string    `gorm:"column:external_uid;uniqueIndex;not null" json:"-"`
	Email       string    `gorm:"column:email" json:"-"`
	DisplayName string    `gorm:"column:display_name" json:"displayName"`
	Role        Role      `gorm:"column:role;not null;default:'USER'" json:"role"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
