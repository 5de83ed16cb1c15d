package wiki

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

type ScaryDimension struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IsStandard  bool      `gorm:"not null;default:false" json:"isStandard"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

func (ScaryDimension) TableName() string { return "scary_dimension" }

func (d *ScaryDimension) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d ScaryDimension) Slug() string { return slug.Make(d.Name) }

// StandardDimensionNames is the fixed scoring axis set, in presentation order.
// Names are chosen so slug.DimensionName(slug.Make(name)) == name.
var StandardDimensionNames = []string{
	"Jump Scares",
	"Gore Violence",
	"Psychological Terror",
	"Suspense Tension",
	"Disturbing Content",
}

// StandardDimensionSlugs returns the slugs of StandardDimensionNames in order.
func StandardDimensionSlugs() []string {
	out := make([]string, len(StandardDimensionNames))
	for i, n := range StandardDimensionNames {
		out[i] = slug.Make(n)
	}
	return out
}

// DimensionDescription is the description written when a dimension row is created on demand.
func DimensionDescription(dimensionSlug string) string {
	return "Scary dimension: " + dimensionSlug
}
