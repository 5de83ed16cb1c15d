package wiki

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScaryEntity is the persisted aggregate. IsGenerating together with UpdatedAt
// acts as a lease held by the pipeline run that owns the record.
type ScaryEntity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleKGID     string    `gorm:"column:google_kg_id;uniqueIndex;not null" json:"googleKgId"`
	Slug           string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Name           string    `gorm:"column:name;not null;index" json:"name"`
	Description    *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	EntityType     string    `gorm:"column:entity_type;not null;default:'Thing'" json:"entityType"`
	ImageURL       *string   `gorm:"column:image_url" json:"imageUrl,omitempty"`
	PosterURL      *string   `gorm:"column:poster_url" json:"posterUrl,omitempty"`
	IsGenerating   bool      `gorm:"column:is_generating;not null;default:false" json:"isGenerating"`
	AverageAIScore *float64  `gorm:"column:average_ai_score" json:"averageAIScore,omitempty"`

	// EntityTypes keeps every knowledge-graph type so suitability can be re-checked.
	EntityTypes datatypes.JSONSlice[string] `gorm:"column:entity_types" json:"entityTypes,omitempty"`

	Enrichment `gorm:"embedded"`

	Analysis *ScaryAnalysis `gorm:"foreignKey:EntityID" json:"analysis,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (ScaryEntity) TableName() string { return "scary_entity" }

func (e *ScaryEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// HasAnalysis reports whether generation has completed at least once.
func (e *ScaryEntity) HasAnalysis() bool {
	return e != nil && e.Analysis != nil
}

// IsStale reports whether a generating lease was abandoned.
func (e *ScaryEntity) IsStale(now time.Time, threshold time.Duration) bool {
	return e.IsGenerating && now.Sub(e.UpdatedAt) > threshold
}

// NeedsRepair is true for abandoned leases and for terminal failures.
func (e *ScaryEntity) NeedsRepair(now time.Time, threshold time.Duration) bool {
	if e.HasAnalysis() {
		return false
	}
	return !e.IsGenerating || e.IsStale(now, threshold)
}

// RoundedAIScore is the cached average rounded to one decimal.
func (e *ScaryEntity) RoundedAIScore() *float64 {
	if e == nil || e.AverageAIScore == nil {
		return nil
	}
	v := Round1(*e.AverageAIScore)
	return &v
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AverageScore is the arithmetic mean of the dimension scores.
func AverageScore(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}
