package wiki

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScaryAnalysis struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"entityId"`
	WhyScary         string     `gorm:"column:why_scary;type:text;not null" json:"whyScary"`
	WhyScaryOriginal *string    `gorm:"column:why_scary_original;type:text" json:"whyScaryOriginal,omitempty"`
	IsHumanEdited    bool       `gorm:"column:is_human_edited;not null;default:false" json:"isHumanEdited"`
	LastEditedByID   *uuid.UUID `gorm:"column:last_edited_by_id;type:uuid" json:"lastEditedById,omitempty"`
	LastEditedAt     *time.Time `gorm:"column:last_edited_at" json:"lastEditedAt,omitempty"`

	DimensionScores []AnalysisDimensionScore `gorm:"foreignKey:AnalysisID" json:"dimensionScores"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (ScaryAnalysis) TableName() string { return "scary_analysis" }

func (a *ScaryAnalysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Scores returns the raw dimension scores in stored order.
func (a *ScaryAnalysis) Scores() []int {
	out := make([]int, 0, len(a.DimensionScores))
	for _, ds := range a.DimensionScores {
		out = append(out, ds.Score)
	}
	return out
}

type AnalysisDimensionScore struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_analysis_dimension" json:"analysisId"`
	DimensionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_analysis_dimension" json:"dimensionId"`
	Dimension   *ScaryDimension `gorm:"foreignKey:DimensionID" json:"dimension,omitempty"`
	Score       int             `gorm:"not null" json:"score"`
	Reasoning   string          `gorm:"type:text;not null" json:"reasoning"`
}

func (AnalysisDimensionScore) TableName() string { return "analysis_dimension_score" }

func (s *AnalysisDimensionScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
