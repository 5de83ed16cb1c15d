package wiki

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/repos/testutil"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
)

func strPtr(s string) *string { return &s }

func newEntity(kgID, slug string) *types.ScaryEntity {
	return &types.ScaryEntity{GoogleKGID: kgID, Slug: slug, Name: "Annabelle", EntityType: "Movie"}
}

func TestInsertPlaceholderRejectsDuplicateExternalID(t *testing.T) {
	db := testutil.DB(t)
	repo := NewEntityRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if err := repo.InsertPlaceholder(ctx, nil, newEntity("kg:1", "annabelle")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := repo.InsertPlaceholder(ctx, nil, newEntity("kg:1", "annabelle-2"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	err = repo.InsertPlaceholder(ctx, nil, newEntity("kg:2", "annabelle"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on slug, got %v", err)
	}

	got, err := repo.GetByExternalID(ctx, nil, "kg:1")
	if err != nil || got == nil {
		t.Fatalf("lookup: %v %v", got, err)
	}
	if !got.IsGenerating {
		t.Fatalf("placeholder must hold the lease")
	}
	missing, err := repo.GetBySlug(ctx, nil, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil,nil for missing slug, got %v %v", missing, err)
	}
}

func TestSaveAnalysisReleasesLeaseAndOrdersScores(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	entities := NewEntityRepo(db, log)
	dims := NewDimensionRepo(db, log)
	ctx := context.Background()

	e := newEntity("kg:1", "annabelle")
	if err := entities.InsertPlaceholder(ctx, nil, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	byName, err := dims.UpsertByNames(ctx, nil, types.StandardDimensionNames)
	if err != nil {
		t.Fatalf("upsert dims: %v", err)
	}
	if len(byName) != 5 {
		t.Fatalf("expected 5 dimensions, got %d", len(byName))
	}

	scores := []int{2, 4, 6, 8, 10}
	analysis := &types.ScaryAnalysis{WhyScary: "A possessed doll."}
	// insert in reverse order to check read-side ordering
	for i := len(types.StandardDimensionNames) - 1; i >= 0; i-- {
		d := byName[types.StandardDimensionNames[i]]
		analysis.DimensionScores = append(analysis.DimensionScores, types.AnalysisDimensionScore{
			DimensionID: d.ID, Dimension: d, Score: scores[i], Reasoning: "r",
		})
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		return entities.SaveAnalysis(ctx, tx, e.ID, analysis)
	}); err != nil {
		t.Fatalf("save analysis: %v", err)
	}

	got, err := entities.GetBySlug(ctx, nil, "annabelle")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsGenerating {
		t.Fatalf("lease must be cleared after analysis")
	}
	if got.AverageAIScore == nil || *got.AverageAIScore != 6.0 {
		t.Fatalf("expected average 6.0, got %v", got.AverageAIScore)
	}
	if len(got.Analysis.DimensionScores) != 5 {
		t.Fatalf("expected 5 scores, got %d", len(got.Analysis.DimensionScores))
	}
	for i, ds := range got.Analysis.DimensionScores {
		if ds.Dimension == nil || ds.Dimension.Name != types.StandardDimensionNames[i] {
			t.Fatalf("score %d out of order: %+v", i, ds.Dimension)
		}
	}

	if err := entities.DeleteAnalysis(ctx, nil, e.ID); err != nil {
		t.Fatalf("delete analysis: %v", err)
	}
	got, _ = entities.GetByID(ctx, nil, e.ID)
	if got.Analysis != nil || got.AverageAIScore != nil {
		t.Fatalf("expected analysis cleared, got %+v", got.Analysis)
	}
	var remaining int64
	db.Model(&types.AnalysisDimensionScore{}).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected score rows deleted, %d left", remaining)
	}
}

func TestClaimRepairOnlyOnceForStaleLease(t *testing.T) {
	db := testutil.DB(t)
	entities := NewEntityRepo(db, testutil.Logger(t))
	ctx := context.Background()

	e := newEntity("kg:1", "annabelle")
	if err := entities.InsertPlaceholder(ctx, nil, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	threshold := 5 * time.Minute

	ok, err := entities.ClaimRepair(ctx, nil, e.ID, time.Now().Add(-threshold))
	if err != nil || ok {
		t.Fatalf("fresh lease must not be claimable: ok=%v err=%v", ok, err)
	}

	old := time.Now().Add(-10 * time.Minute)
	if err := db.Model(&types.ScaryEntity{}).Where("id = ?", e.ID).UpdateColumn("updated_at", old).Error; err != nil {
		t.Fatalf("age lease: %v", err)
	}
	ok, err = entities.ClaimRepair(ctx, nil, e.ID, time.Now().Add(-threshold))
	if err != nil || !ok {
		t.Fatalf("stale lease must be claimable: ok=%v err=%v", ok, err)
	}
	ok, _ = entities.ClaimRepair(ctx, nil, e.ID, time.Now().Add(-threshold))
	if ok {
		t.Fatalf("second claim must lose")
	}
	got, _ := entities.GetByID(ctx, nil, e.ID)
	if !got.UpdatedAt.After(old) {
		t.Fatalf("expected timestamp to advance")
	}

	if err := entities.ClearGenerating(ctx, nil, e.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	ok, _ = entities.ClaimRepair(ctx, nil, e.ID, time.Now().Add(-threshold))
	if !ok {
		t.Fatalf("terminal failure must be claimable")
	}
}

func TestUpdateEnrichmentTouchesOnlyNamedNamespaces(t *testing.T) {
	db := testutil.DB(t)
	entities := NewEntityRepo(db, testutil.Logger(t))
	ctx := context.Background()

	e := newEntity("kg:1", "annabelle")
	if err := entities.InsertPlaceholder(ctx, nil, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pageID := 7
	first := types.Enrichment{Wikipedia: types.EncyclopediaData{PageID: &pageID, Categories: []string{"Films"}}}
	if err := entities.UpdateEnrichment(ctx, nil, e.ID, first, []string{types.NamespaceWikipedia}); err != nil {
		t.Fatalf("update wiki: %v", err)
	}
	tmdbID := 250546
	second := types.Enrichment{TMDB: types.MovieData{TMDBID: &tmdbID, PosterURL: strPtr("https://image.tmdb.org/t/p/w500/a.jpg")}}
	if err := entities.UpdateEnrichment(ctx, nil, e.ID, second, []string{types.NamespaceTMDB}); err != nil {
		t.Fatalf("update tmdb: %v", err)
	}

	got, _ := entities.GetByID(ctx, nil, e.ID)
	if got.TMDB.TMDBID == nil || *got.TMDB.TMDBID != tmdbID {
		t.Fatalf("tmdb id not stored: %+v", got.TMDB)
	}
	if got.Wikipedia.PageID == nil || *got.Wikipedia.PageID != pageID || len(got.Wikipedia.Categories) != 1 {
		t.Fatalf("wikipedia namespace was clobbered: %+v", got.Wikipedia)
	}
	if got.PosterURL == nil || *got.PosterURL != "https://image.tmdb.org/t/p/w500/a.jpg" {
		t.Fatalf("expected poster fallback, got %v", got.PosterURL)
	}
	if err := entities.UpdateEnrichment(ctx, nil, uuid.New(), second, []string{types.NamespaceTMDB}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
