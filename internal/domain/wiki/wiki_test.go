package wiki

import (
	"testing"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

func TestStandardDimensionsRoundTrip(t *testing.T) {
	if len(StandardDimensionNames) != 5 {
		t.Fatalf("expected 5 standard dimensions, got %d", len(StandardDimensionNames))
	}
	for i, s := range StandardDimensionSlugs() {
		if got := slug.DimensionName(s); got != StandardDimensionNames[i] {
			t.Fatalf("slug %q inverted to %q, want %q", s, got, StandardDimensionNames[i])
		}
	}
}

func TestAverageScoreAndRounding(t *testing.T) {
	avg := AverageScore([]int{2, 4, 6, 8, 10})
	if avg != 6.0 {
		t.Fatalf("expected 6.0, got %v", avg)
	}
	e := &ScaryEntity{AverageAIScore: &avg}
	if got := *e.RoundedAIScore(); got != 6.0 {
		t.Fatalf("expected rounded 6.0, got %v", got)
	}
	odd := AverageScore([]int{7, 7, 8, 3, 1})
	e.AverageAIScore = &odd
	if got := *e.RoundedAIScore(); got != 5.2 {
		t.Fatalf("expected 5.2, got %v", got)
	}
	if AverageScore(nil) != 0 {
		t.Fatalf("expected zero average for no scores")
	}
}

func TestSuitability(t *testing.T) {
	cases := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"movie type", Candidate{Name: "Annabelle", Types: []string{"Movie"}}, true},
		{"type substring", Candidate{Name: "X", Types: []string{"TVSeriesEpisode"}}, true},
		{"keyword in description", Candidate{Name: "Bell Witch", Types: []string{"Organization"}, Description: "Haunted legend"}, true},
		{"keyword in detail", Candidate{Name: "Y", DetailedDescription: "a zombie outbreak"}, true},
		{"plain organization", Candidate{Name: "Acme Corp", Types: []string{"Organization"}, Description: "Tooling company"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.IsSuitable(); got != tc.want {
				t.Fatalf("IsSuitable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCandidateFromEntityKeepsAllTypes(t *testing.T) {
	e := &ScaryEntity{GoogleKGID: "kg:7", Name: "Crimson Peak", EntityType: "CreativeWork", EntityTypes: []string{"CreativeWork", "Movie"}}
	c := CandidateFromEntity(e)
	if len(c.Types) != 2 || !c.IsSuitable() {
		t.Fatalf("expected both stored types to survive, got %v", c.Types)
	}
	e.EntityTypes = nil
	if c := CandidateFromEntity(e); len(c.Types) != 1 || c.Types[0] != "CreativeWork" {
		t.Fatalf("expected primary type fallback, got %v", c.Types)
	}
}

func TestNeedsRepair(t *testing.T) {
	now := time.Now()
	threshold := 5 * time.Minute

	fresh := &ScaryEntity{IsGenerating: true, UpdatedAt: now.Add(-time.Minute)}
	if fresh.NeedsRepair(now, threshold) {
		t.Fatalf("fresh lease must not be repaired")
	}
	stale := &ScaryEntity{IsGenerating: true, UpdatedAt: now.Add(-6 * time.Minute)}
	if !stale.NeedsRepair(now, threshold) {
		t.Fatalf("stale lease must be repaired")
	}
	failed := &ScaryEntity{IsGenerating: false, UpdatedAt: now}
	if !failed.NeedsRepair(now, threshold) {
		t.Fatalf("terminal failure must be repaired")
	}
	ready := &ScaryEntity{Analysis: &ScaryAnalysis{}}
	if ready.NeedsRepair(now, threshold) {
		t.Fatalf("ready entity must not be repaired")
	}
}

func TestEnrichmentColumnsOnlyTouchRequestedNamespaces(t *testing.T) {
	id := 42
	var e Enrichment
	other := Enrichment{TMDB: MovieData{TMDBID: &id}}
	e.Merge(NamespaceTMDB, other)
	if ns := e.Namespaces(); len(ns) != 1 || ns[0] != NamespaceTMDB {
		t.Fatalf("unexpected namespaces %v", ns)
	}
	cols := e.Columns(NamespaceTMDB)
	if _, ok := cols["tmdb_id"]; !ok {
		t.Fatalf("expected tmdb_id column")
	}
	for k := range cols {
		if len(k) < 5 || k[:5] != "tmdb_" {
			t.Fatalf("column %q outside tmdb namespace", k)
		}
	}
	if !e.Wikipedia.IsEmpty() || !e.GoogleBooks.IsEmpty() || !e.MusicBrainz.IsEmpty() {
		t.Fatalf("merge leaked into other namespaces")
	}
}
