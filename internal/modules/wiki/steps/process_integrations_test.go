package steps

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/yungbote/howscary-backend/internal/data/repos/testutil"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
)

func wikiData(title string) types.Enrichment {
	return types.Enrichment{Wikipedia: types.EncyclopediaData{URL: strPtr("https://en.wikipedia.org/wiki/" + title)}}
}

func TestProcessIntegrationsIsolatesProviderFailures(t *testing.T) {
	handlers := map[string]integrations.Handler{
		integrations.KeyTMDB: {
			Namespace: types.NamespaceTMDB,
			ResolveByTitle: func(context.Context, string, integrations.Hints) (*types.Enrichment, error) {
				panic("boom")
			},
		},
		integrations.KeyGoogleBooks: {
			Namespace: types.NamespaceGoogleBooks,
			ResolveByTitle: func(context.Context, string, integrations.Hints) (*types.Enrichment, error) {
				return nil, errors.New("403 forbidden")
			},
		},
		integrations.KeyWikipedia: {
			Namespace: types.NamespaceWikipedia,
			ResolveByTitle: func(context.Context, string, integrations.Hints) (*types.Enrichment, error) {
				e := wikiData("Annabelle")
				return &e, nil
			},
		},
	}
	deps := ProcessIntegrationsDeps{Log: testutil.Logger(t), Registry: testRegistry(t, handlers)}
	sels := []integrations.Selection{
		{Key: integrations.KeyTMDB, Confidence: 0.9, Reasoning: "r", Hints: &integrations.Hints{}},
		{Key: integrations.KeyGoogleBooks, Confidence: 0.9, Reasoning: "r", Hints: &integrations.Hints{}},
		{Key: integrations.KeyIGDB, Confidence: 0.9, Reasoning: "r", Hints: &integrations.Hints{}},
		{Key: integrations.KeyWikipedia, Confidence: 0.9, Reasoning: "r", Hints: &integrations.Hints{}},
	}
	out := ProcessIntegrations(context.Background(), deps, types.Candidate{ID: "kg:1", Name: "Annabelle"}, sels)
	if !reflect.DeepEqual(out.Applied, []string{types.NamespaceWikipedia}) {
		t.Fatalf("expected only wikipedia applied, got %v", out.Applied)
	}
	if !out.Enrichment.TMDB.IsEmpty() || !out.Enrichment.GoogleBooks.IsEmpty() {
		t.Fatalf("failed providers must leave their namespaces empty")
	}
	if out.Enrichment.Wikipedia.URL == nil {
		t.Fatalf("expected wikipedia data")
	}
}

func TestProcessIntegrationsPrefersIDAndSupplementsHints(t *testing.T) {
	var byID, byTitle atomic.Int32
	var seen integrations.Hints
	handlers := map[string]integrations.Handler{
		integrations.KeyTMDB: {
			Namespace: types.NamespaceTMDB,
			ResolveByTitle: func(_ context.Context, title string, h integrations.Hints) (*types.Enrichment, error) {
				byTitle.Add(1)
				seen = h
				return &types.Enrichment{TMDB: types.MovieData{URL: strPtr(title)}}, nil
			},
			ResolveByID: func(_ context.Context, id string) (*types.Enrichment, error) {
				byID.Add(1)
				return &types.Enrichment{TMDB: types.MovieData{URL: strPtr("id:" + id)}}, nil
			},
			IDHint: func(h integrations.Hints) string { return h.TMDBID },
		},
	}
	deps := ProcessIntegrationsDeps{Log: testutil.Logger(t), Registry: testRegistry(t, handlers)}
	c := types.Candidate{ID: "kg:1", Name: "Annabelle", Description: "2014 horror film"}

	out := ProcessIntegrations(context.Background(), deps, c, []integrations.Selection{
		{Key: integrations.KeyTMDB, Hints: &integrations.Hints{TMDBID: "250546"}},
	})
	if byID.Load() != 1 || byTitle.Load() != 0 || *out.Enrichment.TMDB.URL != "id:250546" {
		t.Fatalf("expected id lookup only, got id=%d title=%d", byID.Load(), byTitle.Load())
	}

	ProcessIntegrations(context.Background(), deps, c, []integrations.Selection{
		{Key: integrations.KeyTMDB, Hints: &integrations.Hints{}},
	})
	if byTitle.Load() != 1 || seen.Year != "2014" {
		t.Fatalf("expected title lookup with extracted year, got %+v", seen)
	}
}

func TestProcessIntegrationsPicksEncyclopediaCandidate(t *testing.T) {
	var titleCalls atomic.Int32
	handlers := map[string]integrations.Handler{
		integrations.KeyWikipedia: {
			Namespace: types.NamespaceWikipedia,
			ResolveByTitle: func(context.Context, string, integrations.Hints) (*types.Enrichment, error) {
				titleCalls.Add(1)
				e := wikiData("Fallback")
				return &e, nil
			},
			Candidates: func(context.Context, string, int) ([]integrations.Option, error) {
				return []integrations.Option{
					{Title: "Annabelle (doll)", Data: wikiData("Annabelle_(doll)")},
					{Title: "Annabelle (film)", Data: wikiData("Annabelle_(film)")},
				}, nil
			},
		},
	}
	c := types.Candidate{ID: "kg:1", Name: "Annabelle", Description: "2014 horror film"}
	sel := []integrations.Selection{{Key: integrations.KeyWikipedia, Hints: &integrations.Hints{}}}

	gen := &fakeAI{pick: "The best match is 2."}
	deps := ProcessIntegrationsDeps{Log: testutil.Logger(t), Registry: testRegistry(t, handlers), AI: gen}
	out := ProcessIntegrations(context.Background(), deps, c, sel)
	if got := *out.Enrichment.Wikipedia.URL; got != "https://en.wikipedia.org/wiki/Annabelle_(film)" {
		t.Fatalf("expected picked article, got %s", got)
	}

	gen.pick = "7"
	out = ProcessIntegrations(context.Background(), deps, c, sel)
	if got := *out.Enrichment.Wikipedia.URL; got != "https://en.wikipedia.org/wiki/Fallback" || titleCalls.Load() != 1 {
		t.Fatalf("expected title fallback on out-of-range pick, got %s", got)
	}
}

func TestProcessManualIntegration(t *testing.T) {
	var seen integrations.Hints
	handlers := map[string]integrations.Handler{
		integrations.KeyWikipedia: {
			Namespace: types.NamespaceWikipedia,
			ResolveByID: func(_ context.Context, id string) (*types.Enrichment, error) {
				e := wikiData(id)
				return &e, nil
			},
			IDHint: func(h integrations.Hints) string {
				seen = h
				return h.WikipediaPageID
			},
		},
	}
	deps := ProcessIntegrationsDeps{Log: testutil.Logger(t), Registry: testRegistry(t, handlers)}
	c := types.Candidate{ID: "kg:1", Name: "Annabelle"}

	out, err := ProcessManualIntegration(context.Background(), deps, c, integrations.KeyWikipedia, "42")
	if err != nil {
		t.Fatalf("ProcessManualIntegration: %v", err)
	}
	if seen.ArticleTitle != "Annabelle" || seen.WikipediaPageID != "42" {
		t.Fatalf("unexpected manual hints %+v", seen)
	}
	if len(out.Applied) != 1 {
		t.Fatalf("expected wikipedia applied, got %v", out.Applied)
	}

	for _, key := range []string{"imaginary", integrations.KeyIGDB} {
		if _, err := ProcessManualIntegration(context.Background(), deps, c, key, ""); !errors.Is(err, types.ErrUnknownIntegration) {
			t.Fatalf("%s: expected ErrUnknownIntegration, got %v", key, err)
		}
	}
}
