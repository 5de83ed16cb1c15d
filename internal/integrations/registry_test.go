package integrations

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLoadCatalogHasAllProviders(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	want := []string{KeyTMDB, KeyGoogleMaps, KeyMusicBrainz, KeyIGDB, KeyGoogleBooks, KeyWikipedia}
	if len(catalog) != len(want) {
		t.Fatalf("expected %d providers, got %d", len(want), len(catalog))
	}
	for i, key := range want {
		if catalog[i].Key != key {
			t.Fatalf("provider %d: got %q want %q", i, catalog[i].Key, key)
		}
		if len(catalog[i].EntityTypes) == 0 {
			t.Fatalf("provider %s has no entity types", key)
		}
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	_, err := parseCatalog([]byte("catalog: integrations\nproviders:\n  - key: a\n  - key: a\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := parseCatalog([]byte("catalog: other\nproviders:\n  - key: a\n")); err == nil {
		t.Fatalf("expected catalog name check")
	}
}

func TestAvailableRequiresCredential(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	env := map[string]string{"TMDB_API_KEY": "k"}
	r := NewRegistry(catalog, nil, func(k string) string { return env[k] })

	got := map[string]bool{}
	for _, p := range r.Available() {
		got[p.Key] = true
	}
	for _, key := range []string{KeyTMDB, KeyMusicBrainz, KeyGoogleBooks, KeyWikipedia} {
		if !got[key] {
			t.Fatalf("expected %s available", key)
		}
	}
	if got[KeyGoogleMaps] || got[KeyIGDB] {
		t.Fatalf("providers without credentials must be unavailable: %v", got)
	}
	if r.IsAvailable("unknown") {
		t.Fatalf("unknown key must be unavailable")
	}
	if _, ok := r.Handler(KeyIGDB); ok {
		t.Fatalf("igdb has no handler")
	}
}

func TestPromptLines(t *testing.T) {
	got := PromptLines([]Provider{{Key: "tmdb", Name: "The Movie Database", EntityTypes: []string{"movies", "films"}}})
	if got != "tmdb: The Movie Database - Relevant for: movies, films" {
		t.Fatalf("got %q", got)
	}
}

func TestHintsAcceptLooseJSON(t *testing.T) {
	var h Hints
	if err := json.Unmarshal([]byte(`{"year":2014,"articleTitle":" Annabelle (film) ","tmdbId":250546,"extra":true}`), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.Year != "2014" || h.ArticleTitle != "Annabelle (film)" || h.TMDBID != "250546" {
		t.Fatalf("unexpected hints %+v", h)
	}
}

func TestManualIDHints(t *testing.T) {
	if h := ManualIDHints(KeyWikipedia, "12345", Hints{}); h.WikipediaPageID != "12345" || h.WikipediaTitle != "" {
		t.Fatalf("numeric wikipedia id: %+v", h)
	}
	if h := ManualIDHints(KeyWikipedia, "It (novel)", Hints{}); h.WikipediaTitle != "It (novel)" {
		t.Fatalf("titled wikipedia id: %+v", h)
	}
	if h := ManualIDHints(KeyTMDB, "42", Hints{}); h.TMDBID != "42" {
		t.Fatalf("tmdb id: %+v", h)
	}
}

func TestSupplementFromDescription(t *testing.T) {
	h := Supplement(Hints{Author: "Given"}, "1986 horror novel written by Stephen King, performed by The Dread Ensemble")
	if h.Year != "1986" {
		t.Fatalf("year %q", h.Year)
	}
	if h.Author != "Given" {
		t.Fatalf("existing hints must win, got %q", h.Author)
	}
	if h.Artist != "Stephen King" {
		t.Fatalf("artist %q", h.Artist)
	}
	if got := ExtractAuthor("a novel by Shirley Jackson"); got != "Shirley Jackson" {
		t.Fatalf("author %q", got)
	}
	if got := ExtractYear("released in 20245"); got != "" {
		t.Fatalf("year must be a whole word, got %q", got)
	}
}
