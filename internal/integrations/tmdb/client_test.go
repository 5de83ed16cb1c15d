package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func TestFindByTitleFetchesDetailsOfFirstResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k" {
			t.Errorf("missing api key")
		}
		switch r.URL.Path {
		case "/search/movie":
			if r.URL.Query().Get("year") != "2014" {
				t.Errorf("expected year filter, got %q", r.URL.Query().Get("year"))
			}
			_, _ = w.Write([]byte(`{"results":[{"id":250546,"title":"Annabelle"},{"id":1,"title":"Other"}]}`))
		case "/movie/250546":
			_, _ = w.Write([]byte(`{"id":250546,"title":"Annabelle","poster_path":"/p.jpg","backdrop_path":null,"release_date":"2014-10-02","runtime":99,"imdb_id":"tt3322940"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(logger.Nop(), "k", time.Second)
	c.BaseURL = srv.URL
	m, err := c.FindByTitle(context.Background(), "Annabelle", "2014")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if m == nil || m.ID != 250546 || m.Runtime != 99 {
		t.Fatalf("unexpected movie %+v", m)
	}
	if got := PosterURL(m.PosterPath); got != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Fatalf("poster url %q", got)
	}
	if got := BackdropURL(m.BackdropPath); got != "" {
		t.Fatalf("expected empty backdrop, got %q", got)
	}
	if got := IMDbURL(m.IMDbID); got != "https://www.imdb.com/title/tt3322940/" {
		t.Fatalf("imdb url %q", got)
	}
}

func TestFindByTitleNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()
	c := NewClient(logger.Nop(), "k", time.Second)
	c.BaseURL = srv.URL
	m, err := c.FindByTitle(context.Background(), "Nothing", "")
	if err != nil || m != nil {
		t.Fatalf("expected nil,nil got %v %v", m, err)
	}
}

func TestGetMovieNotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := NewClient(logger.Nop(), "k", time.Second)
	c.BaseURL = srv.URL
	m, err := c.GetMovie(context.Background(), 42)
	if err != nil || m != nil {
		t.Fatalf("expected nil,nil got %v %v", m, err)
	}
}

func TestUnconfiguredClientErrors(t *testing.T) {
	c := NewClient(logger.Nop(), "", time.Second)
	if _, err := c.FindByTitle(context.Background(), "x", ""); err == nil {
		t.Fatalf("expected error without api key")
	}
}
