package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func TestPickCoverPrefersFrontThenApproved(t *testing.T) {
	images := []coverImage{
		{Image: "a", Approved: false},
		{Image: "b", Approved: true},
		{Image: "c", Front: true},
	}
	if got := pickCover(images); got == nil || got.Image != "c" {
		t.Fatalf("expected front image, got %+v", got)
	}
	if got := pickCover(images[:2]); got == nil || got.Image != "b" {
		t.Fatalf("expected approved image, got %+v", got)
	}
	if got := pickCover(images[:1]); got == nil || got.Image != "a" {
		t.Fatalf("expected first image, got %+v", got)
	}
	if pickCover(nil) != nil {
		t.Fatalf("expected nil for no images")
	}
}

func TestFindByTitlePrefersArtistAndReadsCoverArt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/2/release", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("missing user agent")
		}
		q := r.URL.Query().Get("query")
		if !strings.Contains(q, `release:"Ghost Stories"`) || !strings.Contains(q, `artist:"Ghost"`) {
			t.Errorf("unexpected query %q", q)
		}
		_, _ = w.Write([]byte(`{"releases":[
			{"id":"r1","title":"Ghost Stories","artist-credit":[{"name":"Coldplay","artist":{"id":"x","name":"Coldplay"}}]},
			{"id":"r2","title":"Ghost Stories","date":"2019","track-count":9,"release-group":{"primary-type":"Album"},
			 "artist-credit":[{"name":"Ghost","artist":{"id":"g","name":"Ghost"}}]}]}`))
	})
	mux.HandleFunc("/caa/release/r2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images":[{"image":"full.jpg","front":true,"thumbnails":{"250":"s.jpg","500":"m.jpg"}}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(logger.Nop(), time.Second)
	c.BaseURL = srv.URL + "/ws/2"
	c.CoverArtURL = srv.URL + "/caa"
	m, err := c.FindByTitle(context.Background(), "Ghost Stories", "Ghost")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if m == nil || m.ID != "r2" || m.Type != "album" || m.TrackCount != 9 {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.ArtLarge != "full.jpg" || m.ArtMedium != "m.jpg" || m.ArtSmall != "s.jpg" {
		t.Fatalf("unexpected art %+v", m)
	}
	if got := PageURL(m); got != "https://musicbrainz.org/release/r2" {
		t.Fatalf("page url %q", got)
	}
}

func TestFindByTitleFallsBackToRecording(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/release", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"releases":[]}`))
	})
	mux.HandleFunc("/recording", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recordings":[{"id":"rec1","title":"Thriller","artist-credit":[{"name":"Michael Jackson","artist":{"id":"mj","name":"Michael Jackson"}}]}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(logger.Nop(), time.Second)
	c.BaseURL = srv.URL
	m, err := c.FindByTitle(context.Background(), "Thriller", "")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if m == nil || !m.IsRecording() || m.Artists[0] != "Michael Jackson" {
		t.Fatalf("unexpected recording %+v", m)
	}
	if got := PageURL(m); got != "https://musicbrainz.org/recording/rec1" {
		t.Fatalf("page url %q", got)
	}
}

func TestLastFMURL(t *testing.T) {
	if got := LastFMURL("Michael Jackson", "Thriller 25"); got != "https://www.last.fm/music/Michael+Jackson/Thriller+25" {
		t.Fatalf("got %q", got)
	}
}
