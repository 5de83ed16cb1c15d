package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const searchBody = `{"totalItems":2,"items":[
 {"id":"a1","volumeInfo":{"title":"It","authors":["Someone Else"]}},
 {"id":"b2","volumeInfo":{"title":"It","authors":["Stephen King"],"publisher":"Viking","publishedDate":"1986",
  "pageCount":1138,
  "industryIdentifiers":[{"type":"ISBN_10","identifier":"0670813028"},{"type":"ISBN_13","identifier":"9780670813025"}],
  "imageLinks":{"smallThumbnail":"http://books.google.com/s?id=b2&edge=curl","thumbnail":"http://books.google.com/t?id=b2&edge=curl"}}}
]}`

func TestFindByTitlePrefersAuthorMatchAndCleansURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "It inauthor:Stephen King" {
			t.Errorf("unexpected query %q", got)
		}
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient(logger.Nop(), "", time.Second)
	c.BaseURL = srv.URL
	b, err := c.FindByTitle(context.Background(), "It", "Stephen King")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if b == nil || b.ID != "b2" {
		t.Fatalf("expected author match b2, got %+v", b)
	}
	if b.ISBN10 != "0670813028" || b.ISBN13 != "9780670813025" {
		t.Fatalf("isbn not extracted: %+v", b)
	}
	if b.CoverLarge != "https://books.google.com/t?id=b2" {
		t.Fatalf("large cover %q", b.CoverLarge)
	}
	if b.CoverMedium != "https://books.google.com/t?id=b2" {
		t.Fatalf("medium cover %q", b.CoverMedium)
	}
	if len(b.Publishers) != 1 || b.Publishers[0] != "Viking" {
		t.Fatalf("publishers %v", b.Publishers)
	}
}

func TestFindByTitleWithoutAuthorTakesFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()
	c := NewClient(logger.Nop(), "", time.Second)
	c.BaseURL = srv.URL
	b, err := c.FindByTitle(context.Background(), "It", "")
	if err != nil || b == nil || b.ID != "a1" {
		t.Fatalf("expected first result, got %+v %v", b, err)
	}
}

func TestFindByTitleEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	defer srv.Close()
	c := NewClient(logger.Nop(), "", time.Second)
	c.BaseURL = srv.URL
	b, err := c.FindByTitle(context.Background(), "none", "")
	if err != nil || b != nil {
		t.Fatalf("expected nil,nil got %v %v", b, err)
	}
}

func TestBookURL(t *testing.T) {
	if got := BookURL("b2"); got != "https://books.google.com/books?id=b2" {
		t.Fatalf("got %q", got)
	}
}
