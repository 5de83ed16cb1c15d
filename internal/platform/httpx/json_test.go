package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSONDecodesAndSetsUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "ua-test" {
			t.Errorf("expected user agent, got %q", got)
		}
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	c := NewJSONClient(time.Second, "ua-test")
	var out struct {
		Name string `json:"name"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Name != "ok" {
		t.Fatalf("expected name=ok, got %q", out.Name)
	}
}

func TestGetJSONNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewJSONClient(time.Second, "")
	c.MaxRetries = 3
	err := c.GetJSON(context.Background(), srv.URL+"/x?api_key=secret", nil)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if se, ok := err.(*StatusError); ok && se.URL != "" && strings.Contains(se.URL, "secret") {
		t.Fatalf("query string leaked into error: %s", se.URL)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewJSONClient(time.Second, "")
	if err := c.GetJSON(context.Background(), srv.URL, &struct{}{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected two calls, got %d", calls)
	}
}
