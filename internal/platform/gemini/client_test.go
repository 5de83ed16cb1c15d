package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func fakeGemini(t *testing.T, handle func(w http.ResponseWriter, call int32, body map[string]any)) *httptest.Server {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" && r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key")
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		handle(w, atomic.AddInt32(&calls, 1), body)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("GEMINI_MODEL", "gemini-test")
	return srv
}

func TestGenerateTextRetriesUnavailable(t *testing.T) {
	var seenSystem atomic.Bool
	fakeGemini(t, func(w http.ResponseWriter, call int32, body map[string]any) {
		if raw, _ := json.Marshal(body["systemInstruction"]); strings.Contains(string(raw), "be terse") {
			seenSystem.Store(true)
		}
		if call == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"model overloaded","status":"UNAVAILABLE"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello"}]}}]}`))
	})
	t.Setenv("GEMINI_MAX_RETRIES", "1")

	c, err := NewClient(context.Background(), logger.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := c.GenerateText(context.Background(), "be terse", "say hello")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != "hello" {
		t.Fatalf("expected hello, got %q", out)
	}
	if !seenSystem.Load() {
		t.Fatalf("system instruction not sent")
	}
}

func TestGenerateTextRejectsEmptyCandidates(t *testing.T) {
	fakeGemini(t, func(w http.ResponseWriter, _ int32, _ map[string]any) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})
	t.Setenv("GEMINI_MAX_RETRIES", "0")

	c, err := NewClient(context.Background(), logger.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.GenerateText(context.Background(), "", "anything"); err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("expected no candidates error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	if _, err := NewClient(context.Background(), logger.Nop()); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestRetryableClassifiesQuotaErrors(t *testing.T) {
	if !retryable(errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED")) {
		t.Fatalf("quota errors should retry")
	}
	if retryable(errors.New("Error 400, Message: bad request, Status: INVALID_ARGUMENT")) {
		t.Fatalf("bad requests must not retry")
	}
}
