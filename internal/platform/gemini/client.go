package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"github.com/yungbote/howscary-backend/internal/platform/envutil"
	"github.com/yungbote/howscary-backend/internal/platform/httpx"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

// Client wraps the genai SDK for plain text generation. It satisfies ai.Generator.
type Client struct {
	cli        *genai.Client
	log        *logger.Logger
	model      string
	maxRetries int
	timeout    time.Duration
}

func NewClient(ctx context.Context, log *logger.Logger) (*Client, error) {
	apiKey := envutil.String("GEMINI_API_KEY", envutil.String("GOOGLE_API_KEY", ""))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	// GEMINI_BASE_URL points the SDK at a proxy or a local fake.
	if baseURL := strings.TrimRight(envutil.String("GEMINI_BASE_URL", ""), "/"); baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL + "/"}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Client{
		cli:        cli,
		log:        log.With("service", "GeminiClient"),
		model:      envutil.String("GEMINI_MODEL", "gemini-2.0-flash"),
		maxRetries: envutil.Int("GEMINI_MAX_RETRIES", 2),
		timeout:    envutil.Seconds("GEMINI_TIMEOUT_SECONDS", 90*time.Second),
	}, nil
}

func (c *Client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.4)}
	if strings.TrimSpace(system) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: user}}}}

	backoff := time.Second
	for attempt := 0; ; attempt++ {
		text, err := c.generateOnce(ctx, contents, cfg)
		if err == nil {
			return text, nil
		}
		if attempt >= c.maxRetries || !retryable(err) {
			return "", err
		}
		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("Gemini request retrying", "attempt", attempt+1, "sleep", sleepFor.String(), "error", err)
		if sErr := httpx.Sleep(ctx, sleepFor); sErr != nil {
			return "", err
		}
		backoff *= 2
	}
}

func (c *Client) generateOnce(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.cli.Models.GenerateContent(callCtx, c.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

func retryable(err error) bool {
	if httpx.IsRetryableError(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"resource_exhausted", "unavailable", "deadline_exceeded", "error 429", "error 503"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
