package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxBodyBytes = 4 << 20

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d from %s", e.StatusCode, e.URL)
}

func (e *StatusError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// JSONClient performs GET requests against JSON APIs with bounded retries.
type JSONClient struct {
	HTTP       *http.Client
	UserAgent  string
	Header     http.Header
	MaxRetries int
}

func NewJSONClient(timeout time.Duration, userAgent string) *JSONClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &JSONClient{
		HTTP:       &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		MaxRetries: 1,
	}
}

func (c *JSONClient) GetJSON(ctx context.Context, rawURL string, out any) error {
	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		resp, err := c.getOnce(ctx, rawURL, out)
		if err == nil {
			return nil
		}
		if attempt >= c.MaxRetries || !IsRetryableError(err) {
			return err
		}
		wait := JitterSleep(RetryAfterDuration(resp, backoff, 5*time.Second))
		if sErr := Sleep(ctx, wait); sErr != nil {
			return err
		}
		backoff *= 2
	}
}

func (c *JSONClient) getOnce(ctx context.Context, rawURL string, out any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, vals := range c.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		// url.Error embeds the full URL, and query strings may carry api keys.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = fmt.Errorf("get %s%s: %w", req.URL.Host, req.URL.Path, ue.Err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := string(raw)
		if len(body) > 512 {
			body = body[:512]
		}
		return resp, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Host + req.URL.Path, Body: body}
	}
	if out == nil {
		return resp, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return resp, nil
}
