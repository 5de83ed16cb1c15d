package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/httpx"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"
	UserAgent      = "HowScaryWiki/1.0 (https://howscary.com)"

	defaultSearchLimit    = 3
	DefaultCandidateLimit = 5
	DefaultSummaryLength  = 1000
)

// Article is a resolved encyclopedia page.
type Article struct {
	PageID         int
	Title          string
	Extract        string
	URL            string
	ImageURL       string
	Categories     []string
	Disambiguation bool
}

type searchHit struct {
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
}

type page struct {
	PageID    int    `json:"pageid"`
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
	PageProps map[string]any `json:"pageprops"`
	Missing   *string        `json:"missing"`
}

type Client struct {
	BaseURL string
	http    *httpx.JSONClient
	log     *logger.Logger
}

func NewClient(log *logger.Logger, timeout time.Duration) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    httpx.NewJSONClient(timeout, UserAgent),
		log:     log.With("client", "WikipediaClient"),
	}
}

// FindByTitle searches for title and returns the first non-disambiguation
// page, trying an exact case-insensitive title match before the others.
func (c *Client) FindByTitle(ctx context.Context, title string) (*Article, error) {
	hits, err := c.search(ctx, title, defaultSearchLimit)
	if err != nil {
		return nil, err
	}
	for _, hit := range orderHits(hits, title) {
		a, err := c.pageByTitle(ctx, hit.Title)
		if err != nil {
			return nil, err
		}
		if a == nil {
			continue
		}
		if a.Disambiguation {
			c.log.Debug("Skipping disambiguation page", "title", a.Title)
			continue
		}
		return a, nil
	}
	return nil, nil
}

// GetByExactTitle fetches the page with exactly this title.
func (c *Client) GetByExactTitle(ctx context.Context, title string) (*Article, error) {
	return c.pageByTitle(ctx, title)
}

func (c *Client) GetByPageID(ctx context.Context, pageID int) (*Article, error) {
	q := pageQuery()
	q.Set("pageids", strconv.Itoa(pageID))
	return c.fetchPage(ctx, q)
}

// Candidates returns up to n non-disambiguation pages for query in search order.
func (c *Client) Candidates(ctx context.Context, query string, n int) ([]Article, error) {
	if n <= 0 {
		n = DefaultCandidateLimit
	}
	hits, err := c.search(ctx, query, n)
	if err != nil {
		return nil, err
	}
	out := make([]Article, 0, len(hits))
	for _, hit := range hits {
		a, err := c.pageByTitle(ctx, hit.Title)
		if err != nil {
			c.log.Warn("Wikipedia candidate fetch failed", "title", hit.Title, "error", err)
			continue
		}
		if a == nil || a.Disambiguation {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func orderHits(hits []searchHit, title string) []searchHit {
	out := make([]searchHit, 0, len(hits))
	for _, h := range hits {
		if strings.EqualFold(h.Title, title) {
			out = append(out, h)
		}
	}
	for _, h := range hits {
		if !strings.EqualFold(h.Title, title) {
			out = append(out, h)
		}
	}
	return out
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]searchHit, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", strconv.Itoa(limit))
	var res struct {
		Query struct {
			Search []searchHit `json:"search"`
		} `json:"query"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL+"?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}
	return res.Query.Search, nil
}

func pageQuery() url.Values {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "extracts|pageimages|description|categories|pageprops")
	q.Set("explaintext", "1")
	q.Set("exsectionformat", "plain")
	q.Set("exlimit", "1")
	q.Set("exchars", "2000")
	q.Set("piprop", "thumbnail")
	q.Set("pithumbsize", "500")
	q.Set("cllimit", "20")
	q.Set("clshow", "!hidden")
	return q
}

func (c *Client) pageByTitle(ctx context.Context, title string) (*Article, error) {
	q := pageQuery()
	q.Set("titles", title)
	return c.fetchPage(ctx, q)
}

func (c *Client) fetchPage(ctx context.Context, q url.Values) (*Article, error) {
	var res struct {
		Query struct {
			Pages map[string]page `json:"pages"`
		} `json:"query"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL+"?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("wikipedia page: %w", err)
	}
	for key, p := range res.Query.Pages {
		if key == "-1" || p.Missing != nil || p.PageID <= 0 {
			continue
		}
		return toArticle(p), nil
	}
	return nil, nil
}

func toArticle(p page) *Article {
	a := &Article{
		PageID:  p.PageID,
		Title:   p.Title,
		Extract: p.Extract,
		URL:     PageURL(p.Title),
	}
	if p.Thumbnail != nil {
		a.ImageURL = p.Thumbnail.Source
	}
	for _, cat := range p.Categories {
		name := strings.TrimPrefix(cat.Title, "Category:")
		a.Categories = append(a.Categories, name)
		if strings.Contains(strings.ToLower(name), "disambiguation") {
			a.Disambiguation = true
		}
	}
	if _, ok := p.PageProps["disambiguation"]; ok {
		a.Disambiguation = true
	}
	if strings.Contains(p.Extract, "may refer to:") {
		a.Disambiguation = true
	}
	return a
}

func PageURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

var (
	reTrailingSections = regexp.MustCompile(`(?i)\n\n(See also|References|External links|Further reading)`)
	reManyNewlines     = regexp.MustCompile(`\n{3,}`)
)

// ExtractSummary trims trailing reference sections and cuts the text to at
// most max runes, preferring to end on a sentence boundary.
func ExtractSummary(text string, max int) string {
	if text == "" {
		return ""
	}
	if max <= 0 {
		max = DefaultSummaryLength
	}
	if loc := reTrailingSections.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	if i := strings.Index(text, "may refer to:"); i >= 0 {
		text = text[:i] + "may refer to multiple things. Please specify which one you meant."
	}
	text = strings.TrimSpace(reManyNewlines.ReplaceAllString(text, "\n\n"))

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	truncated := string(runes[:max])
	lastPeriod := strings.LastIndex(truncated, ".")
	if lastPeriod >= 0 && float64(len([]rune(truncated[:lastPeriod]))) > float64(max)*0.8 {
		return truncated[:lastPeriod+1]
	}
	return truncated + "..."
}
