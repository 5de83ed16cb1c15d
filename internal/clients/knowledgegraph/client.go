package knowledgegraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/platform/httpx"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://enterpriseknowledgegraph.googleapis.com/v1"
	scope          = "https://www.googleapis.com/auth/cloud-platform"
	defaultLimit   = 10
)

// Searcher resolves free-text queries into candidate entities.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.Candidate, error)
}

// EntityLookup resolves a single knowledge-graph ID.
type EntityLookup interface {
	Lookup(ctx context.Context, id string) (*types.Candidate, error)
}

type Config struct {
	ProjectID   string
	Location    string
	Timeout     time.Duration
	CacheSize   int
	CacheTTL    time.Duration
	BaseURL     string
	TokenSource oauth2.TokenSource
}

type Client struct {
	log     *logger.Logger
	http    *httpx.JSONClient
	baseURL string
	project string
	loc     string
	cache   *expirable.LRU[string, []types.Candidate]
}

// NewClient uses application default credentials unless cfg.TokenSource is set.
func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("missing GOOGLE_CLOUD_PROJECT")
	}
	ts := cfg.TokenSource
	if ts == nil {
		var err error
		ts, err = google.DefaultTokenSource(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("knowledge graph credentials: %w", err)
		}
	}
	if cfg.Location == "" {
		cfg.Location = "global"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 512
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	hc := httpx.NewJSONClient(cfg.Timeout, "")
	hc.HTTP = &http.Client{
		Timeout:   hc.HTTP.Timeout,
		Transport: &oauth2.Transport{Source: oauth2.ReuseTokenSource(nil, ts)},
	}
	return &Client{
		log:     log.With("client", "KnowledgeGraphClient"),
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		project: cfg.ProjectID,
		loc:     cfg.Location,
		cache:   expirable.NewLRU[string, []types.Candidate](cfg.CacheSize, nil, cfg.CacheTTL),
	}, nil
}

type searchResponse struct {
	ItemListElement []struct {
		Result entityResult `json:"result"`
	} `json:"itemListElement"`
}

type entityResult struct {
	ID          string     `json:"@id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        stringList `json:"@type"`
	Image       *struct {
		ContentURL string `json:"contentUrl"`
	} `json:"image"`
	DetailedDescription *struct {
		ArticleBody string `json:"articleBody"`
	} `json:"detailedDescription"`
}

// stringList accepts either a JSON string or an array of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = []string{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Search returns up to ten candidates for query. Results are cached per query.
func (c *Client) Search(ctx context.Context, query string) ([]types.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	key := strings.ToLower(query)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(defaultLimit))
	endpoint := fmt.Sprintf("%s/projects/%s/locations/%s/cloudKnowledgeGraphEntities:Search?%s",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(c.loc), q.Encode())

	var res searchResponse
	if err := c.http.GetJSON(ctx, endpoint, &res); err != nil {
		return nil, fmt.Errorf("knowledge graph search: %w", err)
	}
	out := make([]types.Candidate, 0, len(res.ItemListElement))
	for _, item := range res.ItemListElement {
		out = append(out, toCandidate(item.Result))
	}
	c.cache.Add(key, out)
	return out, nil
}

// Lookup fetches one entity by its knowledge-graph ID. A missing entity
// returns (nil, nil).
func (c *Client) Lookup(ctx context.Context, id string) (*types.Candidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Add("ids", id)
	endpoint := fmt.Sprintf("%s/projects/%s/locations/%s/cloudKnowledgeGraphEntities:Lookup?%s",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(c.loc), q.Encode())

	var res searchResponse
	if err := c.http.GetJSON(ctx, endpoint, &res); err != nil {
		return nil, fmt.Errorf("knowledge graph lookup: %w", err)
	}
	for _, item := range res.ItemListElement {
		if item.Result.ID == id {
			cand := toCandidate(item.Result)
			return &cand, nil
		}
	}
	return nil, nil
}

func toCandidate(r entityResult) types.Candidate {
	c := types.Candidate{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Types:       []string(r.Type),
	}
	if c.Name == "" {
		c.Name = "Unknown"
	}
	if r.Image != nil {
		c.ImageURL = r.Image.ContentURL
	}
	if r.DetailedDescription != nil {
		c.DetailedDescription = r.DetailedDescription.ArticleBody
	}
	return c
}
