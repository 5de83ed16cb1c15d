package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/httpx"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	imageBase      = "https://image.tmdb.org/t/p"
)

type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	Homepage     string  `json:"homepage"`
	IMDbID       string  `json:"imdb_id"`
}

type searchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type Client struct {
	BaseURL string
	apiKey  string
	http    *httpx.JSONClient
	log     *logger.Logger
}

func NewClient(log *logger.Logger, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    httpx.NewJSONClient(timeout, ""),
		log:     log.With("client", "TMDBClient"),
	}
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// FindByTitle searches movies by title (and release year, when known) and
// returns the details of the first result. (nil, nil) means no match.
func (c *Client) FindByTitle(ctx context.Context, title, year string) (*Movie, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tmdb api key not configured")
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	q.Set("language", "en-US")
	q.Set("page", "1")
	if year = strings.TrimSpace(year); year != "" {
		q.Set("year", year)
	}
	var res searchResponse
	if err := c.http.GetJSON(ctx, c.BaseURL+"/search/movie?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}
	if len(res.Results) == 0 {
		return nil, nil
	}
	return c.GetMovie(ctx, res.Results[0].ID)
}

// GetMovie fetches a movie by its TMDB ID. A 404 is (nil, nil).
func (c *Client) GetMovie(ctx context.Context, id int) (*Movie, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tmdb api key not configured")
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	var m Movie
	if err := c.http.GetJSON(ctx, c.BaseURL+"/movie/"+strconv.Itoa(id)+"?"+q.Encode(), &m); err != nil {
		if httpx.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tmdb movie %d: %w", id, err)
	}
	return &m, nil
}

func PosterURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return imageBase + "/w500" + *path
}

func BackdropURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return imageBase + "/w1280" + *path
}

func MovieURL(id int) string {
	return "https://www.themoviedb.org/movie/" + strconv.Itoa(id)
}

func IMDbURL(imdbID string) string {
	if imdbID == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + imdbID + "/"
}
