package googlebooks

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/httpx"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1"

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
	ExtraLarge     string `json:"extraLarge"`
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		PageCount           int      `json:"pageCount"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks *imageLinks `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// Book is a volume flattened into the fields the wiki keeps.
type Book struct {
	ID          string
	Title       string
	Authors     []string
	Publishers  []string
	PublishDate string
	PageCount   int
	ISBN10      string
	ISBN13      string
	CoverLarge  string
	CoverMedium string
	CoverSmall  string
}

type Client struct {
	BaseURL string
	apiKey  string
	http    *httpx.JSONClient
	log     *logger.Logger
}

// NewClient builds a client. The API key is optional for Google Books.
func NewClient(log *logger.Logger, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    httpx.NewJSONClient(timeout, ""),
		log:     log.With("client", "GoogleBooksClient"),
	}
}

// FindByTitle prefers the first volume credited to author, else the first result.
func (c *Client) FindByTitle(ctx context.Context, title, author string) (*Book, error) {
	query := title
	if author = strings.TrimSpace(author); author != "" {
		query = title + " inauthor:" + author
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", "10")
	q.Set("printType", "books")
	q.Set("orderBy", "relevance")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	var res searchResponse
	if err := c.http.GetJSON(ctx, c.BaseURL+"/volumes?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("google books search: %w", err)
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	best := res.Items[0]
	if author != "" && len(res.Items) > 1 {
		want := strings.ToLower(author)
	outer:
		for _, v := range res.Items {
			for _, a := range v.VolumeInfo.Authors {
				if strings.Contains(strings.ToLower(a), want) {
					best = v
					break outer
				}
			}
		}
	}
	b := toBook(best)
	return &b, nil
}

// GetByID fetches a single volume. A 404 is (nil, nil).
func (c *Client) GetByID(ctx context.Context, id string) (*Book, error) {
	u := c.BaseURL + "/volumes/" + url.PathEscape(id)
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	var v volume
	if err := c.http.GetJSON(ctx, u, &v); err != nil {
		if httpx.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("google books volume %s: %w", id, err)
	}
	b := toBook(v)
	return &b, nil
}

func toBook(v volume) Book {
	info := v.VolumeInfo
	b := Book{
		ID:          v.ID,
		Title:       info.Title,
		Authors:     info.Authors,
		PublishDate: info.PublishedDate,
		PageCount:   info.PageCount,
	}
	if info.Publisher != "" {
		b.Publishers = []string{info.Publisher}
	}
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_10":
			if b.ISBN10 == "" {
				b.ISBN10 = id.Identifier
			}
		case "ISBN_13":
			if b.ISBN13 == "" {
				b.ISBN13 = id.Identifier
			}
		}
	}
	if l := info.ImageLinks; l != nil {
		b.CoverSmall = cleanURL(first(l.SmallThumbnail, l.Thumbnail))
		b.CoverMedium = cleanURL(first(l.Thumbnail, l.Small, l.Medium))
		b.CoverLarge = cleanURL(first(l.Large, l.ExtraLarge, l.Medium, l.Thumbnail))
	}
	return b
}

func cleanURL(u string) string {
	u = strings.Replace(u, "http://", "https://", 1)
	return strings.Replace(u, "&edge=curl", "", 1)
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func BookURL(id string) string {
	return "https://books.google.com/books?id=" + url.QueryEscape(id)
}
