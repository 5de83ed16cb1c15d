package musicbrainz

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/httpx"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const (
	DefaultBaseURL     = "https://musicbrainz.org/ws/2"
	DefaultCoverArtURL = "https://coverartarchive.org"
	UserAgent          = "HowScaryWiki/1.0 (https://howscary.com)"

	TypeRecording = "recording"
)

type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

type release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Date         string         `json:"date"`
	ReleaseGroup *struct {
		PrimaryType string `json:"primary-type"`
	} `json:"release-group"`
	TrackCount int `json:"track-count"`
}

type recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}

type coverImage struct {
	Image      string            `json:"image"`
	Thumbnails map[string]string `json:"thumbnails"`
	Approved   bool              `json:"approved"`
	Front      bool              `json:"front"`
}

// Music is a release or recording flattened into the fields the wiki keeps.
type Music struct {
	ID          string
	Title       string
	Artists     []string
	ReleaseDate string
	TrackCount  int
	Type        string
	ArtSmall    string
	ArtMedium   string
	ArtLarge    string
}

func (m *Music) IsRecording() bool { return m.Type == TypeRecording }

type Client struct {
	BaseURL     string
	CoverArtURL string
	http        *httpx.JSONClient
	log         *logger.Logger
}

func NewClient(log *logger.Logger, timeout time.Duration) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		CoverArtURL: DefaultCoverArtURL,
		http:        httpx.NewJSONClient(timeout, UserAgent),
		log:         log.With("client", "MusicBrainzClient"),
	}
}

// FindByTitle searches releases first and falls back to recordings.
func (c *Client) FindByTitle(ctx context.Context, title, artist string) (*Music, error) {
	artist = strings.TrimSpace(artist)
	releases, err := c.searchReleases(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if len(releases) > 0 {
		best := releases[0]
		if artist != "" && len(releases) > 1 {
			want := strings.ToLower(artist)
		outer:
			for _, r := range releases {
				for _, ac := range r.ArtistCredit {
					if strings.Contains(strings.ToLower(ac.Artist.Name), want) {
						best = r
						break outer
					}
				}
			}
		}
		return c.fromRelease(ctx, best), nil
	}

	recordings, err := c.searchRecordings(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if len(recordings) == 0 {
		return nil, nil
	}
	return fromRecording(recordings[0]), nil
}

// GetByID looks the MBID up as a release, then as a recording.
func (c *Client) GetByID(ctx context.Context, mbid string) (*Music, error) {
	var r release
	err := c.http.GetJSON(ctx, c.BaseURL+"/release/"+url.PathEscape(mbid)+"?inc=artist-credits+release-groups&fmt=json", &r)
	if err == nil {
		return c.fromRelease(ctx, r), nil
	}
	if !httpx.IsNotFound(err) {
		return nil, fmt.Errorf("musicbrainz release %s: %w", mbid, err)
	}
	var rec recording
	err = c.http.GetJSON(ctx, c.BaseURL+"/recording/"+url.PathEscape(mbid)+"?inc=artist-credits&fmt=json", &rec)
	if err != nil {
		if httpx.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("musicbrainz recording %s: %w", mbid, err)
	}
	return fromRecording(rec), nil
}

func (c *Client) searchReleases(ctx context.Context, title, artist string) ([]release, error) {
	var res struct {
		Releases []release `json:"releases"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL+"/release?"+searchQuery("release", title, artist), &res); err != nil {
		return nil, fmt.Errorf("musicbrainz release search: %w", err)
	}
	return res.Releases, nil
}

func (c *Client) searchRecordings(ctx context.Context, title, artist string) ([]recording, error) {
	var res struct {
		Recordings []recording `json:"recordings"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL+"/recording?"+searchQuery("recording", title, artist), &res); err != nil {
		return nil, fmt.Errorf("musicbrainz recording search: %w", err)
	}
	return res.Recordings, nil
}

func searchQuery(field, title, artist string) string {
	query := fmt.Sprintf("%s:%q", field, title)
	if artist != "" {
		query += fmt.Sprintf(" AND artist:%q", artist)
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", "10")
	q.Set("fmt", "json")
	return q.Encode()
}

func (c *Client) fromRelease(ctx context.Context, r release) *Music {
	m := &Music{
		ID:          r.ID,
		Title:       r.Title,
		Artists:     creditNames(r.ArtistCredit),
		ReleaseDate: r.Date,
		TrackCount:  r.TrackCount,
	}
	if r.ReleaseGroup != nil {
		m.Type = strings.ToLower(r.ReleaseGroup.PrimaryType)
	}
	images, err := c.coverArt(ctx, r.ID)
	if err != nil {
		c.log.Warn("Cover art lookup failed", "release_id", r.ID, "error", err)
	}
	if img := pickCover(images); img != nil {
		m.ArtSmall = first(img.Thumbnails["250"], img.Thumbnails["small"])
		m.ArtMedium = img.Thumbnails["500"]
		m.ArtLarge = first(img.Thumbnails["1200"], img.Image)
	}
	return m
}

func fromRecording(r recording) *Music {
	return &Music{ID: r.ID, Title: r.Title, Artists: creditNames(r.ArtistCredit), Type: TypeRecording}
}

// coverArt returns nil without error when the archive has no entry.
func (c *Client) coverArt(ctx context.Context, releaseID string) ([]coverImage, error) {
	var res struct {
		Images []coverImage `json:"images"`
	}
	if err := c.http.GetJSON(ctx, c.CoverArtURL+"/release/"+url.PathEscape(releaseID), &res); err != nil {
		if httpx.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return res.Images, nil
}

func pickCover(images []coverImage) *coverImage {
	for i := range images {
		if images[i].Front {
			return &images[i]
		}
	}
	for i := range images {
		if images[i].Approved {
			return &images[i]
		}
	}
	if len(images) > 0 {
		return &images[0]
	}
	return nil
}

func creditNames(credits []artistCredit) []string {
	out := make([]string, 0, len(credits))
	for _, ac := range credits {
		name := ac.Artist.Name
		if name == "" {
			name = ac.Name
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// PageURL links to the release or recording page on musicbrainz.org.
func PageURL(m *Music) string {
	kind := "release"
	if m.IsRecording() {
		kind = TypeRecording
	}
	return "https://musicbrainz.org/" + kind + "/" + m.ID
}

func LastFMURL(artist, album string) string {
	u := "https://www.last.fm/music/" + strings.ReplaceAll(artist, " ", "+")
	if album != "" {
		u += "/" + strings.ReplaceAll(album, " ", "+")
	}
	return u
}
