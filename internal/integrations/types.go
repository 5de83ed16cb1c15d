package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
)

const (
	KeyTMDB        = "tmdb"
	KeyGoogleMaps  = "googleMaps"
	KeyMusicBrainz = "musicbrainz"
	KeyIGDB        = "igdb"
	KeyGoogleBooks = "googleBooks"
	KeyWikipedia   = "wikipedia"
)

// Hints are search hints proposed by the selector or supplied by a moderator.
// Values arrive as loosely typed JSON and are kept as strings.
type Hints struct {
	ArticleTitle    string `json:"articleTitle,omitempty"`
	SearchQuery     string `json:"searchQuery,omitempty"`
	Year            string `json:"year,omitempty"`
	Author          string `json:"author,omitempty"`
	Artist          string `json:"artist,omitempty"`
	TMDBID          string `json:"tmdbId,omitempty"`
	GoogleBooksID   string `json:"googleBooksId,omitempty"`
	MusicBrainzID   string `json:"musicBrainzId,omitempty"`
	WikipediaPageID string `json:"wikipediaPageId,omitempty"`
	WikipediaTitle  string `json:"wikipediaTitle,omitempty"`
}

func (h *Hints) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	get := func(key string) string { return stringify(raw[key]) }
	*h = Hints{
		ArticleTitle:    get("articleTitle"),
		SearchQuery:     get("searchQuery"),
		Year:            get("year"),
		Author:          get("author"),
		Artist:          get("artist"),
		TMDBID:          get("tmdbId"),
		GoogleBooksID:   get("googleBooksId"),
		MusicBrainzID:   get("musicBrainzId"),
		WikipediaPageID: get("wikipediaPageId"),
		WikipediaTitle:  get("wikipediaTitle"),
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Selection is one provider chosen for a candidate.
type Selection struct {
	Key        string  `json:"integrationKey"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Hints      *Hints  `json:"hints"`
}

// Option is one disambiguation choice offered by a provider.
type Option struct {
	Title   string
	Extract string
	Data    types.Enrichment
}

// Handler binds a provider to the enrichment namespace it fills. ResolveByTitle
// and ResolveByID return (nil, nil) when the provider has no record. IDHint and
// Candidates are optional.
type Handler struct {
	Namespace      string
	ResolveByTitle func(ctx context.Context, title string, hints Hints) (*types.Enrichment, error)
	ResolveByID    func(ctx context.Context, id string) (*types.Enrichment, error)
	IDHint         func(h Hints) string
	Candidates     func(ctx context.Context, query string, n int) ([]Option, error)
}

// ManualIDHints maps a moderator-supplied native ID into the hint field the
// provider's handler reads.
func ManualIDHints(key, id string, h Hints) Hints {
	id = strings.TrimSpace(id)
	if id == "" {
		return h
	}
	switch key {
	case KeyTMDB:
		h.TMDBID = id
	case KeyGoogleBooks:
		h.GoogleBooksID = id
	case KeyMusicBrainz:
		h.MusicBrainzID = id
	case KeyWikipedia:
		if _, err := strconv.Atoi(id); err == nil {
			h.WikipediaPageID = id
		} else {
			h.WikipediaTitle = id
		}
	}
	return h
}
