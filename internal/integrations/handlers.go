package integrations

import (
	"context"
	"fmt"
	"strconv"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations/googlebooks"
	"github.com/yungbote/howscary-backend/internal/integrations/musicbrainz"
	"github.com/yungbote/howscary-backend/internal/integrations/tmdb"
	"github.com/yungbote/howscary-backend/internal/integrations/wikipedia"
)

// Clients are the provider clients the default handlers close over. A nil
// client leaves its provider without a handler.
type Clients struct {
	TMDB        *tmdb.Client
	GoogleBooks *googlebooks.Client
	MusicBrainz *musicbrainz.Client
	Wikipedia   *wikipedia.Client
}

func DefaultHandlers(c Clients) map[string]Handler {
	out := map[string]Handler{
		// Places are selectable but have no processor.
		KeyGoogleMaps: {
			ResolveByTitle: func(context.Context, string, Hints) (*types.Enrichment, error) { return nil, nil },
			ResolveByID:    func(context.Context, string) (*types.Enrichment, error) { return nil, nil },
		},
	}
	if c.TMDB != nil {
		out[KeyTMDB] = tmdbHandler(c.TMDB)
	}
	if c.GoogleBooks != nil {
		out[KeyGoogleBooks] = googleBooksHandler(c.GoogleBooks)
	}
	if c.MusicBrainz != nil {
		out[KeyMusicBrainz] = musicBrainzHandler(c.MusicBrainz)
	}
	if c.Wikipedia != nil {
		out[KeyWikipedia] = wikipediaHandler(c.Wikipedia)
	}
	return out
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func tmdbHandler(c *tmdb.Client) Handler {
	toEnrichment := func(m *tmdb.Movie) *types.Enrichment {
		if m == nil {
			return nil
		}
		return &types.Enrichment{TMDB: types.MovieData{
			TMDBID:      intPtr(m.ID),
			PosterURL:   strPtr(tmdb.PosterURL(m.PosterPath)),
			BackdropURL: strPtr(tmdb.BackdropURL(m.BackdropPath)),
			ReleaseDate: strPtr(m.ReleaseDate),
			Runtime:     intPtr(m.Runtime),
			Homepage:    strPtr(m.Homepage),
			IMDbID:      strPtr(m.IMDbID),
			URL:         strPtr(tmdb.MovieURL(m.ID)),
		}}
	}
	return Handler{
		Namespace: types.NamespaceTMDB,
		ResolveByTitle: func(ctx context.Context, title string, h Hints) (*types.Enrichment, error) {
			m, err := c.FindByTitle(ctx, title, h.Year)
			return toEnrichment(m), err
		},
		ResolveByID: func(ctx context.Context, id string) (*types.Enrichment, error) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return nil, fmt.Errorf("tmdb id %q: %w", id, err)
			}
			m, err := c.GetMovie(ctx, n)
			return toEnrichment(m), err
		},
		IDHint: func(h Hints) string { return h.TMDBID },
	}
}

func googleBooksHandler(c *googlebooks.Client) Handler {
	toEnrichment := func(b *googlebooks.Book) *types.Enrichment {
		if b == nil {
			return nil
		}
		cover := b.CoverLarge
		if cover == "" {
			cover = b.CoverMedium
		}
		return &types.Enrichment{GoogleBooks: types.BookData{
			GoogleBooksID: strPtr(b.ID),
			CoverURL:      strPtr(cover),
			ISBN10:        strPtr(b.ISBN10),
			ISBN13:        strPtr(b.ISBN13),
			PageCount:     intPtr(b.PageCount),
			PublishDate:   strPtr(b.PublishDate),
			Publishers:    b.Publishers,
			Authors:       b.Authors,
			URL:           strPtr(googlebooks.BookURL(b.ID)),
		}}
	}
	return Handler{
		Namespace: types.NamespaceGoogleBooks,
		ResolveByTitle: func(ctx context.Context, title string, h Hints) (*types.Enrichment, error) {
			b, err := c.FindByTitle(ctx, title, h.Author)
			return toEnrichment(b), err
		},
		ResolveByID: func(ctx context.Context, id string) (*types.Enrichment, error) {
			b, err := c.GetByID(ctx, id)
			return toEnrichment(b), err
		},
		IDHint: func(h Hints) string { return h.GoogleBooksID },
	}
}

func musicBrainzHandler(c *musicbrainz.Client) Handler {
	toEnrichment := func(m *musicbrainz.Music) *types.Enrichment {
		if m == nil {
			return nil
		}
		art := m.ArtLarge
		if art == "" {
			art = m.ArtMedium
		}
		data := types.MusicData{
			MusicBrainzID: strPtr(m.ID),
			AlbumArtURL:   strPtr(art),
			Artists:       m.Artists,
			ReleaseDate:   strPtr(m.ReleaseDate),
			TrackCount:    intPtr(m.TrackCount),
			Type:          strPtr(m.Type),
			URL:           strPtr(musicbrainz.PageURL(m)),
		}
		if len(m.Artists) > 0 {
			data.LastFMURL = strPtr(musicbrainz.LastFMURL(m.Artists[0], m.Title))
		}
		return &types.Enrichment{MusicBrainz: data}
	}
	return Handler{
		Namespace: types.NamespaceMusicBrainz,
		ResolveByTitle: func(ctx context.Context, title string, h Hints) (*types.Enrichment, error) {
			m, err := c.FindByTitle(ctx, title, h.Artist)
			return toEnrichment(m), err
		},
		ResolveByID: func(ctx context.Context, id string) (*types.Enrichment, error) {
			m, err := c.GetByID(ctx, id)
			return toEnrichment(m), err
		},
		IDHint: func(h Hints) string { return h.MusicBrainzID },
	}
}

func wikipediaEnrichment(a *wikipedia.Article) *types.Enrichment {
	if a == nil {
		return nil
	}
	return &types.Enrichment{Wikipedia: types.EncyclopediaData{
		PageID:     intPtr(a.PageID),
		Extract:    strPtr(wikipedia.ExtractSummary(a.Extract, wikipedia.DefaultSummaryLength)),
		ImageURL:   strPtr(a.ImageURL),
		Categories: a.Categories,
		URL:        strPtr(a.URL),
	}}
}

func wikipediaHandler(c *wikipedia.Client) Handler {
	return Handler{
		Namespace: types.NamespaceWikipedia,
		ResolveByTitle: func(ctx context.Context, title string, h Hints) (*types.Enrichment, error) {
			if h.ArticleTitle != "" {
				title = h.ArticleTitle
			}
			a, err := c.FindByTitle(ctx, title)
			return wikipediaEnrichment(a), err
		},
		ResolveByID: func(ctx context.Context, id string) (*types.Enrichment, error) {
			if n, err := strconv.Atoi(id); err == nil {
				a, err := c.GetByPageID(ctx, n)
				return wikipediaEnrichment(a), err
			}
			a, err := c.GetByExactTitle(ctx, id)
			return wikipediaEnrichment(a), err
		},
		IDHint: func(h Hints) string {
			if h.WikipediaPageID != "" {
				return h.WikipediaPageID
			}
			return h.WikipediaTitle
		},
		Candidates: func(ctx context.Context, query string, n int) ([]Option, error) {
			articles, err := c.Candidates(ctx, query, n)
			if err != nil {
				return nil, err
			}
			out := make([]Option, 0, len(articles))
			for i := range articles {
				out = append(out, Option{
					Title:   articles[i].Title,
					Extract: articles[i].Extract,
					Data:    *wikipediaEnrichment(&articles[i]),
				})
			}
			return out, nil
		},
	}
}
