package wiki

import "gorm.io/datatypes"

// Provider namespaces. A namespace with every field nil means the provider
// was not applicable or had no record.
const (
	NamespaceTMDB        = "tmdb"
	NamespaceGoogleBooks = "googleBooks"
	NamespaceMusicBrainz = "musicbrainz"
	NamespaceWikipedia   = "wikipedia"
)

type MovieData struct {
	TMDBID      *int    `gorm:"column:tmdb_id" json:"tmdbId,omitempty"`
	PosterURL   *string `gorm:"column:tmdb_poster_url" json:"posterUrl,omitempty"`
	BackdropURL *string `gorm:"column:tmdb_backdrop_url" json:"backdropUrl,omitempty"`
	ReleaseDate *string `gorm:"column:tmdb_release_date" json:"releaseDate,omitempty"`
	Runtime     *int    `gorm:"column:tmdb_runtime" json:"runtime,omitempty"`
	Homepage    *string `gorm:"column:tmdb_homepage" json:"homepage,omitempty"`
	IMDbID      *string `gorm:"column:tmdb_imdb_id" json:"imdbId,omitempty"`
	URL         *string `gorm:"column:tmdb_url" json:"tmdbUrl,omitempty"`
}

func (m MovieData) IsEmpty() bool {
	return m.TMDBID == nil && m.PosterURL == nil && m.BackdropURL == nil && m.ReleaseDate == nil &&
		m.Runtime == nil && m.Homepage == nil && m.IMDbID == nil && m.URL == nil
}

func (m MovieData) columns() map[string]any {
	return map[string]any{
		"tmdb_id":           m.TMDBID,
		"tmdb_poster_url":   m.PosterURL,
		"tmdb_backdrop_url": m.BackdropURL,
		"tmdb_release_date": m.ReleaseDate,
		"tmdb_runtime":      m.Runtime,
		"tmdb_homepage":     m.Homepage,
		"tmdb_imdb_id":      m.IMDbID,
		"tmdb_url":          m.URL,
	}
}

type BookData struct {
	GoogleBooksID *string                     `gorm:"column:google_books_id" json:"googleBooksId,omitempty"`
	CoverURL      *string                     `gorm:"column:google_books_cover_url" json:"bookCoverUrl,omitempty"`
	ISBN10        *string                     `gorm:"column:google_books_isbn10" json:"isbn10,omitempty"`
	ISBN13        *string                     `gorm:"column:google_books_isbn13" json:"isbn13,omitempty"`
	PageCount     *int                        `gorm:"column:google_books_page_count" json:"pageCount,omitempty"`
	PublishDate   *string                     `gorm:"column:google_books_publish_date" json:"publishDate,omitempty"`
	Publishers    datatypes.JSONSlice[string] `gorm:"column:google_books_publishers" json:"publishers,omitempty"`
	Authors       datatypes.JSONSlice[string] `gorm:"column:google_books_authors" json:"bookAuthors,omitempty"`
	URL           *string                     `gorm:"column:google_books_url" json:"googleBooksUrl,omitempty"`
}

func (b BookData) IsEmpty() bool {
	return b.GoogleBooksID == nil && b.CoverURL == nil && b.ISBN10 == nil && b.ISBN13 == nil &&
		b.PageCount == nil && b.PublishDate == nil && len(b.Publishers) == 0 && len(b.Authors) == 0 && b.URL == nil
}

func (b BookData) columns() map[string]any {
	return map[string]any{
		"google_books_id":           b.GoogleBooksID,
		"google_books_cover_url":    b.CoverURL,
		"google_books_isbn10":       b.ISBN10,
		"google_books_isbn13":       b.ISBN13,
		"google_books_page_count":   b.PageCount,
		"google_books_publish_date": b.PublishDate,
		"google_books_publishers":   b.Publishers,
		"google_books_authors":      b.Authors,
		"google_books_url":          b.URL,
	}
}

type MusicData struct {
	MusicBrainzID *string                     `gorm:"column:music_brainz_id" json:"musicBrainzId,omitempty"`
	AlbumArtURL   *string                     `gorm:"column:music_brainz_album_art_url" json:"albumArtUrl,omitempty"`
	Artists       datatypes.JSONSlice[string] `gorm:"column:music_brainz_artists" json:"musicArtists,omitempty"`
	ReleaseDate   *string                     `gorm:"column:music_brainz_release_date" json:"musicReleaseDate,omitempty"`
	TrackCount    *int                        `gorm:"column:music_brainz_track_count" json:"trackCount,omitempty"`
	Type          *string                     `gorm:"column:music_brainz_type" json:"musicType,omitempty"`
	URL           *string                     `gorm:"column:music_brainz_url" json:"musicBrainzUrl,omitempty"`
	LastFMURL     *string                     `gorm:"column:music_brainz_last_fm_url" json:"lastFmUrl,omitempty"`
}

func (m MusicData) IsEmpty() bool {
	return m.MusicBrainzID == nil && m.AlbumArtURL == nil && len(m.Artists) == 0 && m.ReleaseDate == nil &&
		m.TrackCount == nil && m.Type == nil && m.URL == nil && m.LastFMURL == nil
}

func (m MusicData) columns() map[string]any {
	return map[string]any{
		"music_brainz_id":            m.MusicBrainzID,
		"music_brainz_album_art_url": m.AlbumArtURL,
		"music_brainz_artists":       m.Artists,
		"music_brainz_release_date":  m.ReleaseDate,
		"music_brainz_track_count":   m.TrackCount,
		"music_brainz_type":          m.Type,
		"music_brainz_url":           m.URL,
		"music_brainz_last_fm_url":   m.LastFMURL,
	}
}

type EncyclopediaData struct {
	PageID     *int                        `gorm:"column:wikipedia_page_id" json:"wikipediaPageId,omitempty"`
	Extract    *string                     `gorm:"column:wikipedia_extract;type:text" json:"wikipediaExtract,omitempty"`
	ImageURL   *string                     `gorm:"column:wikipedia_image_url" json:"wikipediaImageUrl,omitempty"`
	Categories datatypes.JSONSlice[string] `gorm:"column:wikipedia_categories" json:"wikipediaCategories,omitempty"`
	URL        *string                     `gorm:"column:wikipedia_url" json:"wikipediaUrl,omitempty"`
}

func (w EncyclopediaData) IsEmpty() bool {
	return w.PageID == nil && w.Extract == nil && w.ImageURL == nil && len(w.Categories) == 0 && w.URL == nil
}

func (w EncyclopediaData) columns() map[string]any {
	return map[string]any{
		"wikipedia_page_id":    w.PageID,
		"wikipedia_extract":    w.Extract,
		"wikipedia_image_url":  w.ImageURL,
		"wikipedia_categories": w.Categories,
		"wikipedia_url":        w.URL,
	}
}

// Enrichment is the provider-namespaced bag stored on ScaryEntity.
type Enrichment struct {
	TMDB        MovieData        `gorm:"embedded" json:"tmdb"`
	GoogleBooks BookData         `gorm:"embedded" json:"googleBooks"`
	MusicBrainz MusicData        `gorm:"embedded" json:"musicbrainz"`
	Wikipedia   EncyclopediaData `gorm:"embedded" json:"wikipedia"`
}

// Namespaces lists the namespaces that carry data.
func (e Enrichment) Namespaces() []string {
	out := make([]string, 0, 4)
	if !e.TMDB.IsEmpty() {
		out = append(out, NamespaceTMDB)
	}
	if !e.GoogleBooks.IsEmpty() {
		out = append(out, NamespaceGoogleBooks)
	}
	if !e.MusicBrainz.IsEmpty() {
		out = append(out, NamespaceMusicBrainz)
	}
	if !e.Wikipedia.IsEmpty() {
		out = append(out, NamespaceWikipedia)
	}
	return out
}

// Merge copies the given namespace from other into e.
func (e *Enrichment) Merge(namespace string, other Enrichment) {
	switch namespace {
	case NamespaceTMDB:
		e.TMDB = other.TMDB
	case NamespaceGoogleBooks:
		e.GoogleBooks = other.GoogleBooks
	case NamespaceMusicBrainz:
		e.MusicBrainz = other.MusicBrainz
	case NamespaceWikipedia:
		e.Wikipedia = other.Wikipedia
	}
}

// Columns returns the column updates for the named namespaces only.
func (e Enrichment) Columns(namespaces ...string) map[string]any {
	out := map[string]any{}
	for _, ns := range namespaces {
		var cols map[string]any
		switch ns {
		case NamespaceTMDB:
			cols = e.TMDB.columns()
		case NamespaceGoogleBooks:
			cols = e.GoogleBooks.columns()
		case NamespaceMusicBrainz:
			cols = e.MusicBrainz.columns()
		case NamespaceWikipedia:
			cols = e.Wikipedia.columns()
		}
		for k, v := range cols {
			out[k] = v
		}
	}
	return out
}
