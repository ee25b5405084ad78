package catalog

import "strings"

// Ref points at a parent entity by id, by name, or not at all. An explicit
// id always wins over a name. An id of 0 means "no relation".
type Ref struct {
	ID   *uint
	Name string
}

// IDRef references an existing row by id.
func IDRef(id uint) Ref {
	return Ref{ID: &id}
}

// NameRef references a row by exact name, creating it if absent.
func NameRef(name string) Ref {
	return Ref{Name: name}
}

// Provided reports whether the client said anything about the relation.
func (r Ref) Provided() bool {
	return r.ID != nil || strings.TrimSpace(r.Name) != ""
}

// ChildRef is one entry of a desired child list. Entries with an id
// re-associate an existing row, entries without one create a new row.
type ChildRef struct {
	ID          *uint  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	ReleaseYear *int   `json:"releaseYear,omitempty"`

	// NumListens applies to albums created under an artist.
	NumListens *int `json:"numListens,omitempty"`

	// ArtistID applies to songs created under an album and defaults to
	// the album's artist.
	ArtistID *uint `json:"artistId,omitempty"`

	// Album names one of the artist's albums for songs created under an
	// artist.
	Album string `json:"album,omitempty"`
}

func (c ChildRef) hasID() bool {
	return c.ID != nil && *c.ID != 0
}

// ArtistInput is the body of an artist create or update. Nil fields keep
// their current value on update. A nil child list leaves the children
// alone, an empty one detaches all of them.
type ArtistInput struct {
	Name             *string    `json:"name"`
	MonthlyListeners *int       `json:"monthlyListeners"`
	Genre            *string    `json:"genre"`
	Albums           []ChildRef `json:"albums"`
	Songs            []ChildRef `json:"songs"`
}

type AlbumInput struct {
	Name        *string    `json:"name"`
	ArtistID    *uint      `json:"artistId"`
	Artist      string     `json:"artist"`
	ReleaseYear *int       `json:"releaseYear"`
	NumListens  *int       `json:"numListens"`
	Songs       []ChildRef `json:"songs"`
}

func (in AlbumInput) ArtistRef() Ref {
	return Ref{ID: in.ArtistID, Name: in.Artist}
}

type SongInput struct {
	Name        *string `json:"name"`
	ArtistID    *uint   `json:"artistId"`
	Artist      string  `json:"artist"`
	AlbumID     *uint   `json:"albumId"`
	Album       string  `json:"album"`
	ReleaseYear *int    `json:"releaseYear"`
}

func (in SongInput) ArtistRef() Ref {
	return Ref{ID: in.ArtistID, Name: in.Artist}
}

func (in SongInput) AlbumRef() Ref {
	return Ref{ID: in.AlbumID, Name: in.Album}
}

func requireName(kind string, name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", invalidInput("%s name is required", kind)
	}
	return *name, nil
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
