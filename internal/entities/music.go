package entities

// Artist owns albums and songs. Deleting an artist removes both through
// the ON DELETE CASCADE constraints declared on the relationships below.
type Artist struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"index;size:255;not null" json:"name"`
	MonthlyListeners int    `json:"monthly_listeners"`
	Genre            string `gorm:"size:100" json:"genre"`

	// Relationships, used for schema constraints only. Composite
	// responses are assembled by the catalog aggregator.
	Albums []Album `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"-"`
	Songs  []Song  `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"-"`
}

type Album struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"index;size:255;not null" json:"name"`
	ArtistID    *uint  `gorm:"index" json:"artist_id"`
	ReleaseYear *int   `json:"release_year"`
	NumListens  int    `json:"num_listens"`

	Songs []Song `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"-"`
}

// Song references an artist and an album independently; the album's
// artist may differ from the song's own artist.
type Song struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"index;size:255;not null" json:"name"`
	ArtistID    *uint  `gorm:"index" json:"artist_id"`
	AlbumID     *uint  `gorm:"index" json:"album_id"`
	ReleaseYear *int   `json:"release_year"`
}

// NameCount is a name shared by more than one row of the same kind.
// ArtistID is set for album names, which are only ambiguous per artist.
type NameCount struct {
	Name     string `json:"name"`
	ArtistID *uint  `json:"artist_id,omitempty"`
	Count    int64  `json:"count"`
}

func (Artist) TableName() string {
	return "artists"
}

func (Album) TableName() string {
	return "albums"
}

func (Song) TableName() string {
	return "songs"
}
