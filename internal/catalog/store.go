package catalog

import (
	"context"

	"github.com/mrlokans/music-library/internal/entities"
)

// ArtistStore is the artist half of the relational store.
type ArtistStore interface {
	CreateArtist(ctx context.Context, artist *entities.Artist) error
	GetArtist(ctx context.Context, id uint) (*entities.Artist, error)
	// FindArtistsByName returns every row whose name matches exactly, in
	// whatever order the store produces them.
	FindArtistsByName(ctx context.Context, name string) ([]entities.Artist, error)
	ListArtists(ctx context.Context) ([]entities.Artist, error)
	UpdateArtist(ctx context.Context, artist *entities.Artist) (int64, error)
	DeleteArtist(ctx context.Context, id uint) (int64, error)
	CountArtists(ctx context.Context) (int64, error)
	// CountArtistDependents counts the albums and songs a delete of the
	// artist would cascade to.
	CountArtistDependents(ctx context.Context, id uint) (albums int64, songs int64, err error)
}

type AlbumStore interface {
	CreateAlbum(ctx context.Context, album *entities.Album) error
	GetAlbum(ctx context.Context, id uint) (*entities.Album, error)
	// FindAlbumsByName matches name exactly within one artist, or among
	// albums without an artist when artistID is nil.
	FindAlbumsByName(ctx context.Context, name string, artistID *uint) ([]entities.Album, error)
	ListAlbums(ctx context.Context) ([]entities.Album, error)
	ListAlbumsByArtist(ctx context.Context, artistID uint) ([]entities.Album, error)
	AlbumIDsByArtist(ctx context.Context, artistID uint) ([]uint, error)
	SetAlbumArtist(ctx context.Context, albumID uint, artistID *uint) (int64, error)
	UpdateAlbum(ctx context.Context, album *entities.Album) (int64, error)
	DeleteAlbum(ctx context.Context, id uint) (int64, error)
	CountAlbums(ctx context.Context) (int64, error)
	CountAlbumDependents(ctx context.Context, id uint) (songs int64, err error)
}

type SongStore interface {
	CreateSong(ctx context.Context, song *entities.Song) error
	GetSong(ctx context.Context, id uint) (*entities.Song, error)
	ListSongs(ctx context.Context) ([]entities.Song, error)
	ListSongsByArtist(ctx context.Context, artistID uint) ([]entities.Song, error)
	ListSongsByAlbum(ctx context.Context, albumID uint) ([]entities.Song, error)
	SongIDsByArtist(ctx context.Context, artistID uint) ([]uint, error)
	SongIDsByAlbum(ctx context.Context, albumID uint) ([]uint, error)
	SetSongArtist(ctx context.Context, songID uint, artistID *uint) (int64, error)
	SetSongAlbum(ctx context.Context, songID uint, albumID *uint) (int64, error)
	UpdateSong(ctx context.Context, song *entities.Song) (int64, error)
	DeleteSong(ctx context.Context, id uint) (int64, error)
	CountSongs(ctx context.Context) (int64, error)
}

// Store is everything the catalog needs from the relational store. Get
// methods return ErrNotFound for a missing id.
type Store interface {
	ArtistStore
	AlbumStore
	SongStore

	// Transaction runs fn against a store bound to a single transaction,
	// committing when fn returns nil and rolling back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
