package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/database"
	"github.com/mrlokans/music-library/internal/database/music"
	"github.com/mrlokans/music-library/internal/entities"
)

var errInjected = errors.New("injected failure")

func setupStore(t *testing.T) *music.Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return music.NewRepository(db.DB)
}

func setupService(t *testing.T, opts catalog.Options) (*catalog.Service, *music.Repository) {
	t.Helper()
	store := setupStore(t)
	return catalog.NewService(store, opts), store
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func uintPtr(v uint) *uint    { return &v }

func seedArtist(t *testing.T, store catalog.Store, name string) *entities.Artist {
	t.Helper()
	artist := &entities.Artist{Name: name, Genre: "Rock"}
	require.NoError(t, store.CreateArtist(context.Background(), artist))
	return artist
}

func seedAlbum(t *testing.T, store catalog.Store, name string, artistID *uint) *entities.Album {
	t.Helper()
	album := &entities.Album{Name: name, ArtistID: artistID, ReleaseYear: intPtr(1997)}
	require.NoError(t, store.CreateAlbum(context.Background(), album))
	return album
}

func seedSong(t *testing.T, store catalog.Store, name string, artistID, albumID *uint) *entities.Song {
	t.Helper()
	song := &entities.Song{Name: name, ArtistID: artistID, AlbumID: albumID}
	require.NoError(t, store.CreateSong(context.Background(), song))
	return song
}

// faultyStore injects failures and delays into the sub-queries used by
// aggregation, keyed by parent id.
type faultyStore struct {
	catalog.Store

	failArtist uint
	failAlbum  uint

	slowArtist uint
	delay      time.Duration
}

func (f *faultyStore) ListAlbumsByArtist(ctx context.Context, artistID uint) ([]entities.Album, error) {
	if artistID == f.failArtist {
		return nil, errInjected
	}
	if artistID == f.slowArtist {
		time.Sleep(f.delay)
	}
	return f.Store.ListAlbumsByArtist(ctx, artistID)
}

func (f *faultyStore) ListSongsByArtist(ctx context.Context, artistID uint) ([]entities.Song, error) {
	if artistID == f.failArtist {
		return nil, errInjected
	}
	return f.Store.ListSongsByArtist(ctx, artistID)
}

func (f *faultyStore) ListSongsByAlbum(ctx context.Context, albumID uint) ([]entities.Song, error) {
	if albumID == f.failAlbum {
		return nil, errInjected
	}
	return f.Store.ListSongsByAlbum(ctx, albumID)
}

func (f *faultyStore) GetArtist(ctx context.Context, id uint) (*entities.Artist, error) {
	if id == f.failArtist {
		return nil, errInjected
	}
	return f.Store.GetArtist(ctx, id)
}
