package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/music-library/internal/catalog"
)

func TestDeleter(t *testing.T) {
	ctx := context.Background()

	t.Run("artist delete cascades", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "The Smiths")
		album := seedAlbum(t, store, "Meat Is Murder", &artist.ID)
		seedSong(t, store, "How Soon Is Now?", &artist.ID, &album.ID)
		seedSong(t, store, "Panic", &artist.ID, nil)
		deleter := catalog.NewDeleter(store)

		result, err := deleter.DeleteArtist(ctx, artist.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.DeleteResult{ID: artist.ID, Kind: "artist", CascadedAlbums: 1, CascadedSongs: 2}, result)

		_, err = store.GetArtist(ctx, artist.ID)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		albums, err := store.CountAlbums(ctx)
		require.NoError(t, err)
		songs, err := store.CountSongs(ctx)
		require.NoError(t, err)
		assert.Zero(t, albums)
		assert.Zero(t, songs)
	})

	t.Run("album delete removes its songs only", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "Elastica")
		album := seedAlbum(t, store, "Elastica", &artist.ID)
		seedSong(t, store, "Connection", &artist.ID, &album.ID)
		loose := seedSong(t, store, "Mad Dog", &artist.ID, nil)
		deleter := catalog.NewDeleter(store)

		result, err := deleter.DeleteAlbum(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.CascadedSongs)

		_, err = store.GetArtist(ctx, artist.ID)
		assert.NoError(t, err)
		_, err = store.GetSong(ctx, loose.ID)
		assert.NoError(t, err)
		count, err := store.CountSongs(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing album is not found and changes nothing", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "Sleeper")
		album := seedAlbum(t, store, "Smart", &artist.ID)
		seedSong(t, store, "Inbetweener", &artist.ID, &album.ID)
		deleter := catalog.NewDeleter(store)

		_, err := deleter.DeleteAlbum(ctx, album.ID+100)
		assert.ErrorIs(t, err, catalog.ErrNotFound)

		albums, err := store.CountAlbums(ctx)
		require.NoError(t, err)
		songs, err := store.CountSongs(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), albums)
		assert.Equal(t, int64(1), songs)
	})

	t.Run("missing artist and song", func(t *testing.T) {
		store := setupStore(t)
		deleter := catalog.NewDeleter(store)

		_, err := deleter.DeleteArtist(ctx, 42)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = deleter.DeleteSong(ctx, 42)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}
