package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/music-library/internal/catalog"
)

func TestReconcileAlbumSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("detaches without deleting", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "Blur")
		album := seedAlbum(t, store, "Parklife", &artist.ID)
		keep := seedSong(t, store, "Girls & Boys", &artist.ID, &album.ID)
		drop := seedSong(t, store, "Badhead", &artist.ID, &album.ID)
		sync := catalog.NewSynchronizer(store, nil, 4)

		report := sync.ReconcileAlbumSongs(ctx, album.ID, album.ArtistID, album.ReleaseYear, []catalog.ChildRef{
			{ID: uintPtr(keep.ID)},
		})
		require.NoError(t, report.Err())
		assert.Equal(t, 1, report.Detached)
		assert.Equal(t, 1, report.Attached)
		assert.Zero(t, report.Failed)

		dropped, err := store.GetSong(ctx, drop.ID)
		require.NoError(t, err)
		assert.Nil(t, dropped.AlbumID)
		require.NotNil(t, dropped.ArtistID)
		assert.Equal(t, artist.ID, *dropped.ArtistID)

		ids, err := store.SongIDsByAlbum(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{keep.ID}, ids)
	})

	t.Run("empty list detaches everything", func(t *testing.T) {
		store := setupStore(t)
		album := seedAlbum(t, store, "Lonely", nil)
		seedSong(t, store, "One", nil, &album.ID)
		seedSong(t, store, "Two", nil, &album.ID)
		sync := catalog.NewSynchronizer(store, nil, 4)

		report := sync.ReconcileAlbumSongs(ctx, album.ID, nil, nil, []catalog.ChildRef{})
		assert.Equal(t, 2, report.Detached)

		count, err := store.CountSongs(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("attaches songs from other albums", func(t *testing.T) {
		store := setupStore(t)
		from := seedAlbum(t, store, "From", nil)
		to := seedAlbum(t, store, "To", nil)
		song := seedSong(t, store, "Mover", nil, &from.ID)
		sync := catalog.NewSynchronizer(store, nil, 4)

		report := sync.ReconcileAlbumSongs(ctx, to.ID, nil, nil, []catalog.ChildRef{{ID: uintPtr(song.ID)}})
		require.NoError(t, report.Err())

		moved, err := store.GetSong(ctx, song.ID)
		require.NoError(t, err)
		assert.Equal(t, to.ID, *moved.AlbumID)
	})

	t.Run("created songs default to the album artist and year", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "Oasis")
		album := seedAlbum(t, store, "Definitely Maybe", &artist.ID)
		sync := catalog.NewSynchronizer(store, nil, 4)

		report := sync.ReconcileAlbumSongs(ctx, album.ID, album.ArtistID, album.ReleaseYear, []catalog.ChildRef{
			{Name: "Supersonic"},
			{Name: "Live Forever", ReleaseYear: intPtr(1994)},
		})
		require.NoError(t, report.Err())
		assert.Equal(t, 2, report.Created)

		songs, err := store.ListSongsByAlbum(ctx, album.ID)
		require.NoError(t, err)
		require.Len(t, songs, 2)
		years := map[string]int{}
		for _, song := range songs {
			require.NotNil(t, song.ArtistID)
			assert.Equal(t, artist.ID, *song.ArtistID)
			years[song.Name] = *song.ReleaseYear
		}
		assert.Equal(t, 1997, years["Supersonic"])
		assert.Equal(t, 1994, years["Live Forever"])
	})

	t.Run("one failing child does not stop the others", func(t *testing.T) {
		store := setupStore(t)
		album := seedAlbum(t, store, "Mixed", nil)
		existing := seedSong(t, store, "Existing", nil, nil)
		metrics := catalog.NewMetrics()
		sync := catalog.NewSynchronizer(store, metrics, 4)

		report := sync.ReconcileAlbumSongs(ctx, album.ID, nil, nil, []catalog.ChildRef{
			{ID: uintPtr(9999)},
			{ID: uintPtr(existing.ID)},
			{Name: ""},
			{Name: "Fresh"},
		})
		assert.Equal(t, 2, report.Failed)
		assert.Equal(t, 1, report.Attached)
		assert.Equal(t, 1, report.Created)
		assert.Len(t, report.Errors, 2)
		assert.ErrorIs(t, report.Err(), catalog.ErrNotFound)
		assert.ErrorIs(t, report.Err(), catalog.ErrInvalidInput)
		assert.Equal(t, int64(2), metrics.Snapshot().ChildReconcileFailures)

		songs, err := store.ListSongsByAlbum(ctx, album.ID)
		require.NoError(t, err)
		assert.Len(t, songs, 2)
	})
}

func TestReconcileArtistChildren(t *testing.T) {
	ctx := context.Background()

	t.Run("albums", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "Pulp")
		old := seedAlbum(t, store, "It", &artist.ID)
		stray := seedAlbum(t, store, "Separations", nil)
		sync := catalog.NewSynchronizer(store, nil, 2)

		report := sync.ReconcileArtistAlbums(ctx, artist.ID, []catalog.ChildRef{
			{ID: uintPtr(stray.ID)},
			{Name: "Different Class", NumListens: intPtr(12)},
		})
		require.NoError(t, report.Err())
		assert.Equal(t, 1, report.Detached)
		assert.Equal(t, 1, report.Attached)
		assert.Equal(t, 1, report.Created)

		detached, err := store.GetAlbum(ctx, old.ID)
		require.NoError(t, err)
		assert.Nil(t, detached.ArtistID)

		albums, err := store.ListAlbumsByArtist(ctx, artist.ID)
		require.NoError(t, err)
		require.Len(t, albums, 2)
		assert.Equal(t, stray.ID, albums[0].ID)
		assert.Equal(t, "Different Class", albums[1].Name)
		assert.Equal(t, 12, albums[1].NumListens)
		assert.Equal(t, time.Now().Year(), *albums[1].ReleaseYear)
	})

	t.Run("songs link to albums by name", func(t *testing.T) {
		store := setupStore(t)
		artist := seedArtist(t, store, "Suede")
		album := seedAlbum(t, store, "Coming Up", &artist.ID)
		sync := catalog.NewSynchronizer(store, nil, 2)

		report := sync.ReconcileArtistSongs(ctx, artist.ID, []catalog.ChildRef{
			{Name: "Trash", Album: "Coming Up"},
			{Name: "Animal Nitrate", Album: "Suede"},
		}, map[string]uint{"Coming Up": album.ID})
		require.NoError(t, report.Err())
		assert.Equal(t, 2, report.Created)

		songs, err := store.ListSongsByArtist(ctx, artist.ID)
		require.NoError(t, err)
		require.Len(t, songs, 2)
		byName := map[string]*uint{}
		for _, song := range songs {
			byName[song.Name] = song.AlbumID
		}
		require.NotNil(t, byName["Trash"])
		assert.Equal(t, album.ID, *byName["Trash"])
		assert.Nil(t, byName["Animal Nitrate"])
	})
}
