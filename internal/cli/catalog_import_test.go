package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/config"
	"github.com/mrlokans/music-library/internal/database"
	"github.com/mrlokans/music-library/internal/database/music"
)

const sampleCatalog = `[
	{"name": "Radiohead", "genre": "Alternative",
	 "albums": [{"name": "OK Computer", "releaseYear": 1997}],
	 "songs": [{"name": "Airbag", "album": "OK Computer"}, {"name": "Creep"}]},
	{"name": "Portishead"}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadArtists(t *testing.T) {
	t.Run("bare list", func(t *testing.T) {
		artists, err := ReadArtists(strings.NewReader(sampleCatalog))
		require.NoError(t, err)
		require.Len(t, artists, 2)
		assert.Equal(t, "Radiohead", *artists[0].Name)
		assert.Len(t, artists[0].Songs, 2)
		assert.Equal(t, "OK Computer", artists[0].Songs[0].Album)
	})

	t.Run("wrapped list", func(t *testing.T) {
		artists, err := ReadArtists(strings.NewReader(`{"artists": [{"name": "Bjork"}]}`))
		require.NoError(t, err)
		require.Len(t, artists, 1)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ReadArtists(strings.NewReader(`{"bands": []}`))
		assert.Error(t, err)

		_, err = ReadArtists(strings.NewReader(`not json`))
		assert.Error(t, err)
	})
}

func TestParseFlags(t *testing.T) {
	cmd := NewCatalogImportCommand(&config.Config{})
	assert.Error(t, cmd.ParseFlags([]string{}))

	cmd = NewCatalogImportCommand(&config.Config{})
	require.NoError(t, cmd.ParseFlags([]string{"-file", "catalog.json", "-dry-run"}))
	assert.Equal(t, "catalog.json", cmd.FilePath)
	assert.Equal(t, config.DefaultDatabasePath, cmd.DatabasePath)
	assert.True(t, cmd.DryRun)
}

type failingCreator struct {
	*catalog.Service
	fail string
}

func (f *failingCreator) CreateArtist(ctx context.Context, in catalog.ArtistInput) (catalog.ArtistDetail, error) {
	if *in.Name == f.fail {
		return catalog.ArtistDetail{}, errors.New("database is locked")
	}
	return f.Service.CreateArtist(ctx, in)
}

func TestImportContinuesAfterFailure(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "music.db"))
	require.NoError(t, err)
	defer db.Close()

	service := catalog.NewService(music.NewRepository(db.DB), catalog.Options{})
	artists, err := ReadArtists(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	cmd := &CatalogImportCommand{Out: &bytes.Buffer{}}
	report := cmd.Import(context.Background(), &failingCreator{Service: service, fail: "Radiohead"}, artists)

	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Radiohead", report.Failed[0].Name)
	require.Len(t, report.Imported, 1)
	assert.Equal(t, "Portishead", report.Imported[0].Name)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "music.db")
	archiveDir := filepath.Join(dir, "archive")

	out := &bytes.Buffer{}
	cmd := &CatalogImportCommand{
		FilePath:     writeFile(t, sampleCatalog),
		DatabasePath: dbPath,
		ArchiveDir:   archiveDir,
		Out:          out,
	}
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Artists saved: 2/2")
	assert.Contains(t, out.String(), "Songs linked: 2")

	entries, err := os.ReadDir(archiveDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "catalog-import-"))

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	stats, err := catalog.NewService(music.NewRepository(db.DB), catalog.Options{}).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Artists: 2, Albums: 1, Songs: 2}, stats)
}

func TestRunDryRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "music.db")

	out := &bytes.Buffer{}
	cmd := &CatalogImportCommand{
		FilePath:     writeFile(t, sampleCatalog),
		DatabasePath: dbPath,
		DryRun:       true,
		Out:          out,
	}
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "1. Radiohead (1 albums, 2 songs)")

	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "dry run must not create the database")
}
