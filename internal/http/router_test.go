package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/music-library/internal/audit"
	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/database"
	auditdb "github.com/mrlokans/music-library/internal/database/audit"
	"github.com/mrlokans/music-library/internal/database/music"
	"github.com/mrlokans/music-library/internal/entities"
)

type testServer struct {
	router  *gin.Engine
	repo    *music.Repository
	service *catalog.Service
	audit   *audit.Service
}

// brokenSongsStore fails the songs sub-query of one album.
type brokenSongsStore struct {
	catalog.Store
	albumID uint
}

func (s *brokenSongsStore) ListSongsByAlbum(ctx context.Context, albumID uint) ([]entities.Song, error) {
	if albumID == s.albumID {
		return nil, errors.New("connection reset by peer")
	}
	return s.Store.ListSongsByAlbum(ctx, albumID)
}

func newTestServer(t *testing.T, wrap func(catalog.Store) catalog.Store) *testServer {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "music.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := music.NewRepository(db.DB)
	var store catalog.Store = repo
	if wrap != nil {
		store = wrap(repo)
	}
	service := catalog.NewService(store, catalog.Options{MaxConcurrency: 4})
	auditService := audit.NewService(auditdb.NewRepository(db.DB))
	t.Cleanup(auditService.Flush)

	router := NewRouter(RouterConfig{
		Catalog:     service,
		Database:    db,
		Auditor:     auditService,
		AuditReader: auditService,
		APIPrefix:   "/api",
		Version:     "test",
	})

	return &testServer{router: router, repo: repo, service: service, audit: auditService}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestArtistRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/artists", `{
		"name": "Radiohead",
		"monthlyListeners": 1200,
		"genre": "Alternative",
		"albums": [{"name": "OK Computer", "releaseYear": 1997}],
		"songs": [{"name": "Karma Police", "album": "OK Computer"}, {"name": "Creep"}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[catalog.ArtistDetail](t, w)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Radiohead", created.Name)
	assert.Equal(t, 1200, created.MonthlyListeners)
	assert.Equal(t, "Alternative", created.Genre)
	require.Len(t, created.Albums, 1)
	require.Len(t, created.Songs, 2)

	albumID := created.Albums[0].ID
	songsByName := map[string]entities.Song{}
	for _, song := range created.Songs {
		songsByName[song.Name] = song
		require.NotNil(t, song.ArtistID)
		assert.Equal(t, created.ID, *song.ArtistID)
	}
	require.NotNil(t, songsByName["Karma Police"].AlbumID)
	assert.Equal(t, albumID, *songsByName["Karma Police"].AlbumID)
	assert.Nil(t, songsByName["Creep"].AlbumID)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/artists/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[catalog.ArtistDetail](t, w)
	assert.Equal(t, created, fetched)
}

func TestArtistResponseIsSnakeCase(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/artists", `{"name": "Portishead", "monthlyListeners": 10}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, float64(10), body["monthly_listeners"])
	assert.Equal(t, catalog.DefaultGenre, body["genre"])
	assert.Equal(t, []any{}, body["albums"])
	assert.Equal(t, []any{}, body["songs"])
}

func TestListArtistsKeepsOrder(t *testing.T) {
	s := newTestServer(t, nil)

	for _, name := range []string{"Blur", "Oasis", "Pulp"} {
		w := s.do(t, http.MethodPost, "/api/artists", fmt.Sprintf(`{"name": %q}`, name))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/artists", "")
	require.Equal(t, http.StatusOK, w.Code)

	artists := decode[[]catalog.ArtistDetail](t, w)
	require.Len(t, artists, 3)
	assert.Equal(t, "Blur", artists[0].Name)
	assert.Equal(t, "Oasis", artists[1].Name)
	assert.Equal(t, "Pulp", artists[2].Name)
}

func TestDeleteArtistCascades(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/albums", `{
		"name": "Mezzanine",
		"artist": "Massive Attack",
		"songs": [{"name": "Teardrop"}, {"name": "Angel"}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	album := decode[catalog.AlbumDetail](t, w)
	require.NotNil(t, album.ArtistID)
	require.Len(t, album.Songs, 2)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/artists/%d", *album.ArtistID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string               `json:"message"`
		Data    catalog.DeleteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "artist deleted", resp.Message)
	assert.Equal(t, int64(1), resp.Data.CascadedAlbums)
	assert.Equal(t, int64(2), resp.Data.CascadedSongs)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, fmt.Sprintf("/api/albums/%d", album.ID), "").Code)
	for _, song := range album.Songs {
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, fmt.Sprintf("/api/songs/%d", song.ID), "").Code)
	}
}

func TestDeleteMissingAlbumReturns404(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/albums", `{"name": "Dummy", "songs": [{"name": "Sour Times"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	before, err := s.service.Stats(context.Background())
	require.NoError(t, err)

	w = s.do(t, http.MethodDelete, "/api/albums/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "album not found")

	after, err := s.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateAlbumDetachesOmittedSongs(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/albums", `{"name": "Kid A", "songs": [{"name": "Idioteque"}, {"name": "Optimistic"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	album := decode[catalog.AlbumDetail](t, w)
	require.Len(t, album.Songs, 2)
	kept, dropped := album.Songs[0], album.Songs[1]

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/albums/%d", album.ID), fmt.Sprintf(`{"songs": [{"id": %d}]}`, kept.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[catalog.AlbumDetail](t, w)
	assert.Equal(t, "Kid A", updated.Name)
	require.Len(t, updated.Songs, 1)
	assert.Equal(t, kept.ID, updated.Songs[0].ID)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/songs/%d", dropped.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	song := decode[catalog.SongDetail](t, w)
	assert.Nil(t, song.AlbumID)
	assert.Nil(t, song.AlbumName)
}

func TestCreateSongResolvesParentsByName(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{"name": "Glory Box", "artist": "Portishead", "album": "Dummy", "releaseYear": 1994}`
	w := s.do(t, http.MethodPost, "/api/songs", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[catalog.SongDetail](t, w)
	require.NotNil(t, first.ArtistName)
	require.NotNil(t, first.AlbumName)
	assert.Equal(t, "Portishead", *first.ArtistName)
	assert.Equal(t, "Dummy", *first.AlbumName)

	w = s.do(t, http.MethodPost, "/api/songs", `{"name": "Roads", "artist": "Portishead", "album": "Dummy"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[catalog.SongDetail](t, w)
	assert.Equal(t, *first.ArtistID, *second.ArtistID)
	assert.Equal(t, *first.AlbumID, *second.AlbumID)

	stats, err := s.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Artists: 1, Albums: 1, Songs: 2}, stats)
}

func TestPartialAggregationStillReturns200(t *testing.T) {
	var broken *brokenSongsStore
	s := newTestServer(t, func(store catalog.Store) catalog.Store {
		broken = &brokenSongsStore{Store: store}
		return broken
	})

	w := s.do(t, http.MethodPost, "/api/albums", `{"name": "Amnesiac", "songs": [{"name": "Pyramid Song"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	failing := decode[catalog.AlbumDetail](t, w)

	w = s.do(t, http.MethodPost, "/api/albums", `{"name": "Hail to the Thief", "songs": [{"name": "There There"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	broken.albumID = failing.ID

	w = s.do(t, http.MethodGet, "/api/albums", "")
	require.Equal(t, http.StatusOK, w.Code)
	albums := decode[[]catalog.AlbumDetail](t, w)
	require.Len(t, albums, 2)
	assert.Empty(t, albums[0].Songs)
	assert.Len(t, albums[1].Songs, 1)

	w = s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[HealthResponse](t, w)
	assert.Equal(t, int64(1), health.Catalog.PartialAggregationFailures)
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"artist without name", http.MethodPost, "/api/artists", `{"genre": "Jazz"}`, http.StatusBadRequest},
		{"blank album name", http.MethodPost, "/api/albums", `{"name": "   "}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/songs", `{"name": `, http.StatusBadRequest},
		{"wrong field type", http.MethodPost, "/api/artists", `{"name": "X", "monthlyListeners": "many"}`, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/api/songs/abc", "", http.StatusBadRequest},
		{"missing artist", http.MethodGet, "/api/artists/42", "", http.StatusNotFound},
		{"update missing song", http.MethodPut, "/api/songs/42", `{"name": "Nothing"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestWritesAreAudited(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/artists", `{"name": "Bjork"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	artist := decode[catalog.ArtistDetail](t, w)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/artists/%d", artist.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	// Rejected requests are not recorded.
	s.do(t, http.MethodDelete, "/api/artists/9999", "")
	s.audit.Flush()

	w = s.do(t, http.MethodGet, "/api/audit?entity=artist", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data  []entities.AuditEvent `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)

	actions := map[string]bool{}
	for _, event := range page.Data {
		actions[event.Action] = true
		assert.NotEmpty(t, event.RequestID)
	}
	assert.True(t, actions["artist_create"])
	assert.True(t, actions["artist_delete"])
}

func TestStats(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/artists", `{"name": "Air", "albums": [{"name": "Moon Safari"}], "songs": [{"name": "La femme d'argent", "album": "Moon Safari"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.Stats{Artists: 1, Albums: 1, Songs: 1}, decode[catalog.Stats](t, w))
}

func TestCustomAPIPrefix(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "music.db"))
	require.NoError(t, err)
	defer db.Close()

	router := NewRouter(RouterConfig{
		Catalog:   catalog.NewService(music.NewRepository(db.DB), catalog.Options{}),
		Database:  db,
		APIPrefix: "/v2",
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/artists", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/artists", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/audit", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "audit routes need an audit reader")
}
