package http

import (
	"context"
	"errors"

	"github.com/mrlokans/music-library/internal/audit"
	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/entities"
)

// This file consolidates the service interfaces used by HTTP controllers.
// Each controller depends only on the operations it calls.

// ArtistService provides the artist operations of the catalog.
type ArtistService interface {
	ListArtists(ctx context.Context) ([]catalog.ArtistDetail, error)
	GetArtist(ctx context.Context, id uint) (catalog.ArtistDetail, error)
	CreateArtist(ctx context.Context, in catalog.ArtistInput) (catalog.ArtistDetail, error)
	UpdateArtist(ctx context.Context, id uint, in catalog.ArtistInput) (catalog.ArtistDetail, error)
	DeleteArtist(ctx context.Context, id uint) (catalog.DeleteResult, error)
}

// AlbumService provides the album operations of the catalog.
type AlbumService interface {
	ListAlbums(ctx context.Context) ([]catalog.AlbumDetail, error)
	GetAlbum(ctx context.Context, id uint) (catalog.AlbumDetail, error)
	CreateAlbum(ctx context.Context, in catalog.AlbumInput) (catalog.AlbumDetail, error)
	UpdateAlbum(ctx context.Context, id uint, in catalog.AlbumInput) (catalog.AlbumDetail, error)
	DeleteAlbum(ctx context.Context, id uint) (catalog.DeleteResult, error)
}

// SongService provides the song operations of the catalog.
type SongService interface {
	ListSongs(ctx context.Context) ([]catalog.SongDetail, error)
	GetSong(ctx context.Context, id uint) (catalog.SongDetail, error)
	CreateSong(ctx context.Context, in catalog.SongInput) (catalog.SongDetail, error)
	UpdateSong(ctx context.Context, id uint, in catalog.SongInput) (catalog.SongDetail, error)
	DeleteSong(ctx context.Context, id uint) (catalog.DeleteResult, error)
}

// StatsProvider counts catalog rows.
type StatsProvider interface {
	Stats(ctx context.Context) (catalog.Stats, error)
}

// MetricsProvider exposes the counters of failures masked from clients.
type MetricsProvider interface {
	Metrics() *catalog.Metrics
}

// CatalogAuditor records catalog writes and deletes.
type CatalogAuditor interface {
	LogWrite(src audit.Source, eventType entities.AuditEventType, entityType string, entityID uint, name string, err error)
	LogDelete(src audit.Source, entityType string, entityID uint, cascadedAlbums, cascadedSongs int64, err error)
}

// CatalogService is everything the router needs from the catalog.
type CatalogService interface {
	ArtistService
	AlbumService
	SongService
	StatsProvider
	MetricsProvider
}

// auditTrail is a nil-safe CatalogAuditor. Requests rejected with 400 or
// 404 changed nothing and are not recorded.
type auditTrail struct {
	auditor CatalogAuditor
}

func (a auditTrail) write(src audit.Source, eventType entities.AuditEventType, entityType string, id uint, name string, err error) {
	if a.auditor != nil && auditable(err) {
		a.auditor.LogWrite(src, eventType, entityType, id, name, err)
	}
}

func (a auditTrail) delete(src audit.Source, entityType string, result catalog.DeleteResult, id uint, err error) {
	if a.auditor != nil && auditable(err) {
		a.auditor.LogDelete(src, entityType, id, result.CascadedAlbums, result.CascadedSongs, err)
	}
}

func nameOf(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

func auditable(err error) bool {
	return !errors.Is(err, catalog.ErrNotFound) && !errors.Is(err, catalog.ErrInvalidInput)
}
