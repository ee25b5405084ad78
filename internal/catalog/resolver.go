package catalog

import (
	"context"
	"strings"

	"github.com/mrlokans/music-library/internal/entities"
)

const (
	// DefaultGenre is stored for artists created by name resolution.
	DefaultGenre = "Unknown"
)

// Resolver turns parent references into ids (find-or-create).
type Resolver struct {
	store   Store
	metrics *Metrics
}

func NewResolver(store Store, metrics *Metrics) *Resolver {
	return &Resolver{store: store, metrics: metrics}
}

// ResolveArtist returns the artist id for ref. Explicit ids are returned
// verbatim without an existence check. A name with no exact match creates
// a new artist with default listener count and genre. An absent ref, or
// an id of 0, resolves to nil.
func (r *Resolver) ResolveArtist(ctx context.Context, ref Ref) (*uint, error) {
	if id, ok := explicitID(ref); ok {
		return id, nil
	}
	if strings.TrimSpace(ref.Name) == "" {
		return nil, nil
	}

	matches, err := r.store.FindArtistsByName(ctx, ref.Name)
	if err != nil {
		return nil, wrapStoreErr("find artist by name", err)
	}
	if len(matches) > 0 {
		if len(matches) > 1 {
			r.metrics.addAmbiguousName()
			logf(ctx, "Artist name %q matches %d rows, using id %d", ref.Name, len(matches), matches[0].ID)
		}
		id := matches[0].ID
		return &id, nil
	}

	artist := &entities.Artist{
		Name:             ref.Name,
		MonthlyListeners: 0,
		Genre:            DefaultGenre,
	}
	if err := r.store.CreateArtist(ctx, artist); err != nil {
		return nil, wrapStoreErr("create artist", err)
	}
	logf(ctx, "Created artist %q (id %d) while resolving a reference", artist.Name, artist.ID)
	return &artist.ID, nil
}

// ResolveAlbum works like ResolveArtist. Name lookups are scoped to
// artistID, and a created album belongs to artistID with releaseYear.
func (r *Resolver) ResolveAlbum(ctx context.Context, ref Ref, artistID *uint, releaseYear *int) (*uint, error) {
	if id, ok := explicitID(ref); ok {
		return id, nil
	}
	if strings.TrimSpace(ref.Name) == "" {
		return nil, nil
	}

	matches, err := r.store.FindAlbumsByName(ctx, ref.Name, artistID)
	if err != nil {
		return nil, wrapStoreErr("find album by name", err)
	}
	if len(matches) > 0 {
		if len(matches) > 1 {
			r.metrics.addAmbiguousName()
			logf(ctx, "Album name %q matches %d rows, using id %d", ref.Name, len(matches), matches[0].ID)
		}
		id := matches[0].ID
		return &id, nil
	}

	album := &entities.Album{
		Name:        ref.Name,
		ArtistID:    artistID,
		ReleaseYear: releaseYear,
		NumListens:  0,
	}
	if err := r.store.CreateAlbum(ctx, album); err != nil {
		return nil, wrapStoreErr("create album", err)
	}
	logf(ctx, "Created album %q (id %d) while resolving a reference", album.Name, album.ID)
	return &album.ID, nil
}

// explicitID reports whether ref carries an id. The returned pointer is
// nil for id 0.
func explicitID(ref Ref) (*uint, bool) {
	if ref.ID == nil {
		return nil, false
	}
	if *ref.ID == 0 {
		return nil, true
	}
	id := *ref.ID
	return &id, true
}
