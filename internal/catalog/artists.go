package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/music-library/internal/entities"
)

func (s *Service) ListArtists(ctx context.Context) ([]ArtistDetail, error) {
	artists, err := s.store.ListArtists(ctx)
	if err != nil {
		return nil, wrapStoreErr("list artists", err)
	}
	return s.aggregator.ExpandArtists(ctx, artists), nil
}

func (s *Service) GetArtist(ctx context.Context, id uint) (ArtistDetail, error) {
	artist, err := s.store.GetArtist(ctx, id)
	if err != nil {
		return ArtistDetail{}, wrapStoreErr("get artist", err)
	}
	return s.aggregator.ExpandArtist(ctx, *artist), nil
}

// CreateArtist inserts the artist and then creates or attaches the
// albums and songs listed in the input. Albums are reconciled first so
// songs can name albums created by the same request.
func (s *Service) CreateArtist(ctx context.Context, in ArtistInput) (ArtistDetail, error) {
	name, err := requireName("artist", in.Name)
	if err != nil {
		return ArtistDetail{}, err
	}

	var id uint
	err = s.write(ctx, func(p pipeline) error {
		artist := &entities.Artist{
			Name:             name,
			MonthlyListeners: valueOr(in.MonthlyListeners, 0),
			Genre:            valueOr(in.Genre, DefaultGenre),
		}
		if err := p.store.CreateArtist(ctx, artist); err != nil {
			return wrapStoreErr("create artist", err)
		}
		id = artist.ID
		return p.reconcileArtistChildren(ctx, id, in)
	})
	if err != nil {
		return ArtistDetail{}, err
	}
	return s.GetArtist(ctx, id)
}

// UpdateArtist applies the non-nil fields of in to the artist and
// reconciles whichever child lists were given.
func (s *Service) UpdateArtist(ctx context.Context, id uint, in ArtistInput) (ArtistDetail, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ArtistDetail{}, invalidInput("artist name must not be empty")
	}

	err := s.write(ctx, func(p pipeline) error {
		artist, err := p.store.GetArtist(ctx, id)
		if err != nil {
			return wrapStoreErr("get artist", err)
		}

		artist.Name = valueOr(in.Name, artist.Name)
		artist.MonthlyListeners = valueOr(in.MonthlyListeners, artist.MonthlyListeners)
		artist.Genre = valueOr(in.Genre, artist.Genre)

		rows, err := p.store.UpdateArtist(ctx, artist)
		if err != nil {
			return wrapStoreErr("update artist", err)
		}
		if rows == 0 {
			return fmt.Errorf("artist %d: %w", id, ErrNotFound)
		}
		return p.reconcileArtistChildren(ctx, id, in)
	})
	if err != nil {
		return ArtistDetail{}, err
	}
	return s.GetArtist(ctx, id)
}

func (s *Service) DeleteArtist(ctx context.Context, id uint) (DeleteResult, error) {
	var result DeleteResult
	err := s.write(ctx, func(p pipeline) error {
		var err error
		result, err = p.deleter.DeleteArtist(ctx, id)
		return err
	})
	return result, err
}

func (p pipeline) reconcileArtistChildren(ctx context.Context, artistID uint, in ArtistInput) error {
	if in.Albums != nil {
		if err := p.reconciled(p.sync.ReconcileArtistAlbums(ctx, artistID, in.Albums)); err != nil {
			return err
		}
	}
	if in.Songs == nil {
		return nil
	}

	albumsByName := map[string]uint{}
	albums, err := p.store.ListAlbumsByArtist(ctx, artistID)
	if err != nil {
		if p.strict {
			return wrapStoreErr("list artist albums", err)
		}
		logf(ctx, "Failed to load albums of artist %d, new songs get no album: %v", artistID, err)
	}
	for _, album := range albums {
		if _, seen := albumsByName[album.Name]; !seen {
			albumsByName[album.Name] = album.ID
		}
	}
	return p.reconciled(p.sync.ReconcileArtistSongs(ctx, artistID, in.Songs, albumsByName))
}
