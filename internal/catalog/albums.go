package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/music-library/internal/entities"
)

func (s *Service) ListAlbums(ctx context.Context) ([]AlbumDetail, error) {
	albums, err := s.store.ListAlbums(ctx)
	if err != nil {
		return nil, wrapStoreErr("list albums", err)
	}
	return s.aggregator.ExpandAlbums(ctx, albums), nil
}

func (s *Service) GetAlbum(ctx context.Context, id uint) (AlbumDetail, error) {
	album, err := s.store.GetAlbum(ctx, id)
	if err != nil {
		return AlbumDetail{}, wrapStoreErr("get album", err)
	}
	return s.aggregator.ExpandAlbum(ctx, *album), nil
}

// CreateAlbum resolves the artist by id or name, inserts the album and
// then creates or attaches the listed songs.
func (s *Service) CreateAlbum(ctx context.Context, in AlbumInput) (AlbumDetail, error) {
	name, err := requireName("album", in.Name)
	if err != nil {
		return AlbumDetail{}, err
	}

	var id uint
	err = s.write(ctx, func(p pipeline) error {
		artistID, err := p.resolver.ResolveArtist(ctx, in.ArtistRef())
		if err != nil {
			return err
		}

		album := &entities.Album{
			Name:        name,
			ArtistID:    artistID,
			ReleaseYear: in.ReleaseYear,
			NumListens:  valueOr(in.NumListens, 0),
		}
		if err := p.store.CreateAlbum(ctx, album); err != nil {
			return wrapStoreErr("create album", err)
		}
		id = album.ID

		if in.Songs == nil {
			return nil
		}
		return p.reconciled(p.sync.ReconcileAlbumSongs(ctx, album.ID, album.ArtistID, album.ReleaseYear, in.Songs))
	})
	if err != nil {
		return AlbumDetail{}, err
	}
	return s.GetAlbum(ctx, id)
}

// UpdateAlbum applies the non-nil fields of in. The artist is only
// re-resolved when the input names one; an artistId of 0 clears it.
func (s *Service) UpdateAlbum(ctx context.Context, id uint, in AlbumInput) (AlbumDetail, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return AlbumDetail{}, invalidInput("album name must not be empty")
	}

	err := s.write(ctx, func(p pipeline) error {
		album, err := p.store.GetAlbum(ctx, id)
		if err != nil {
			return wrapStoreErr("get album", err)
		}

		if ref := in.ArtistRef(); ref.Provided() {
			artistID, err := p.resolver.ResolveArtist(ctx, ref)
			if err != nil {
				return err
			}
			album.ArtistID = artistID
		}
		album.Name = valueOr(in.Name, album.Name)
		album.NumListens = valueOr(in.NumListens, album.NumListens)
		if in.ReleaseYear != nil {
			album.ReleaseYear = in.ReleaseYear
		}

		rows, err := p.store.UpdateAlbum(ctx, album)
		if err != nil {
			return wrapStoreErr("update album", err)
		}
		if rows == 0 {
			return fmt.Errorf("album %d: %w", id, ErrNotFound)
		}

		if in.Songs == nil {
			return nil
		}
		return p.reconciled(p.sync.ReconcileAlbumSongs(ctx, album.ID, album.ArtistID, album.ReleaseYear, in.Songs))
	})
	if err != nil {
		return AlbumDetail{}, err
	}
	return s.GetAlbum(ctx, id)
}

func (s *Service) DeleteAlbum(ctx context.Context, id uint) (DeleteResult, error) {
	var result DeleteResult
	err := s.write(ctx, func(p pipeline) error {
		var err error
		result, err = p.deleter.DeleteAlbum(ctx, id)
		return err
	})
	return result, err
}
