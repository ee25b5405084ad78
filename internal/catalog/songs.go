package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/music-library/internal/entities"
)

func (s *Service) ListSongs(ctx context.Context) ([]SongDetail, error) {
	songs, err := s.store.ListSongs(ctx)
	if err != nil {
		return nil, wrapStoreErr("list songs", err)
	}
	return s.aggregator.ExpandSongs(ctx, songs), nil
}

func (s *Service) GetSong(ctx context.Context, id uint) (SongDetail, error) {
	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return SongDetail{}, wrapStoreErr("get song", err)
	}
	return s.aggregator.ExpandSong(ctx, *song), nil
}

// CreateSong finds or creates both parents. The album is looked up among
// the resolved artist's albums and, if new, is created under that artist
// with the song's release year.
func (s *Service) CreateSong(ctx context.Context, in SongInput) (SongDetail, error) {
	name, err := requireName("song", in.Name)
	if err != nil {
		return SongDetail{}, err
	}

	var id uint
	err = s.write(ctx, func(p pipeline) error {
		artistID, err := p.resolver.ResolveArtist(ctx, in.ArtistRef())
		if err != nil {
			return err
		}
		albumID, err := p.resolver.ResolveAlbum(ctx, in.AlbumRef(), artistID, in.ReleaseYear)
		if err != nil {
			return err
		}

		song := &entities.Song{
			Name:        name,
			ArtistID:    artistID,
			AlbumID:     albumID,
			ReleaseYear: in.ReleaseYear,
		}
		if err := p.store.CreateSong(ctx, song); err != nil {
			return wrapStoreErr("create song", err)
		}
		id = song.ID
		return nil
	})
	if err != nil {
		return SongDetail{}, err
	}
	return s.GetSong(ctx, id)
}

// UpdateSong applies the non-nil fields of in. Artist and album keep their
// current values unless the input references them.
func (s *Service) UpdateSong(ctx context.Context, id uint, in SongInput) (SongDetail, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return SongDetail{}, invalidInput("song name must not be empty")
	}

	err := s.write(ctx, func(p pipeline) error {
		song, err := p.store.GetSong(ctx, id)
		if err != nil {
			return wrapStoreErr("get song", err)
		}

		song.Name = valueOr(in.Name, song.Name)
		if in.ReleaseYear != nil {
			song.ReleaseYear = in.ReleaseYear
		}
		if ref := in.ArtistRef(); ref.Provided() {
			artistID, err := p.resolver.ResolveArtist(ctx, ref)
			if err != nil {
				return err
			}
			song.ArtistID = artistID
		}
		if ref := in.AlbumRef(); ref.Provided() {
			albumID, err := p.resolver.ResolveAlbum(ctx, ref, song.ArtistID, song.ReleaseYear)
			if err != nil {
				return err
			}
			song.AlbumID = albumID
		}

		rows, err := p.store.UpdateSong(ctx, song)
		if err != nil {
			return wrapStoreErr("update song", err)
		}
		if rows == 0 {
			return fmt.Errorf("song %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return SongDetail{}, err
	}
	return s.GetSong(ctx, id)
}

func (s *Service) DeleteSong(ctx context.Context, id uint) (DeleteResult, error) {
	var result DeleteResult
	err := s.write(ctx, func(p pipeline) error {
		var err error
		result, err = p.deleter.DeleteSong(ctx, id)
		return err
	})
	return result, err
}
