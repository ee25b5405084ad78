package catalog

import (
	"context"
	"fmt"
)

// DeleteResult describes a completed delete. The cascaded counts are the
// dependents observed just before the delete ran, so a concurrent write
// can make them slightly off.
type DeleteResult struct {
	ID             uint   `json:"id"`
	Kind           string `json:"kind"`
	CascadedAlbums int64  `json:"cascaded_albums"`
	CascadedSongs  int64  `json:"cascaded_songs"`
}

// Deleter removes primary rows. Dependent rows go with them through the
// store's ON DELETE CASCADE constraints, so there is never an application
// level walk over children.
type Deleter struct {
	store Store
}

func NewDeleter(store Store) *Deleter {
	return &Deleter{store: store}
}

func (d *Deleter) bind(store Store) *Deleter {
	return &Deleter{store: store}
}

// DeleteArtist removes the artist together with its albums and songs.
func (d *Deleter) DeleteArtist(ctx context.Context, id uint) (DeleteResult, error) {
	result := DeleteResult{ID: id, Kind: "artist"}

	albums, songs, err := d.store.CountArtistDependents(ctx, id)
	if err != nil {
		logf(ctx, "Failed to count dependents of artist %d: %v", id, err)
	} else {
		result.CascadedAlbums, result.CascadedSongs = albums, songs
	}

	rows, err := d.store.DeleteArtist(ctx, id)
	if err != nil {
		return DeleteResult{}, wrapStoreErr(fmt.Sprintf("delete artist %d", id), err)
	}
	if rows == 0 {
		return DeleteResult{}, fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	logf(ctx, "Deleted artist %d (%d albums, %d songs cascaded)", id, result.CascadedAlbums, result.CascadedSongs)
	return result, nil
}

// DeleteAlbum removes the album and its songs.
func (d *Deleter) DeleteAlbum(ctx context.Context, id uint) (DeleteResult, error) {
	result := DeleteResult{ID: id, Kind: "album"}

	songs, err := d.store.CountAlbumDependents(ctx, id)
	if err != nil {
		logf(ctx, "Failed to count dependents of album %d: %v", id, err)
	} else {
		result.CascadedSongs = songs
	}

	rows, err := d.store.DeleteAlbum(ctx, id)
	if err != nil {
		return DeleteResult{}, wrapStoreErr(fmt.Sprintf("delete album %d", id), err)
	}
	if rows == 0 {
		return DeleteResult{}, fmt.Errorf("album %d: %w", id, ErrNotFound)
	}
	logf(ctx, "Deleted album %d (%d songs cascaded)", id, result.CascadedSongs)
	return result, nil
}

func (d *Deleter) DeleteSong(ctx context.Context, id uint) (DeleteResult, error) {
	rows, err := d.store.DeleteSong(ctx, id)
	if err != nil {
		return DeleteResult{}, wrapStoreErr(fmt.Sprintf("delete song %d", id), err)
	}
	if rows == 0 {
		return DeleteResult{}, fmt.Errorf("song %d: %w", id, ErrNotFound)
	}
	return DeleteResult{ID: id, Kind: "song"}, nil
}
