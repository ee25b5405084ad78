package music

import (
	"context"

	"github.com/mrlokans/music-library/internal/entities"
)

// DuplicateArtistNames lists artist names held by more than one row. Name
// resolution silently picks one of these rows.
func (r *Repository) DuplicateArtistNames(ctx context.Context) ([]entities.NameCount, error) {
	var dups []entities.NameCount
	err := r.conn(ctx).Model(&entities.Artist{}).
		Select("name, COUNT(*) AS count").
		Group("name").
		Having("COUNT(*) > 1").
		Order("count DESC, name ASC").
		Scan(&dups).Error
	return dups, err
}

// DuplicateAlbumNames lists album names held by more than one album of the
// same artist, which is the scope album resolution searches.
func (r *Repository) DuplicateAlbumNames(ctx context.Context) ([]entities.NameCount, error) {
	var dups []entities.NameCount
	err := r.conn(ctx).Model(&entities.Album{}).
		Select("name, artist_id, COUNT(*) AS count").
		Group("name, artist_id").
		Having("COUNT(*) > 1").
		Order("count DESC, name ASC").
		Scan(&dups).Error
	return dups, err
}

// OrphanSongs returns songs with neither an artist nor an album, which
// detaching leaves behind.
func (r *Repository) OrphanSongs(ctx context.Context) ([]entities.Song, error) {
	var songs []entities.Song
	err := r.conn(ctx).Where("artist_id IS NULL AND album_id IS NULL").Order("id ASC").Find(&songs).Error
	return songs, err
}
