package music

import (
	"context"

	"github.com/mrlokans/music-library/internal/entities"
)

func (r *Repository) CreateArtist(ctx context.Context, artist *entities.Artist) error {
	return r.conn(ctx).Omit("Albums", "Songs").Create(artist).Error
}

func (r *Repository) GetArtist(ctx context.Context, id uint) (*entities.Artist, error) {
	var artist entities.Artist
	if err := r.conn(ctx).First(&artist, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &artist, nil
}

func (r *Repository) FindArtistsByName(ctx context.Context, name string) ([]entities.Artist, error) {
	var artists []entities.Artist
	err := r.conn(ctx).Where(r.nameEquals(), name).Find(&artists).Error
	return artists, err
}

func (r *Repository) ListArtists(ctx context.Context) ([]entities.Artist, error) {
	var artists []entities.Artist
	err := r.conn(ctx).Order("id ASC").Find(&artists).Error
	return artists, err
}

// UpdateArtist writes every column of artist, zero values included.
func (r *Repository) UpdateArtist(ctx context.Context, artist *entities.Artist) (int64, error) {
	result := r.conn(ctx).Model(&entities.Artist{}).Where("id = ?", artist.ID).Updates(map[string]any{
		"name":              artist.Name,
		"monthly_listeners": artist.MonthlyListeners,
		"genre":             artist.Genre,
	})
	return result.RowsAffected, result.Error
}

// DeleteArtist removes the artist row; the schema cascades to its albums
// and songs.
func (r *Repository) DeleteArtist(ctx context.Context, id uint) (int64, error) {
	result := r.conn(ctx).Delete(&entities.Artist{}, id)
	return result.RowsAffected, result.Error
}

func (r *Repository) CountArtists(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&entities.Artist{}).Count(&count).Error
	return count, err
}

// CountArtistDependents counts the artist's albums and every song that a
// delete would remove: its own songs plus the songs on its albums.
func (r *Repository) CountArtistDependents(ctx context.Context, id uint) (int64, int64, error) {
	var albums, songs int64
	if err := r.conn(ctx).Model(&entities.Album{}).Where("artist_id = ?", id).Count(&albums).Error; err != nil {
		return 0, 0, err
	}

	albumIDs := r.conn(ctx).Model(&entities.Album{}).Select("id").Where("artist_id = ?", id)
	err := r.conn(ctx).Model(&entities.Song{}).
		Where("artist_id = ? OR album_id IN (?)", id, albumIDs).
		Count(&songs).Error
	if err != nil {
		return 0, 0, err
	}
	return albums, songs, nil
}
