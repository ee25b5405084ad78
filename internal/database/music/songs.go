package music

import (
	"context"

	"github.com/mrlokans/music-library/internal/entities"
)

func (r *Repository) CreateSong(ctx context.Context, song *entities.Song) error {
	return r.conn(ctx).Create(song).Error
}

func (r *Repository) GetSong(ctx context.Context, id uint) (*entities.Song, error) {
	var song entities.Song
	if err := r.conn(ctx).First(&song, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &song, nil
}

func (r *Repository) ListSongs(ctx context.Context) ([]entities.Song, error) {
	var songs []entities.Song
	err := r.conn(ctx).Order("id ASC").Find(&songs).Error
	return songs, err
}

func (r *Repository) ListSongsByArtist(ctx context.Context, artistID uint) ([]entities.Song, error) {
	var songs []entities.Song
	err := r.conn(ctx).Where("artist_id = ?", artistID).Order("id ASC").Find(&songs).Error
	return songs, err
}

func (r *Repository) ListSongsByAlbum(ctx context.Context, albumID uint) ([]entities.Song, error) {
	var songs []entities.Song
	err := r.conn(ctx).Where("album_id = ?", albumID).Order("id ASC").Find(&songs).Error
	return songs, err
}

func (r *Repository) SongIDsByArtist(ctx context.Context, artistID uint) ([]uint, error) {
	var ids []uint
	err := r.conn(ctx).Model(&entities.Song{}).Where("artist_id = ?", artistID).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) SongIDsByAlbum(ctx context.Context, albumID uint) ([]uint, error) {
	var ids []uint
	err := r.conn(ctx).Model(&entities.Song{}).Where("album_id = ?", albumID).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) SetSongArtist(ctx context.Context, songID uint, artistID *uint) (int64, error) {
	result := r.conn(ctx).Model(&entities.Song{}).Where("id = ?", songID).Update("artist_id", nullable(artistID))
	return result.RowsAffected, result.Error
}

func (r *Repository) SetSongAlbum(ctx context.Context, songID uint, albumID *uint) (int64, error) {
	result := r.conn(ctx).Model(&entities.Song{}).Where("id = ?", songID).Update("album_id", nullable(albumID))
	return result.RowsAffected, result.Error
}

func (r *Repository) UpdateSong(ctx context.Context, song *entities.Song) (int64, error) {
	result := r.conn(ctx).Model(&entities.Song{}).Where("id = ?", song.ID).Updates(map[string]any{
		"name":         song.Name,
		"artist_id":    nullable(song.ArtistID),
		"album_id":     nullable(song.AlbumID),
		"release_year": nullable(song.ReleaseYear),
	})
	return result.RowsAffected, result.Error
}

func (r *Repository) DeleteSong(ctx context.Context, id uint) (int64, error) {
	result := r.conn(ctx).Delete(&entities.Song{}, id)
	return result.RowsAffected, result.Error
}

func (r *Repository) CountSongs(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&entities.Song{}).Count(&count).Error
	return count, err
}
