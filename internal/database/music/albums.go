package music

import (
	"context"

	"github.com/mrlokans/music-library/internal/entities"
)

func (r *Repository) CreateAlbum(ctx context.Context, album *entities.Album) error {
	return r.conn(ctx).Omit("Songs").Create(album).Error
}

func (r *Repository) GetAlbum(ctx context.Context, id uint) (*entities.Album, error) {
	var album entities.Album
	if err := r.conn(ctx).First(&album, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &album, nil
}

// FindAlbumsByName matches albums of one artist, or albums without an
// artist when artistID is nil.
func (r *Repository) FindAlbumsByName(ctx context.Context, name string, artistID *uint) ([]entities.Album, error) {
	query := r.conn(ctx).Where(r.nameEquals(), name)
	if artistID != nil {
		query = query.Where("artist_id = ?", *artistID)
	} else {
		query = query.Where("artist_id IS NULL")
	}

	var albums []entities.Album
	err := query.Find(&albums).Error
	return albums, err
}

func (r *Repository) ListAlbums(ctx context.Context) ([]entities.Album, error) {
	var albums []entities.Album
	err := r.conn(ctx).Order("id ASC").Find(&albums).Error
	return albums, err
}

func (r *Repository) ListAlbumsByArtist(ctx context.Context, artistID uint) ([]entities.Album, error) {
	var albums []entities.Album
	err := r.conn(ctx).Where("artist_id = ?", artistID).Order("id ASC").Find(&albums).Error
	return albums, err
}

func (r *Repository) AlbumIDsByArtist(ctx context.Context, artistID uint) ([]uint, error) {
	var ids []uint
	err := r.conn(ctx).Model(&entities.Album{}).Where("artist_id = ?", artistID).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// SetAlbumArtist points the album at artistID, or detaches it when nil.
func (r *Repository) SetAlbumArtist(ctx context.Context, albumID uint, artistID *uint) (int64, error) {
	result := r.conn(ctx).Model(&entities.Album{}).Where("id = ?", albumID).Update("artist_id", nullable(artistID))
	return result.RowsAffected, result.Error
}

// UpdateAlbum writes every column of album, zero values and NULLs included.
func (r *Repository) UpdateAlbum(ctx context.Context, album *entities.Album) (int64, error) {
	result := r.conn(ctx).Model(&entities.Album{}).Where("id = ?", album.ID).Updates(map[string]any{
		"name":         album.Name,
		"artist_id":    nullable(album.ArtistID),
		"release_year": nullable(album.ReleaseYear),
		"num_listens":  album.NumListens,
	})
	return result.RowsAffected, result.Error
}

// DeleteAlbum removes the album row; the schema cascades to its songs.
func (r *Repository) DeleteAlbum(ctx context.Context, id uint) (int64, error) {
	result := r.conn(ctx).Delete(&entities.Album{}, id)
	return result.RowsAffected, result.Error
}

func (r *Repository) CountAlbums(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&entities.Album{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountAlbumDependents(ctx context.Context, id uint) (int64, error) {
	var songs int64
	err := r.conn(ctx).Model(&entities.Song{}).Where("album_id = ?", id).Count(&songs).Error
	return songs, err
}
