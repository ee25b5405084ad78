package catalog

import (
	"context"
	"errors"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"

	"github.com/mrlokans/music-library/internal/entities"
)

// ArtistDetail is an artist with its albums and songs.
type ArtistDetail struct {
	entities.Artist
	Albums []entities.Album `json:"albums"`
	Songs  []entities.Song  `json:"songs"`
}

// AlbumDetail is an album with its songs and the name of its artist.
type AlbumDetail struct {
	entities.Album
	ArtistName *string         `json:"artist_name"`
	Songs      []entities.Song `json:"songs"`
}

// SongDetail is a song with the names of its artist and album.
type SongDetail struct {
	entities.Song
	ArtistName *string `json:"artist_name"`
	AlbumName  *string `json:"album_name"`
}

// Aggregator expands primary rows into composite records. Rows are
// expanded concurrently and each row's sub-queries run concurrently too.
// Output order always matches input order. A failed sub-query degrades
// to an empty collection or a null name for that row only.
type Aggregator struct {
	store          Store
	metrics        *Metrics
	maxConcurrency int
}

func NewAggregator(store Store, metrics *Metrics, maxConcurrency int) *Aggregator {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Aggregator{store: store, metrics: metrics, maxConcurrency: maxConcurrency}
}

func (a *Aggregator) ExpandArtists(ctx context.Context, artists []entities.Artist) []ArtistDetail {
	mapper := iter.Mapper[entities.Artist, ArtistDetail]{MaxGoroutines: a.maxConcurrency}
	return mapper.Map(artists, func(artist *entities.Artist) ArtistDetail {
		return a.expandArtist(ctx, *artist)
	})
}

func (a *Aggregator) ExpandArtist(ctx context.Context, artist entities.Artist) ArtistDetail {
	return a.expandArtist(ctx, artist)
}

func (a *Aggregator) expandArtist(ctx context.Context, artist entities.Artist) ArtistDetail {
	detail := ArtistDetail{
		Artist: artist,
		Albums: []entities.Album{},
		Songs:  []entities.Song{},
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		albums, err := a.store.ListAlbumsByArtist(ctx, artist.ID)
		if err != nil {
			a.partial(ctx, "albums of artist", artist.ID, err)
			return
		}
		if albums != nil {
			detail.Albums = albums
		}
	})
	wg.Go(func() {
		songs, err := a.store.ListSongsByArtist(ctx, artist.ID)
		if err != nil {
			a.partial(ctx, "songs of artist", artist.ID, err)
			return
		}
		if songs != nil {
			detail.Songs = songs
		}
	})
	wg.Wait()

	return detail
}

func (a *Aggregator) ExpandAlbums(ctx context.Context, albums []entities.Album) []AlbumDetail {
	mapper := iter.Mapper[entities.Album, AlbumDetail]{MaxGoroutines: a.maxConcurrency}
	return mapper.Map(albums, func(album *entities.Album) AlbumDetail {
		return a.expandAlbum(ctx, *album)
	})
}

func (a *Aggregator) ExpandAlbum(ctx context.Context, album entities.Album) AlbumDetail {
	return a.expandAlbum(ctx, album)
}

func (a *Aggregator) expandAlbum(ctx context.Context, album entities.Album) AlbumDetail {
	detail := AlbumDetail{
		Album: album,
		Songs: []entities.Song{},
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		songs, err := a.store.ListSongsByAlbum(ctx, album.ID)
		if err != nil {
			a.partial(ctx, "songs of album", album.ID, err)
			return
		}
		if songs != nil {
			detail.Songs = songs
		}
	})
	if album.ArtistID != nil {
		wg.Go(func() {
			detail.ArtistName = a.artistName(ctx, *album.ArtistID)
		})
	}
	wg.Wait()

	return detail
}

func (a *Aggregator) ExpandSongs(ctx context.Context, songs []entities.Song) []SongDetail {
	mapper := iter.Mapper[entities.Song, SongDetail]{MaxGoroutines: a.maxConcurrency}
	return mapper.Map(songs, func(song *entities.Song) SongDetail {
		return a.expandSong(ctx, *song)
	})
}

func (a *Aggregator) ExpandSong(ctx context.Context, song entities.Song) SongDetail {
	return a.expandSong(ctx, song)
}

func (a *Aggregator) expandSong(ctx context.Context, song entities.Song) SongDetail {
	detail := SongDetail{Song: song}

	var wg conc.WaitGroup
	if song.ArtistID != nil {
		wg.Go(func() {
			detail.ArtistName = a.artistName(ctx, *song.ArtistID)
		})
	}
	if song.AlbumID != nil {
		wg.Go(func() {
			album, err := a.store.GetAlbum(ctx, *song.AlbumID)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					a.partial(ctx, "album name of album", *song.AlbumID, err)
				}
				return
			}
			detail.AlbumName = &album.Name
		})
	}
	wg.Wait()

	return detail
}

func (a *Aggregator) artistName(ctx context.Context, id uint) *string {
	artist, err := a.store.GetArtist(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.partial(ctx, "artist name of artist", id, err)
		}
		return nil
	}
	return &artist.Name
}

func (a *Aggregator) partial(ctx context.Context, what string, id uint, err error) {
	a.metrics.addPartialAggregation()
	logf(ctx, "Failed to load %s %d, returning it empty: %v", what, id, err)
}
