package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/music-library/internal/entities"
)

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

type fakeFinder struct {
	artists []entities.NameCount
	albums  []entities.NameCount
	orphans []entities.Song
	err     error
}

func (f *fakeFinder) DuplicateArtistNames(ctx context.Context) ([]entities.NameCount, error) {
	return f.artists, f.err
}

func (f *fakeFinder) DuplicateAlbumNames(ctx context.Context) ([]entities.NameCount, error) {
	return f.albums, f.err
}

func (f *fakeFinder) OrphanSongs(ctx context.Context) ([]entities.Song, error) {
	return f.orphans, f.err
}

type recordedRun struct {
	action      string
	description string
	metadata    map[string]any
	err         error
}

type fakeRecorder struct {
	runs []recordedRun
}

func (f *fakeRecorder) LogMaintenance(action, description string, metadata map[string]any, err error) {
	f.runs = append(f.runs, recordedRun{action, description, metadata, err})
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 5}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("falls back to default retention", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, cleaner.retention)
	})

	t.Run("returns cleaner errors", func(t *testing.T) {
		cleaner := &fakeCleaner{err: errors.New("disk full")}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("requires a cleaner", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{})
		assert.Error(t, err)
	})
}

func TestReportDuplicateNamesProcessor(t *testing.T) {
	artistID := uint(3)
	finder := &fakeFinder{
		artists: []entities.NameCount{{Name: "Nirvana", Count: 2}},
		albums:  []entities.NameCount{{Name: "Nevermind", ArtistID: &artistID, Count: 3}},
	}
	recorder := &fakeRecorder{}

	err := ReportDuplicateNamesProcessor(finder, recorder)(context.Background(), ReportDuplicateNamesTask{})
	require.NoError(t, err)

	require.Len(t, recorder.runs, 1)
	run := recorder.runs[0]
	assert.Equal(t, TypeReportDuplicateNames, run.action)
	assert.Contains(t, run.description, "1 ambiguous artist names")
	assert.Contains(t, run.description, "1 ambiguous album names")
	assert.Equal(t, finder.artists, run.metadata["artists"])
	assert.NoError(t, run.err)
}

func TestReportDuplicateNamesProcessorFailure(t *testing.T) {
	finder := &fakeFinder{err: errors.New("connection reset")}
	recorder := &fakeRecorder{}

	err := ReportDuplicateNamesProcessor(finder, recorder)(context.Background(), ReportDuplicateNamesTask{})
	assert.ErrorContains(t, err, "connection reset")

	require.Len(t, recorder.runs, 1)
	assert.Error(t, recorder.runs[0].err)
}

func TestReportOrphanSongsProcessor(t *testing.T) {
	finder := &fakeFinder{orphans: []entities.Song{{ID: 4, Name: "Lost"}, {ID: 9, Name: "Found"}}}
	recorder := &fakeRecorder{}

	err := ReportOrphanSongsProcessor(finder, recorder)(context.Background(), ReportOrphanSongsTask{})
	require.NoError(t, err)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, 2, recorder.runs[0].metadata["count"])
	assert.Equal(t, []uint{4, 9}, recorder.runs[0].metadata["song_ids"])
}

func TestReportOrphanSongsProcessorWithoutRecorder(t *testing.T) {
	err := ReportOrphanSongsProcessor(&fakeFinder{}, nil)(context.Background(), ReportOrphanSongsTask{})
	assert.NoError(t, err)
}

func TestNewTask(t *testing.T) {
	for _, info := range Types() {
		task, err := NewTask(info.Type, 10)
		require.NoError(t, err, info.Type)
		assert.Equal(t, info.Queue, task.Config().Name)
	}

	task, err := NewTask(TypeCleanupAuditEvents, 10)
	require.NoError(t, err)
	assert.Equal(t, CleanupAuditEventsTask{RetentionDays: 10}, task)

	_, err = NewTask("enrich_everything", 0)
	assert.Error(t, err)
}
