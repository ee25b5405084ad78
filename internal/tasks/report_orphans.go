package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/music-library/internal/entities"
)

const maxReportedOrphans = 100

// OrphanFinder lists songs that have lost both parents.
type OrphanFinder interface {
	OrphanSongs(ctx context.Context) ([]entities.Song, error)
}

// ReportOrphanSongsTask reports songs with neither an artist nor an album.
// Detaching children never deletes them, so these accumulate over time.
type ReportOrphanSongsTask struct{}

func (t ReportOrphanSongsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        TypeReportOrphanSongs,
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReportOrphanSongsProcessor creates a processor function for ReportOrphanSongsTask.
func ReportOrphanSongsProcessor(finder OrphanFinder, recorder MaintenanceRecorder) backlite.QueueProcessor[ReportOrphanSongsTask] {
	return func(ctx context.Context, task ReportOrphanSongsTask) error {
		if finder == nil {
			return fmt.Errorf("orphan finder not configured")
		}

		songs, err := finder.OrphanSongs(ctx)
		if err != nil {
			record(recorder, TypeReportOrphanSongs, "Orphan song report failed", nil, err)
			return fmt.Errorf("find orphan songs: %w", err)
		}

		ids := make([]uint, 0, len(songs))
		for i, song := range songs {
			if i >= maxReportedOrphans {
				break
			}
			ids = append(ids, song.ID)
		}

		description := fmt.Sprintf("Found %d songs without artist or album", len(songs))
		log.Printf("[TASK] %s", description)
		record(recorder, TypeReportOrphanSongs, description, map[string]any{
			"count":    len(songs),
			"song_ids": ids,
		}, nil)
		return nil
	}
}

// NewReportOrphanSongsQueue creates a backlite queue for orphan song reports.
func NewReportOrphanSongsQueue(finder OrphanFinder, recorder MaintenanceRecorder) backlite.Queue {
	return backlite.NewQueue(ReportOrphanSongsProcessor(finder, recorder))
}
