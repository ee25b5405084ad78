package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/music-library/internal/entities"
)

// DuplicateFinder lists names that resolve ambiguously.
type DuplicateFinder interface {
	DuplicateArtistNames(ctx context.Context) ([]entities.NameCount, error)
	DuplicateAlbumNames(ctx context.Context) ([]entities.NameCount, error)
}

// MaintenanceRecorder stores the outcome of a maintenance run.
type MaintenanceRecorder interface {
	LogMaintenance(action, description string, metadata map[string]any, err error)
}

// ReportDuplicateNamesTask finds artist names, and album names within one
// artist, that more than one row shares. Name resolution picks one of
// those rows arbitrarily, so the report is how operators spot ambiguity.
// Nothing is merged.
type ReportDuplicateNamesTask struct{}

func (t ReportDuplicateNamesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        TypeReportDuplicateNames,
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

// ReportDuplicateNamesProcessor creates a processor function for ReportDuplicateNamesTask.
func ReportDuplicateNamesProcessor(finder DuplicateFinder, recorder MaintenanceRecorder) backlite.QueueProcessor[ReportDuplicateNamesTask] {
	return func(ctx context.Context, task ReportDuplicateNamesTask) error {
		if finder == nil {
			return fmt.Errorf("duplicate finder not configured")
		}

		artists, err := finder.DuplicateArtistNames(ctx)
		if err != nil {
			record(recorder, TypeReportDuplicateNames, "Duplicate name report failed", nil, err)
			return fmt.Errorf("find duplicate artist names: %w", err)
		}
		albums, err := finder.DuplicateAlbumNames(ctx)
		if err != nil {
			record(recorder, TypeReportDuplicateNames, "Duplicate name report failed", nil, err)
			return fmt.Errorf("find duplicate album names: %w", err)
		}

		for _, dup := range artists {
			log.Printf("[TASK] Artist name %q is shared by %d rows", dup.Name, dup.Count)
		}
		for _, dup := range albums {
			if dup.ArtistID != nil {
				log.Printf("[TASK] Album name %q is shared by %d rows of artist %d", dup.Name, dup.Count, *dup.ArtistID)
			} else {
				log.Printf("[TASK] Album name %q is shared by %d rows without an artist", dup.Name, dup.Count)
			}
		}

		description := fmt.Sprintf("Found %d ambiguous artist names and %d ambiguous album names", len(artists), len(albums))
		log.Printf("[TASK] %s", description)
		record(recorder, TypeReportDuplicateNames, description, map[string]any{
			"artists": artists,
			"albums":  albums,
		}, nil)
		return nil
	}
}

// NewReportDuplicateNamesQueue creates a backlite queue for duplicate name reports.
func NewReportDuplicateNamesQueue(finder DuplicateFinder, recorder MaintenanceRecorder) backlite.Queue {
	return backlite.NewQueue(ReportDuplicateNamesProcessor(finder, recorder))
}

func record(recorder MaintenanceRecorder, action, description string, metadata map[string]any, err error) {
	if recorder != nil {
		recorder.LogMaintenance(action, description, metadata, err)
	}
}
