package tasks

import (
	"fmt"

	"github.com/mikestefanello/backlite"
)

const (
	TypeCleanupAuditEvents   = "cleanup_audit_events"
	TypeReportDuplicateNames = "report_duplicate_names"
	TypeReportOrphanSongs    = "report_orphan_songs"
)

// TaskTypeInfo describes a task that can be triggered manually.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// Types lists the task types in the order maintenance runs them.
func Types() []TaskTypeInfo {
	return []TaskTypeInfo{
		{
			Type:        TypeCleanupAuditEvents,
			Description: "Delete audit events older than the retention period",
			Queue:       TypeCleanupAuditEvents,
		},
		{
			Type:        TypeReportDuplicateNames,
			Description: "Report artist and album names shared by several rows",
			Queue:       TypeReportDuplicateNames,
		},
		{
			Type:        TypeReportOrphanSongs,
			Description: "Report songs with neither an artist nor an album",
			Queue:       TypeReportOrphanSongs,
		},
	}
}

// NewTask builds the task for taskType. retentionDays only applies to
// audit cleanup.
func NewTask(taskType string, retentionDays int) (backlite.Task, error) {
	switch taskType {
	case TypeCleanupAuditEvents:
		return CleanupAuditEventsTask{RetentionDays: retentionDays}, nil
	case TypeReportDuplicateNames:
		return ReportDuplicateNamesTask{}, nil
	case TypeReportOrphanSongs:
		return ReportOrphanSongsTask{}, nil
	default:
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}
}

// Dependencies are the stores the maintenance queues work against.
type Dependencies struct {
	AuditCleaner AuditEventCleaner
	Duplicates   DuplicateFinder
	Orphans      OrphanFinder
	Recorder     MaintenanceRecorder
}

// RegisterMaintenance registers every maintenance queue with the client.
func RegisterMaintenance(client *Client, deps Dependencies) {
	client.Register(
		NewCleanupAuditEventsQueue(deps.AuditCleaner),
		NewReportDuplicateNamesQueue(deps.Duplicates, deps.Recorder),
		NewReportOrphanSongsQueue(deps.Orphans, deps.Recorder),
	)
}
