package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/music-library/internal/database/audit"
	"github.com/mrlokans/music-library/internal/entities"
)

// Source identifies the request behind an audited change.
type Source struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush blocks until every event passed to LogAsync has been written.
func (s *Service) Flush() {
	s.wg.Wait()
}

// LogWrite records a create or update of an artist, album or song.
func (s *Service) LogWrite(src Source, eventType entities.AuditEventType, entityType string, entityID uint, name string, err error) {
	event := s.newEvent(src, eventType, entityType+"_"+string(eventType))
	event.EntityType = entityType
	if entityID > 0 {
		event.EntityID = &entityID
	}

	verb := "Created"
	if eventType == entities.AuditEventUpdate {
		verb = "Updated"
	}
	event.Description = truncate(fmt.Sprintf("%s %s: %s", verb, entityType, name), 500)
	setError(event, err)

	s.LogAsync(event)
}

// LogDelete records a deletion and the number of rows it cascaded to.
func (s *Service) LogDelete(src Source, entityType string, entityID uint, cascadedAlbums, cascadedSongs int64, err error) {
	event := s.newEvent(src, entities.AuditEventDelete, entityType+"_delete")
	event.EntityType = entityType
	event.EntityID = &entityID
	event.Description = fmt.Sprintf("Deleted %s %d", entityType, entityID)
	setMetadata(event, map[string]any{
		"cascaded_albums": cascadedAlbums,
		"cascaded_songs":  cascadedSongs,
	})
	setError(event, err)

	s.LogAsync(event)
}

// LogMaintenance records the outcome of a maintenance task.
func (s *Service) LogMaintenance(action, description string, metadata map[string]any, err error) {
	event := s.newEvent(Source{}, entities.AuditEventMaintenance, action)
	event.Description = truncate(description, 500)
	if metadata != nil {
		setMetadata(event, metadata)
	}
	setError(event, err)

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func (s *Service) newEvent(src Source, eventType entities.AuditEventType, action string) *entities.AuditEvent {
	return &entities.AuditEvent{
		EventType: eventType,
		Action:    action,
		RequestID: src.RequestID,
		IPAddress: src.IPAddress,
		UserAgent: truncate(src.UserAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}
}

func setMetadata(event *entities.AuditEvent, metadata map[string]any) {
	if mdBytes, err := json.Marshal(metadata); err == nil {
		event.Metadata = string(mdBytes)
	}
}

func setError(event *entities.AuditEvent, err error) {
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
