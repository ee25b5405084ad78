package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	auditdb "github.com/mrlokans/music-library/internal/database/audit"
	"github.com/mrlokans/music-library/internal/entities"
)

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(filter auditdb.Filter, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit?page=1&limit=25&type=delete&entity=album&entity_id=3
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	filter := auditdb.Filter{
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity"),
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid entity_id")
			return
		}
		filter.EntityID = uint(id)
	}

	events, total, err := ac.reader.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	respondOK(c, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
