package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/entities"
)

const entitySong = "song"

type SongsController struct {
	service SongService
	audit   auditTrail
}

func NewSongsController(service SongService, auditor CatalogAuditor) *SongsController {
	return &SongsController{service: service, audit: auditTrail{auditor}}
}

// List handles GET /songs
func (sc *SongsController) List(c *gin.Context) {
	songs, err := sc.service.ListSongs(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err, entitySong)
		return
	}
	respondOK(c, songs)
}

// Get handles GET /songs/:id
func (sc *SongsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	song, err := sc.service.GetSong(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, entitySong)
		return
	}
	respondOK(c, song)
}

// Create handles POST /songs. Both parents are found or created.
func (sc *SongsController) Create(c *gin.Context) {
	var in catalog.SongInput
	if !bindBody(c, &in) {
		return
	}

	song, err := sc.service.CreateSong(c.Request.Context(), in)
	sc.audit.write(auditSource(c), entities.AuditEventCreate, entitySong, song.ID, nameOf(in.Name), err)
	if err != nil {
		respondCatalogError(c, err, entitySong)
		return
	}
	respondCreated(c, song)
}

// Update handles PUT /songs/:id
func (sc *SongsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in catalog.SongInput
	if !bindBody(c, &in) {
		return
	}

	song, err := sc.service.UpdateSong(c.Request.Context(), id, in)
	sc.audit.write(auditSource(c), entities.AuditEventUpdate, entitySong, id, song.Name, err)
	if err != nil {
		respondCatalogError(c, err, entitySong)
		return
	}
	respondOK(c, song)
}

// Delete handles DELETE /songs/:id
func (sc *SongsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := sc.service.DeleteSong(c.Request.Context(), id)
	sc.audit.delete(auditSource(c), entitySong, result, id, err)
	if err != nil {
		respondCatalogError(c, err, entitySong)
		return
	}
	respondOK(c, SuccessResponse{Message: "song deleted", Data: result})
}
