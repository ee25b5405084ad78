package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/entities"
)

const entityArtist = "artist"

type ArtistsController struct {
	service ArtistService
	audit   auditTrail
}

func NewArtistsController(service ArtistService, auditor CatalogAuditor) *ArtistsController {
	return &ArtistsController{service: service, audit: auditTrail{auditor}}
}

// List handles GET /artists
func (ac *ArtistsController) List(c *gin.Context) {
	artists, err := ac.service.ListArtists(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err, entityArtist)
		return
	}
	respondOK(c, artists)
}

// Get handles GET /artists/:id
func (ac *ArtistsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	artist, err := ac.service.GetArtist(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, entityArtist)
		return
	}
	respondOK(c, artist)
}

// Create handles POST /artists
func (ac *ArtistsController) Create(c *gin.Context) {
	var in catalog.ArtistInput
	if !bindBody(c, &in) {
		return
	}

	artist, err := ac.service.CreateArtist(c.Request.Context(), in)
	ac.audit.write(auditSource(c), entities.AuditEventCreate, entityArtist, artist.ID, nameOf(in.Name), err)
	if err != nil {
		respondCatalogError(c, err, entityArtist)
		return
	}
	respondCreated(c, artist)
}

// Update handles PUT /artists/:id
func (ac *ArtistsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in catalog.ArtistInput
	if !bindBody(c, &in) {
		return
	}

	artist, err := ac.service.UpdateArtist(c.Request.Context(), id, in)
	ac.audit.write(auditSource(c), entities.AuditEventUpdate, entityArtist, id, artist.Name, err)
	if err != nil {
		respondCatalogError(c, err, entityArtist)
		return
	}
	respondOK(c, artist)
}

// Delete handles DELETE /artists/:id. Albums and songs of the artist are
// deleted with it.
func (ac *ArtistsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ac.service.DeleteArtist(c.Request.Context(), id)
	ac.audit.delete(auditSource(c), entityArtist, result, id, err)
	if err != nil {
		respondCatalogError(c, err, entityArtist)
		return
	}
	respondOK(c, SuccessResponse{Message: "artist deleted", Data: result})
}
