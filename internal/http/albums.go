package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/entities"
)

const entityAlbum = "album"

type AlbumsController struct {
	service AlbumService
	audit   auditTrail
}

func NewAlbumsController(service AlbumService, auditor CatalogAuditor) *AlbumsController {
	return &AlbumsController{service: service, audit: auditTrail{auditor}}
}

// List handles GET /albums
func (ac *AlbumsController) List(c *gin.Context) {
	albums, err := ac.service.ListAlbums(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err, entityAlbum)
		return
	}
	respondOK(c, albums)
}

// Get handles GET /albums/:id
func (ac *AlbumsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	album, err := ac.service.GetAlbum(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, entityAlbum)
		return
	}
	respondOK(c, album)
}

// Create handles POST /albums. The artist is found or created from
// artistId or artist.
func (ac *AlbumsController) Create(c *gin.Context) {
	var in catalog.AlbumInput
	if !bindBody(c, &in) {
		return
	}

	album, err := ac.service.CreateAlbum(c.Request.Context(), in)
	ac.audit.write(auditSource(c), entities.AuditEventCreate, entityAlbum, album.ID, nameOf(in.Name), err)
	if err != nil {
		respondCatalogError(c, err, entityAlbum)
		return
	}
	respondCreated(c, album)
}

// Update handles PUT /albums/:id
func (ac *AlbumsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in catalog.AlbumInput
	if !bindBody(c, &in) {
		return
	}

	album, err := ac.service.UpdateAlbum(c.Request.Context(), id, in)
	ac.audit.write(auditSource(c), entities.AuditEventUpdate, entityAlbum, id, album.Name, err)
	if err != nil {
		respondCatalogError(c, err, entityAlbum)
		return
	}
	respondOK(c, album)
}

// Delete handles DELETE /albums/:id. Songs of the album are deleted with
// it.
func (ac *AlbumsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ac.service.DeleteAlbum(c.Request.Context(), id)
	ac.audit.delete(auditSource(c), entityAlbum, result, id, err)
	if err != nil {
		respondCatalogError(c, err, entityAlbum)
		return
	}
	respondOK(c, SuccessResponse{Message: "album deleted", Data: result})
}
