package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irodova/placestay/internal/domain"
	"github.com/irodova/placestay/internal/service/places"
)

type PlaceHandler struct {
	service places.PlaceUseCase
}

func NewPlaceHandler(service places.PlaceUseCase) *PlaceHandler {
	return &PlaceHandler{service: service}
}

func (h *PlaceHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

// RegisterSearch mounts the search endpoint outside the places group.
func (h *PlaceHandler) RegisterSearch(router *gin.RouterGroup) {
	router.GET("/search", h.search)
}

func (h *PlaceHandler) list(c *gin.Context) {
	found, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *PlaceHandler) get(c *gin.Context) {
	place, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *PlaceHandler) search(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "location is required", Code: "location_required"})
		return
	}

	found, err := h.service.Search(c.Request.Context(), location, domain.PlaceType(c.Query("type")))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, found)
}
