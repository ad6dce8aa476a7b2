package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irodova/placestay/internal/repository"
	"github.com/irodova/placestay/internal/service/booking"
	"github.com/irodova/placestay/internal/service/places"
)

// AdminHandler bundles the privileged operations: inventory management,
// user listing and booking management on behalf of any user.
type AdminHandler struct {
	places   places.PlaceUseCase
	bookings booking.BookingUseCase
	users    repository.UserRepository
}

func NewAdminHandler(placeSvc places.PlaceUseCase, bookingSvc booking.BookingUseCase, users repository.UserRepository) *AdminHandler {
	return &AdminHandler{places: placeSvc, bookings: bookingSvc, users: users}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.POST("/places", h.createPlace)
	router.PUT("/places/:id", h.updatePlace)
	router.DELETE("/places/:id", h.deletePlace)
	router.GET("/places/:id/bookings", h.listPlaceBookings)
	router.GET("/users", h.listUsers)
	router.GET("/users/:id/bookings", h.listUserBookings)
	router.PUT("/bookings/:id", h.updateBooking)
	router.DELETE("/bookings/:id", h.deleteBooking)
	router.GET("/inventory/drift", h.inventoryDrift)
}

func (h *AdminHandler) createPlace(c *gin.Context) {
	var req places.PlaceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request_body"})
		return
	}

	created, err := h.places.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) updatePlace(c *gin.Context) {
	var req places.PlaceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request_body"})
		return
	}

	updated, err := h.places.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) deletePlace(c *gin.Context) {
	if err := h.places.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) listPlaceBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookingsForPlace(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) listUserBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookingsForUser(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *AdminHandler) updateBooking(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request_body"})
		return
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "check_in_date must be YYYY-MM-DD", Code: "invalid_check_in_date"})
		return
	}

	updated, err := h.bookings.UpdateBooking(c.Request.Context(), callerFrom(c), c.Param("id"), booking.UpdateBookingInput{
		Rooms:       req.Rooms,
		People:      req.People,
		CheckInDate: checkIn,
		Nights:      req.Nights,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *AdminHandler) deleteBooking(c *gin.Context) {
	if err := h.bookings.DeleteBooking(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) inventoryDrift(c *gin.Context) {
	drifts, err := h.bookings.AuditInventory(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, drifts)
}
