package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irodova/placestay/internal/domain"
	"github.com/irodova/placestay/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	PlaceID     string `json:"place_id"`
	Rooms       int    `json:"rooms"`
	People      int    `json:"people"`
	CheckInDate string `json:"check_in_date"`
	Nights      int    `json:"nights"`
}

type updateBookingRequest struct {
	Rooms       int    `json:"rooms"`
	People      int    `json:"people"`
	CheckInDate string `json:"check_in_date"`
	Nights      int    `json:"nights"`
}

type bookingResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	PlaceID         string `json:"place_id"`
	PlaceName       string `json:"place_name"`
	Rooms           int    `json:"rooms"`
	People          int    `json:"people"`
	CheckInDate     string `json:"check_in_date"`
	Nights          int    `json:"nights"`
	TotalPriceCents int64  `json:"total_price_cents"`
	Status          string `json:"status"`
	BookedAt        string `json:"booked_at"`
	UpdatedAt       string `json:"updated_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request_body"})
		return
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "check_in_date must be YYYY-MM-DD", Code: "invalid_check_in_date"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), callerFrom(c), booking.CreateBookingInput{
		PlaceID:        req.PlaceID,
		Rooms:          req.Rooms,
		People:         req.People,
		CheckInDate:    checkIn,
		Nights:         req.Nights,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	caller := callerFrom(c)
	bookings, err := h.service.ListBookingsForUser(c.Request.Context(), caller, caller.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) update(c *gin.Context) {
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

	updated, err := h.service.UpdateBooking(c.Request.Context(), callerFrom(c), c.Param("id"), booking.UpdateBookingInput{
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

func (h *BookingHandler) remove(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		PlaceID:         b.PlaceID,
		PlaceName:       b.PlaceName,
		Rooms:           b.Rooms,
		People:          b.People,
		CheckInDate:     b.CheckInDate.Format("2006-01-02"),
		Nights:          b.Nights,
		TotalPriceCents: b.TotalPriceCents,
		Status:          string(b.Status),
		BookedAt:        b.BookedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
