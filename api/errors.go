package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irodova/placestay/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps domain errors to a status and machine-readable code;
// anything unrecognized falls back to the given status with the raw message.
func respondError(c *gin.Context, fallback int, err error) {
	switch {
	case errors.Is(err, domain.ErrPlaceNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "place_not_found"})
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "booking_not_found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "user_not_found"})
	case errors.Is(err, domain.ErrInsufficientInventory):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "insufficient_inventory"})
	case errors.Is(err, domain.ErrInventoryOutOfRange):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "inventory_out_of_range"})
	case errors.Is(err, domain.ErrPlaceHasBookings):
		c.JSON(http.StatusConflict, errorResponse{Error: "cannot delete this place because it has bookings", Code: "place_has_bookings"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error(), Code: "forbidden"})
	default:
		c.JSON(fallback, errorResponse{Error: err.Error(), Code: "request_failed"})
	}
}
