package domain

import "errors"

var (
	ErrPlaceNotFound         = errors.New("place not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrInsufficientInventory = errors.New("not enough rooms available")
	ErrInventoryOutOfRange   = errors.New("inventory out of range")
	ErrPlaceHasBookings      = errors.New("place has bookings")
	ErrIdempotencyConflict   = errors.New("idempotency key already used")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
)
