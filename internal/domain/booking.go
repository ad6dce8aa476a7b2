package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

type Booking struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	PlaceID         string        `json:"place_id"`
	PlaceName       string        `json:"place_name"`
	Rooms           int           `json:"rooms"`
	People          int           `json:"people"`
	CheckInDate     time.Time     `json:"check_in_date"`
	Nights          int           `json:"nights"`
	TotalPriceCents int64         `json:"total_price_cents"`
	Status          BookingStatus `json:"status"`
	IdempotencyKey  string        `json:"-"`
	BookedAt        time.Time     `json:"booked_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Caller identifies who is invoking a ledger operation. Non-admin callers
// may only touch their own bookings.
type Caller struct {
	ID    string
	Admin bool
}

func (c Caller) CanAccess(b *Booking) bool {
	return c.Admin || c.ID == b.UserID
}
