package domain

import "time"

type PlaceType string

const (
	PlaceTypeHotel    PlaceType = "hotel"
	PlaceTypeHostel   PlaceType = "hostel"
	PlaceTypeCampsite PlaceType = "campsite"
)

func (t PlaceType) Valid() bool {
	switch t {
	case PlaceTypeHotel, PlaceTypeHostel, PlaceTypeCampsite:
		return true
	}
	return false
}

type Place struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Type           PlaceType `json:"type"`
	Description    string    `json:"description"`
	Amenities      []string  `json:"amenities"`
	ImageURL       string    `json:"image_url"`
	PriceCents     int64     `json:"price_cents"`
	TotalRooms     int       `json:"total_rooms"`
	AvailableRooms int       `json:"available_rooms"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InventoryDrift is a place whose available_rooms counter no longer matches
// total_rooms minus the rooms held by its bookings.
type InventoryDrift struct {
	PlaceID        string
	TotalRooms     int
	AvailableRooms int
	BookedRooms    int
}
