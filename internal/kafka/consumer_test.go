package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookingEvent(t *testing.T) {
	payload, err := json.Marshal(BookingEvent{
		Type:            "booking_created",
		BookingID:       "booking-1",
		UserID:          "user-1",
		PlaceID:         "place-1",
		PlaceName:       "Sea View Hotel",
		Rooms:           3,
		TotalPriceCents: 60000,
		Status:          "confirmed",
		OccurredAt:      time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	event, err := decodeBookingEvent(payload)

	assert.NoError(t, err)
	assert.Equal(t, "booking_created", event.Type)
	assert.Equal(t, "booking-1", event.BookingID)
	assert.Equal(t, int64(60000), event.TotalPriceCents)
}

func TestDecodeBookingEvent_Invalid(t *testing.T) {
	_, err := decodeBookingEvent([]byte("not json"))
	assert.Error(t, err)
}
