package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/irodova/placestay/internal/domain"
	"github.com/irodova/placestay/internal/kafka"
	"github.com/irodova/placestay/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, caller domain.Caller, input CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, caller domain.Caller, id string, input UpdateBookingInput) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, caller domain.Caller, id string) error
	GetBooking(ctx context.Context, caller domain.Caller, id string) (*domain.Booking, error)
	ListBookingsForUser(ctx context.Context, caller domain.Caller, userID string) ([]domain.Booking, error)
	ListBookingsForPlace(ctx context.Context, caller domain.Caller, placeID string) ([]domain.Booking, error)
	AuditInventory(ctx context.Context) ([]domain.InventoryDrift, error)
}

type Cache interface {
	InvalidatePlaces(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type CreateBookingInput struct {
	PlaceID        string    `json:"place_id"`
	Rooms          int       `json:"rooms"`
	People         int       `json:"people"`
	CheckInDate    time.Time `json:"check_in_date"`
	Nights         int       `json:"nights"`
	IdempotencyKey string    `json:"-"`
}

type UpdateBookingInput struct {
	Rooms       int       `json:"rooms"`
	People      int       `json:"people"`
	CheckInDate time.Time `json:"check_in_date"`
	Nights      int       `json:"nights"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, caller domain.Caller, input CreateBookingInput) (*domain.Booking, error) {
	if caller.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if input.PlaceID == "" {
		return nil, errors.New("place id is required")
	}
	if input.Rooms <= 0 {
		return nil, errors.New("rooms must be positive")
	}
	if input.Nights <= 0 {
		return nil, errors.New("nights must be positive")
	}
	if input.People <= 0 {
		return nil, errors.New("people must be positive")
	}

	if input.IdempotencyKey != "" {
		existing, err := s.bookings.GetByIdempotencyKey(ctx, caller.ID, input.IdempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	booking := &domain.Booking{
		ID:             uuid.NewString(),
		UserID:         caller.ID,
		PlaceID:        input.PlaceID,
		Rooms:          input.Rooms,
		People:         input.People,
		CheckInDate:    input.CheckInDate,
		Nights:         input.Nights,
		IdempotencyKey: input.IdempotencyKey,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		// A concurrent create with the same key won the race; return its result.
		if errors.Is(err, domain.ErrIdempotencyConflict) && input.IdempotencyKey != "" {
			return s.bookings.GetByIdempotencyKey(ctx, caller.ID, input.IdempotencyKey)
		}
		return nil, err
	}

	s.invalidatePlaces(ctx)
	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.ID, err)
	}
	return booking, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, caller domain.Caller, id string, input UpdateBookingInput) (*domain.Booking, error) {
	if input.Rooms <= 0 {
		return nil, errors.New("rooms must be positive")
	}
	if input.Nights <= 0 {
		return nil, errors.New("nights must be positive")
	}
	if input.People <= 0 {
		return nil, errors.New("people must be positive")
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(current) {
		return nil, domain.ErrForbidden
	}

	updated, err := s.bookings.Update(ctx, id, repository.UpdateBookingParams{
		Rooms:       input.Rooms,
		People:      input.People,
		CheckInDate: input.CheckInDate,
		Nights:      input.Nights,
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePlaces(ctx)
	if err := s.publish(ctx, "booking_updated", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_updated event for booking %s: %v", updated.ID, err)
	}
	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, caller domain.Caller, id string) error {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanAccess(current) {
		return domain.ErrForbidden
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidatePlaces(ctx)
	if err := s.publish(ctx, "booking_cancelled", current); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled event for booking %s: %v", current.ID, err)
	}
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, caller domain.Caller, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(booking) {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListBookingsForUser(ctx context.Context, caller domain.Caller, userID string) ([]domain.Booking, error) {
	if !caller.Admin && caller.ID != userID {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListBookingsForPlace(ctx context.Context, caller domain.Caller, placeID string) ([]domain.Booking, error) {
	if !caller.Admin {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListByPlace(ctx, placeID)
}

// AuditInventory reports places whose counter no longer satisfies the
// conservation law available_rooms + sum(booking rooms) == total_rooms.
// Drift can only come from writes that bypassed the ledger.
func (s *BookingService) AuditInventory(ctx context.Context) ([]domain.InventoryDrift, error) {
	return s.bookings.FindInventoryDrift(ctx)
}

func (s *BookingService) invalidatePlaces(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePlaces(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate places cache: %v", err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		PlaceID:         booking.PlaceID,
		PlaceName:       booking.PlaceName,
		Rooms:           booking.Rooms,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          string(booking.Status),
		OccurredAt:      time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
