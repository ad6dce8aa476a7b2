package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irodova/placestay/internal/domain"
	"github.com/irodova/placestay/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, id string, params repository.UpdateBookingParams) (*domain.Booking, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByPlace(ctx context.Context, placeID string) ([]domain.Booking, error) {
	args := m.Called(ctx, placeID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindInventoryDrift(ctx context.Context) ([]domain.InventoryDrift, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InventoryDrift), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidatePlaces(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var (
	user  = domain.Caller{ID: "user-1"}
	admin = domain.Caller{ID: "admin-1", Admin: true}
)

func validCreateInput() CreateBookingInput {
	return CreateBookingInput{
		PlaceID:     "place-1",
		Rooms:       3,
		People:      4,
		CheckInDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Nights:      2,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.UserID == "user-1" && b.PlaceID == "place-1" && b.Rooms == 3 && b.ID != ""
	})).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Booking)
		b.PlaceName = "Sea View Hotel"
		b.Status = domain.BookingStatusConfirmed
		b.TotalPriceCents = 60000
	}).Return(nil)
	mockCache.On("InvalidatePlaces", mock.Anything).Return(nil)
	mockProducer.On("Publish", mock.Anything, "booking-events", mock.Anything, mock.Anything).Return(nil)

	created, err := service.CreateBooking(context.Background(), user, validCreateInput())

	assert.NoError(t, err)
	assert.Equal(t, "Sea View Hotel", created.PlaceName)
	assert.Equal(t, domain.BookingStatusConfirmed, created.Status)
	assert.Equal(t, int64(60000), created.TotalPriceCents)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestCreateBooking_ValidationErrors(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, nil, nil, "")

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"zero rooms", func(in *CreateBookingInput) { in.Rooms = 0 }},
		{"negative rooms", func(in *CreateBookingInput) { in.Rooms = -1 }},
		{"zero nights", func(in *CreateBookingInput) { in.Nights = 0 }},
		{"zero people", func(in *CreateBookingInput) { in.People = 0 }},
		{"missing place", func(in *CreateBookingInput) { in.PlaceID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			created, err := service.CreateBooking(context.Background(), user, input)
			assert.Error(t, err)
			assert.Nil(t, created)
		})
	}
}

func TestCreateBooking_AnonymousCaller(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, nil, nil, "")

	created, err := service.CreateBooking(context.Background(), domain.Caller{}, validCreateInput())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, created)
}

func TestCreateBooking_InsufficientInventory(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, nil, mockProducer, "booking-events")

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrInsufficientInventory)

	created, err := service.CreateBooking(context.Background(), user, validCreateInput())

	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Nil(t, created)
	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_PlaceNotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrPlaceNotFound)

	created, err := service.CreateBooking(context.Background(), user, validCreateInput())

	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
	assert.Nil(t, created)
}

func TestCreateBooking_IdempotentReplay(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	existing := &domain.Booking{ID: "booking-1", UserID: "user-1", IdempotencyKey: "key-1"}
	mockRepo.On("GetByIdempotencyKey", mock.Anything, "user-1", "key-1").Return(existing, nil)

	input := validCreateInput()
	input.IdempotencyKey = "key-1"
	created, err := service.CreateBooking(context.Background(), user, input)

	assert.NoError(t, err)
	assert.Equal(t, existing, created)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_IdempotencyRace(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	existing := &domain.Booking{ID: "booking-1", UserID: "user-1", IdempotencyKey: "key-1"}
	mockRepo.On("GetByIdempotencyKey", mock.Anything, "user-1", "key-1").Return(nil, domain.ErrBookingNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrIdempotencyConflict)
	mockRepo.On("GetByIdempotencyKey", mock.Anything, "user-1", "key-1").Return(existing, nil).Once()

	input := validCreateInput()
	input.IdempotencyKey = "key-1"
	created, err := service.CreateBooking(context.Background(), user, input)

	assert.NoError(t, err)
	assert.Equal(t, existing, created)
	mockRepo.AssertExpectations(t)
}

func TestCreateBooking_PublishFailureDoesNotFail(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, nil, mockProducer, "booking-events")

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockProducer.On("Publish", mock.Anything, "booking-events", mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	created, err := service.CreateBooking(context.Background(), user, validCreateInput())

	assert.NoError(t, err)
	assert.NotNil(t, created)
}

func TestUpdateBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	current := &domain.Booking{ID: "booking-1", UserID: "user-1", Rooms: 3}
	updated := &domain.Booking{ID: "booking-1", UserID: "user-1", Rooms: 5, TotalPriceCents: 100000}

	mockRepo.On("GetByID", mock.Anything, "booking-1").Return(current, nil)
	mockRepo.On("Update", mock.Anything, "booking-1", mock.Anything).Return(updated, nil)
	mockCache.On("InvalidatePlaces", mock.Anything).Return(nil)
	mockProducer.On("Publish", mock.Anything, "booking-events", "booking-1", mock.Anything).Return(nil)

	result, err := service.UpdateBooking(context.Background(), user, "booking-1", UpdateBookingInput{
		Rooms: 5, People: 4, CheckInDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), Nights: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, result.Rooms)
	mockRepo.AssertExpectations(t)
}

func TestUpdateBooking_ForbiddenForOtherUser(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	current := &domain.Booking{ID: "booking-1", UserID: "someone-else", Rooms: 3}
	mockRepo.On("GetByID", mock.Anything, "booking-1").Return(current, nil)

	result, err := service.UpdateBooking(context.Background(), user, "booking-1", UpdateBookingInput{
		Rooms: 2, People: 2, CheckInDate: time.Now(), Nights: 1,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBooking_AdminOnBehalfOfUser(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	current := &domain.Booking{ID: "booking-1", UserID: "someone-else", Rooms: 3}
	updated := &domain.Booking{ID: "booking-1", UserID: "someone-else", Rooms: 2}
	mockRepo.On("GetByID", mock.Anything, "booking-1").Return(current, nil)
	mockRepo.On("Update", mock.Anything, "booking-1", mock.Anything).Return(updated, nil)

	result, err := service.UpdateBooking(context.Background(), admin, "booking-1", UpdateBookingInput{
		Rooms: 2, People: 2, CheckInDate: time.Now(), Nights: 1,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Rooms)
}

func TestUpdateBooking_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrBookingNotFound)

	result, err := service.UpdateBooking(context.Background(), user, "missing", UpdateBookingInput{
		Rooms: 2, People: 2, CheckInDate: time.Now(), Nights: 1,
	})

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	assert.Nil(t, result)
}

func TestDeleteBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	current := &domain.Booking{ID: "booking-1", UserID: "user-1", Rooms: 3}
	mockRepo.On("GetByID", mock.Anything, "booking-1").Return(current, nil)
	mockRepo.On("Delete", mock.Anything, "booking-1").Return(nil)
	mockCache.On("InvalidatePlaces", mock.Anything).Return(nil)
	mockProducer.On("Publish", mock.Anything, "booking-events", "booking-1", mock.Anything).Return(nil)

	err := service.DeleteBooking(context.Background(), user, "booking-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteBooking_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrBookingNotFound)

	err := service.DeleteBooking(context.Background(), user, "missing")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestDeleteBooking_AbortsWhenPlaceMissing(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, nil, mockProducer, "booking-events")

	current := &domain.Booking{ID: "booking-1", UserID: "user-1", Rooms: 3}
	mockRepo.On("GetByID", mock.Anything, "booking-1").Return(current, nil)
	mockRepo.On("Delete", mock.Anything, "booking-1").Return(domain.ErrPlaceNotFound)

	err := service.DeleteBooking(context.Background(), user, "booking-1")

	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListBookingsForUser(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	bookings := []domain.Booking{{ID: "booking-1", UserID: "user-1"}}
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(bookings, nil)

	own, err := service.ListBookingsForUser(context.Background(), user, "user-1")
	assert.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = service.ListBookingsForUser(context.Background(), user, "someone-else")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	asAdmin, err := service.ListBookingsForUser(context.Background(), admin, "user-1")
	assert.NoError(t, err)
	assert.Len(t, asAdmin, 1)
}

func TestListBookingsForPlace_AdminOnly(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	bookings := []domain.Booking{{ID: "booking-1", PlaceID: "place-1"}}
	mockRepo.On("ListByPlace", mock.Anything, "place-1").Return(bookings, nil)

	_, err := service.ListBookingsForPlace(context.Background(), user, "place-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	found, err := service.ListBookingsForPlace(context.Background(), admin, "place-1")
	assert.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestAuditInventory(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	drifts := []domain.InventoryDrift{{PlaceID: "place-1", TotalRooms: 10, AvailableRooms: 4, BookedRooms: 3}}
	mockRepo.On("FindInventoryDrift", mock.Anything).Return(drifts, nil)

	found, err := service.AuditInventory(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, drifts, found)
}
