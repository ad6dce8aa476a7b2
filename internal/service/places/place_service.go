package places

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/irodova/placestay/internal/domain"
	"github.com/irodova/placestay/internal/repository"
)

type PlaceUseCase interface {
	List(ctx context.Context) ([]domain.Place, error)
	Search(ctx context.Context, location string, placeType domain.PlaceType) ([]domain.Place, error)
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	Create(ctx context.Context, input PlaceInput) (*domain.Place, error)
	Update(ctx context.Context, id string, input PlaceInput) (*domain.Place, error)
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	GetPlaces(ctx context.Context) ([]domain.Place, error)
	SetPlaces(ctx context.Context, places []domain.Place) error
	GetSearch(ctx context.Context, location string, placeType domain.PlaceType) ([]domain.Place, error)
	SetSearch(ctx context.Context, location string, placeType domain.PlaceType, places []domain.Place) error
	InvalidatePlaces(ctx context.Context) error
}

type PlaceInput struct {
	Name           string           `json:"name"`
	Location       string           `json:"location"`
	Type           domain.PlaceType `json:"type"`
	Description    string           `json:"description"`
	Amenities      []string         `json:"amenities"`
	ImageURL       string           `json:"image_url"`
	PriceCents     int64            `json:"price_cents"`
	TotalRooms     int              `json:"total_rooms"`
	AvailableRooms int              `json:"available_rooms"`
}

func (in PlaceInput) validate() error {
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.Location == "" {
		return errors.New("location is required")
	}
	if !in.Type.Valid() {
		return errors.New("type must be hotel, hostel or campsite")
	}
	if in.PriceCents < 0 {
		return errors.New("price must not be negative")
	}
	if in.TotalRooms < 0 {
		return errors.New("total rooms must not be negative")
	}
	if in.AvailableRooms < 0 || in.AvailableRooms > in.TotalRooms {
		return domain.ErrInventoryOutOfRange
	}
	return nil
}

type PlaceService struct {
	repo  repository.PlaceRepository
	cache Cache
}

func NewPlaceService(repo repository.PlaceRepository, cache Cache) *PlaceService {
	return &PlaceService{repo: repo, cache: cache}
}

func (s *PlaceService) List(ctx context.Context) ([]domain.Place, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPlaces(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	places, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetPlaces(ctx, places)
	}
	return places, nil
}

func (s *PlaceService) Search(ctx context.Context, location string, placeType domain.PlaceType) ([]domain.Place, error) {
	if location == "" {
		return nil, errors.New("location is required")
	}
	if placeType != "" && !placeType.Valid() {
		return nil, errors.New("type must be hotel, hostel or campsite")
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, location, placeType); err == nil && cached != nil {
			return cached, nil
		}
	}

	places, err := s.repo.Search(ctx, location, placeType)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSearch(ctx, location, placeType, places)
	}
	return places, nil
}

func (s *PlaceService) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PlaceService) Create(ctx context.Context, input PlaceInput) (*domain.Place, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	place := &domain.Place{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Location:       input.Location,
		Type:           input.Type,
		Description:    input.Description,
		Amenities:      input.Amenities,
		ImageURL:       input.ImageURL,
		PriceCents:     input.PriceCents,
		TotalRooms:     input.TotalRooms,
		AvailableRooms: input.AvailableRooms,
	}
	if place.Amenities == nil {
		place.Amenities = []string{}
	}

	if err := s.repo.Create(ctx, place); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return place, nil
}

func (s *PlaceService) Update(ctx context.Context, id string, input PlaceInput) (*domain.Place, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	place := &domain.Place{
		ID:             id,
		Name:           input.Name,
		Location:       input.Location,
		Type:           input.Type,
		Description:    input.Description,
		Amenities:      input.Amenities,
		ImageURL:       input.ImageURL,
		PriceCents:     input.PriceCents,
		TotalRooms:     input.TotalRooms,
		AvailableRooms: input.AvailableRooms,
	}
	if place.Amenities == nil {
		place.Amenities = []string{}
	}

	if err := s.repo.Update(ctx, place); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return place, nil
}

func (s *PlaceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PlaceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePlaces(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate places cache: %v", err)
	}
}

var _ PlaceUseCase = (*PlaceService)(nil)
