package repository

import (
	"context"
	"errors"

	"github.com/irodova/placestay/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlaceRepository interface {
	List(ctx context.Context) ([]domain.Place, error)
	Search(ctx context.Context, location string, placeType domain.PlaceType) ([]domain.Place, error)
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	Create(ctx context.Context, place *domain.Place) error
	Update(ctx context.Context, place *domain.Place) error
	Delete(ctx context.Context, id string) error
}

type PGPlaceRepository struct {
	db *pgxpool.Pool
}

func NewPlaceRepository(db *pgxpool.Pool) PlaceRepository {
	return &PGPlaceRepository{db: db}
}

const placeColumns = `id, name, location, type, description, amenities, image_url, price_cents, total_rooms, available_rooms, created_at, updated_at`

func (r *PGPlaceRepository) List(ctx context.Context) ([]domain.Place, error) {
	rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM places ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectPlaces(rows)
}

func (r *PGPlaceRepository) Search(ctx context.Context, location string, placeType domain.PlaceType) ([]domain.Place, error) {
	if placeType == "" {
		rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM places WHERE location=$1 ORDER BY name`, location)
		if err != nil {
			return nil, err
		}
		return collectPlaces(rows)
	}
	rows, err := r.db.Query(ctx, `SELECT `+placeColumns+` FROM places WHERE location=$1 AND type=$2 ORDER BY name`, location, placeType)
	if err != nil {
		return nil, err
	}
	return collectPlaces(rows)
}

func (r *PGPlaceRepository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	row := r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id=$1`, id)
	var p domain.Place
	if err := scanPlace(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPlaceRepository) Create(ctx context.Context, place *domain.Place) error {
	return r.db.QueryRow(ctx, `INSERT INTO places (id, name, location, type, description, amenities, image_url, price_cents, total_rooms, available_rooms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		place.ID, place.Name, place.Location, place.Type, place.Description, place.Amenities,
		place.ImageURL, place.PriceCents, place.TotalRooms, place.AvailableRooms).
		Scan(&place.CreatedAt, &place.UpdatedAt)
}

func (r *PGPlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	err := r.db.QueryRow(ctx, `UPDATE places SET name=$2, location=$3, type=$4, description=$5, amenities=$6, image_url=$7, price_cents=$8, total_rooms=$9, available_rooms=$10, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		place.ID, place.Name, place.Location, place.Type, place.Description, place.Amenities,
		place.ImageURL, place.PriceCents, place.TotalRooms, place.AvailableRooms).
		Scan(&place.CreatedAt, &place.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrPlaceNotFound
	}
	return err
}

// Delete removes the place only when no booking references it. The place row
// is locked first; booking creation touches the same row before inserting, so
// a concurrent create cannot slip in between the check and the DELETE.
func (r *PGPlaceRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx, `SELECT true FROM places WHERE id=$1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrPlaceNotFound
	}
	if err != nil {
		return err
	}

	var hasBookings bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE place_id=$1)`, id).Scan(&hasBookings); err != nil {
		return err
	}
	if hasBookings {
		return domain.ErrPlaceHasBookings
	}

	if _, err := tx.Exec(ctx, `DELETE FROM places WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanPlace(row pgx.Row, p *domain.Place) error {
	return row.Scan(&p.ID, &p.Name, &p.Location, &p.Type, &p.Description, &p.Amenities, &p.ImageURL,
		&p.PriceCents, &p.TotalRooms, &p.AvailableRooms, &p.CreatedAt, &p.UpdatedAt)
}

func collectPlaces(rows pgx.Rows) ([]domain.Place, error) {
	defer rows.Close()

	places := make([]domain.Place, 0)
	for rows.Next() {
		var p domain.Place
		if err := scanPlace(rows, &p); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

var _ PlaceRepository = (*PGPlaceRepository)(nil)
