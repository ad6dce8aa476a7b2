package repository

import (
	"context"
	"errors"
	"time"

	"github.com/irodova/placestay/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UpdateBookingParams struct {
	Rooms       int
	People      int
	CheckInDate time.Time
	Nights      int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Booking, error)
	Update(ctx context.Context, id string, params UpdateBookingParams) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByPlace(ctx context.Context, placeID string) ([]domain.Booking, error)
	FindInventoryDrift(ctx context.Context) ([]domain.InventoryDrift, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, place_id, place_name, rooms, people, check_in_date, nights, total_price_cents, status, COALESCE(idempotency_key, ''), booked_at, updated_at`

// Create reserves rooms and inserts the booking inside one transaction. The
// decrement and the sufficiency check are a single conditional UPDATE, so two
// concurrent creates against the same place cannot both pass on the same
// availability read.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var priceCents int64
	err = tx.QueryRow(ctx, `UPDATE places SET available_rooms = available_rooms - $2, updated_at = now()
		WHERE id=$1 AND available_rooms >= $2
		RETURNING name, price_cents`, booking.PlaceID, booking.Rooms).
		Scan(&booking.PlaceName, &priceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.classifyPlaceFailure(ctx, tx, booking.PlaceID, booking.Rooms > 0)
	}
	if err != nil {
		return err
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.TotalPriceCents = int64(booking.Rooms) * int64(booking.Nights) * priceCents

	var key any
	if booking.IdempotencyKey != "" {
		key = booking.IdempotencyKey
	}
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, place_id, place_name, rooms, people, check_in_date, nights, total_price_cents, status, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING booked_at, updated_at`,
		booking.ID, booking.UserID, booking.PlaceID, booking.PlaceName, booking.Rooms, booking.People,
		booking.CheckInDate, booking.Nights, booking.TotalPriceCents, booking.Status, key).
		Scan(&booking.BookedAt, &booking.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrIdempotencyConflict
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 AND idempotency_key=$2`, userID, key)
	return scanBooking(row)
}

// Update applies the room delta to the place and rewrites the booking in one
// transaction. The booking row is locked first so concurrent updates of the
// same booking serialize on it, then the place UPDATE enforces both the floor
// and the ceiling of the inventory counter.
func (r *PGBookingRepository) Update(ctx context.Context, id string, params UpdateBookingParams) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var placeID string
	var oldRooms int
	err = tx.QueryRow(ctx, `SELECT place_id, rooms FROM bookings WHERE id=$1 FOR UPDATE`, id).Scan(&placeID, &oldRooms)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	diff := params.Rooms - oldRooms
	var priceCents int64
	err = tx.QueryRow(ctx, `UPDATE places SET available_rooms = available_rooms - $2, updated_at = now()
		WHERE id=$1 AND available_rooms - $2 >= 0 AND available_rooms - $2 <= total_rooms
		RETURNING price_cents`, placeID, diff).Scan(&priceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.classifyPlaceFailure(ctx, tx, placeID, diff > 0)
	}
	if err != nil {
		return nil, err
	}

	totalPrice := int64(params.Rooms) * int64(params.Nights) * priceCents
	row := tx.QueryRow(ctx, `UPDATE bookings SET rooms=$2, people=$3, check_in_date=$4, nights=$5, total_price_cents=$6, updated_at=now()
		WHERE id=$1
		RETURNING `+bookingColumns, id, params.Rooms, params.People, params.CheckInDate, params.Nights, totalPrice)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete restores the booking's rooms onto the place and removes the booking
// in one transaction. If the place row is gone the whole deletion aborts so
// the restoration accounting is never silently lost.
func (r *PGBookingRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var placeID string
	var rooms int
	err = tx.QueryRow(ctx, `SELECT place_id, rooms FROM bookings WHERE id=$1 FOR UPDATE`, id).Scan(&placeID, &rooms)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `UPDATE places SET available_rooms = available_rooms + $2, updated_at = now()
		WHERE id=$1 AND available_rooms + $2 <= total_rooms`, placeID, rooms)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.classifyPlaceFailure(ctx, tx, placeID, false)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY booked_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByPlace(ctx context.Context, placeID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE place_id=$1 ORDER BY booked_at DESC`, placeID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) FindInventoryDrift(ctx context.Context) ([]domain.InventoryDrift, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.total_rooms, p.available_rooms, COALESCE(SUM(b.rooms), 0)
		FROM places p
		LEFT JOIN bookings b ON b.place_id = p.id
		GROUP BY p.id, p.total_rooms, p.available_rooms
		HAVING p.available_rooms + COALESCE(SUM(b.rooms), 0) <> p.total_rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []domain.InventoryDrift
	for rows.Next() {
		var d domain.InventoryDrift
		if err := rows.Scan(&d.PlaceID, &d.TotalRooms, &d.AvailableRooms, &d.BookedRooms); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}

// classifyPlaceFailure tells a missing place apart from a conditional UPDATE
// that matched the row but failed the inventory guard.
func (r *PGBookingRepository) classifyPlaceFailure(ctx context.Context, tx pgx.Tx, placeID string, insufficient bool) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id=$1)`, placeID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrPlaceNotFound
	}
	if insufficient {
		return domain.ErrInsufficientInventory
	}
	return domain.ErrInventoryOutOfRange
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.PlaceID, &b.PlaceName, &b.Rooms, &b.People, &b.CheckInDate, &b.Nights,
		&b.TotalPriceCents, &b.Status, &b.IdempotencyKey, &b.BookedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.PlaceID, &b.PlaceName, &b.Rooms, &b.People, &b.CheckInDate, &b.Nights,
			&b.TotalPriceCents, &b.Status, &b.IdempotencyKey, &b.BookedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
