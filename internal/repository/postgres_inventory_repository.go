package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// PostgresInventoryRepository implements InventoryRepository using
// PostgreSQL. Counter moves use conditional UPDATEs so the row's own
// guard decides the winner under concurrency; no row locks are held
// across round trips.
type PostgresInventoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresInventoryRepository creates a new PostgresInventoryRepository
func NewPostgresInventoryRepository(pool *pgxpool.Pool) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{pool: pool}
}

// UpsertRoom creates or replaces a room type definition
func (r *PostgresInventoryRepository) UpsertRoom(ctx context.Context, room *domain.HotelRoom) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.upsert_room")
	defer span.End()

	span.SetAttributes(
		attribute.String("hotel_id", room.HotelID),
		attribute.String("room_id", room.RoomID),
	)

	query := `
		INSERT INTO hotel_rooms (
			hotel_id, room_id, room_type, price_per_night, capacity,
			total_count, available_count, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (hotel_id, room_id) DO UPDATE SET
			room_type = EXCLUDED.room_type,
			price_per_night = EXCLUDED.price_per_night,
			capacity = EXCLUDED.capacity,
			total_count = EXCLUDED.total_count,
			available_count = EXCLUDED.available_count,
			is_active = EXCLUDED.is_active
	`

	_, err := r.pool.Exec(ctx, query,
		room.HotelID, room.RoomID, room.Type, room.PricePerNight, room.Capacity,
		room.TotalCount, room.AvailableCount, room.IsActive,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to upsert room: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetRoom retrieves a room type by hotel and room ID
func (r *PostgresInventoryRepository) GetRoom(ctx context.Context, hotelID, roomID string) (*domain.HotelRoom, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.get_room")
	defer span.End()

	span.SetAttributes(
		attribute.String("hotel_id", hotelID),
		attribute.String("room_id", roomID),
	)

	room := &domain.HotelRoom{}
	err := r.pool.QueryRow(ctx, selectRoomQuery+` WHERE hotel_id = $1 AND room_id = $2`, hotelID, roomID).Scan(
		&room.HotelID, &room.RoomID, &room.Type, &room.PricePerNight, &room.Capacity,
		&room.TotalCount, &room.AvailableCount, &room.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRoomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to get room: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return room, nil
}

// ListRooms retrieves all room types of a hotel
func (r *PostgresInventoryRepository) ListRooms(ctx context.Context, hotelID string) ([]*domain.HotelRoom, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.list_rooms")
	defer span.End()

	span.SetAttributes(attribute.String("hotel_id", hotelID))

	rows, err := r.pool.Query(ctx, selectRoomQuery+` WHERE hotel_id = $1 ORDER BY room_id`, hotelID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to list rooms: %w", err))
	}
	defer rows.Close()

	var rooms []*domain.HotelRoom
	for rows.Next() {
		room := &domain.HotelRoom{}
		if err := rows.Scan(
			&room.HotelID, &room.RoomID, &room.Type, &room.PricePerNight, &room.Capacity,
			&room.TotalCount, &room.AvailableCount, &room.IsActive,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, domain.Retryable(fmt.Errorf("failed to scan room: %w", err))
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("error iterating rooms: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return rooms, nil
}

// AllocateRoom decrements the available counter by quantity. The guard
// in the UPDATE keeps the counter non-negative; a zero row count is then
// split into not-found vs insufficient with a follow-up read.
func (r *PostgresInventoryRepository) AllocateRoom(ctx context.Context, hotelID, roomID string, quantity int) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.allocate_room")
	defer span.End()

	span.SetAttributes(
		attribute.String("hotel_id", hotelID),
		attribute.String("room_id", roomID),
		attribute.Int("quantity", quantity),
	)

	query := `
		UPDATE hotel_rooms
		SET available_count = available_count - $3
		WHERE hotel_id = $1 AND room_id = $2
		  AND is_active AND available_count >= $3
	`

	result, err := r.pool.Exec(ctx, query, hotelID, roomID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to allocate room: %w", err))
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetRoom(ctx, hotelID, roomID); err != nil {
			span.SetStatus(codes.Error, "not found")
			return err
		}
		span.SetStatus(codes.Error, "insufficient")
		return domain.ErrInsufficientRooms
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ReleaseRoom increments the available counter by quantity, never past
// the provisioned total.
func (r *PostgresInventoryRepository) ReleaseRoom(ctx context.Context, hotelID, roomID string, quantity int) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.release_room")
	defer span.End()

	span.SetAttributes(
		attribute.String("hotel_id", hotelID),
		attribute.String("room_id", roomID),
		attribute.Int("quantity", quantity),
	)

	query := `
		UPDATE hotel_rooms
		SET available_count = available_count + $3
		WHERE hotel_id = $1 AND room_id = $2
		  AND available_count + $3 <= total_count
	`

	result, err := r.pool.Exec(ctx, query, hotelID, roomID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to release room: %w", err))
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetRoom(ctx, hotelID, roomID); err != nil {
			span.SetStatus(codes.Error, "not found")
			return err
		}
		span.SetStatus(codes.Error, "over-release")
		return domain.ErrOverRelease
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// UpsertSpot creates or replaces a parking spot
func (r *PostgresInventoryRepository) UpsertSpot(ctx context.Context, spot *domain.ParkingSpot) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.upsert_spot")
	defer span.End()

	span.SetAttributes(
		attribute.String("lot_id", spot.LotID),
		attribute.String("spot_id", spot.SpotID),
	)

	query := `
		INSERT INTO parking_spots (
			lot_id, spot_id, spot_number, spot_type, price_per_unit,
			is_available, is_reserved, current_booking_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (lot_id, spot_id) DO UPDATE SET
			spot_number = EXCLUDED.spot_number,
			spot_type = EXCLUDED.spot_type,
			price_per_unit = EXCLUDED.price_per_unit,
			is_available = EXCLUDED.is_available
	`

	_, err := r.pool.Exec(ctx, query,
		spot.LotID, spot.SpotID, spot.SpotNumber, spot.Type, spot.PricePerUnit,
		spot.IsAvailable, spot.IsReserved, nullString(spot.CurrentBookingID),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to upsert spot: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetSpot retrieves a spot by lot and spot ID
func (r *PostgresInventoryRepository) GetSpot(ctx context.Context, lotID, spotID string) (*domain.ParkingSpot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.get_spot")
	defer span.End()

	span.SetAttributes(
		attribute.String("lot_id", lotID),
		attribute.String("spot_id", spotID),
	)

	spot, err := scanSpot(r.pool.QueryRow(ctx, selectSpotQuery+` WHERE lot_id = $1 AND spot_id = $2`, lotID, spotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrSpotNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to get spot: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return spot, nil
}

// ListSpots retrieves all spots of a lot
func (r *PostgresInventoryRepository) ListSpots(ctx context.Context, lotID string) ([]*domain.ParkingSpot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.list_spots")
	defer span.End()

	span.SetAttributes(attribute.String("lot_id", lotID))

	rows, err := r.pool.Query(ctx, selectSpotQuery+` WHERE lot_id = $1 ORDER BY spot_number`, lotID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to list spots: %w", err))
	}
	defer rows.Close()

	var spots []*domain.ParkingSpot
	for rows.Next() {
		spot, err := scanSpot(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, domain.Retryable(fmt.Errorf("failed to scan spot: %w", err))
		}
		spots = append(spots, spot)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("error iterating spots: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return spots, nil
}

// FindAvailableSpot picks the lowest-numbered free spot of the given type
func (r *PostgresInventoryRepository) FindAvailableSpot(ctx context.Context, lotID, spotType string) (*domain.ParkingSpot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.find_available_spot")
	defer span.End()

	span.SetAttributes(
		attribute.String("lot_id", lotID),
		attribute.String("spot_type", spotType),
	)

	query := selectSpotQuery + `
		WHERE lot_id = $1 AND spot_type = $2
		  AND is_available AND NOT is_reserved
		ORDER BY spot_number
		LIMIT 1
	`

	spot, err := scanSpot(r.pool.QueryRow(ctx, query, lotID, spotType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "unavailable")
			return nil, domain.ErrSpotUnavailable
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to find available spot: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return spot, nil
}

// AllocateSpot reserves the spot for the booking. The reservation flag
// flips only when the spot is free or already held by the same booking,
// so concurrent claims resolve to one holder.
func (r *PostgresInventoryRepository) AllocateSpot(ctx context.Context, lotID, spotID, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.allocate_spot")
	defer span.End()

	span.SetAttributes(
		attribute.String("lot_id", lotID),
		attribute.String("spot_id", spotID),
		attribute.String("booking_id", bookingID),
	)

	query := `
		UPDATE parking_spots
		SET is_reserved = TRUE, current_booking_id = $3
		WHERE lot_id = $1 AND spot_id = $2 AND is_available
		  AND (NOT is_reserved OR current_booking_id = $3)
	`

	result, err := r.pool.Exec(ctx, query, lotID, spotID, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to allocate spot: %w", err))
	}

	if result.RowsAffected() == 0 {
		spot, err := r.GetSpot(ctx, lotID, spotID)
		if err != nil {
			span.SetStatus(codes.Error, "not found")
			return err
		}
		if !spot.IsAvailable {
			span.SetStatus(codes.Error, "unavailable")
			return domain.ErrSpotUnavailable
		}
		span.SetStatus(codes.Error, "conflict")
		return domain.ErrSpotConflict
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ReleaseSpot frees the spot held by the booking. The booking guard in
// the UPDATE makes a repeated or stale release a no-op.
func (r *PostgresInventoryRepository) ReleaseSpot(ctx context.Context, lotID, spotID, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.inventory.release_spot")
	defer span.End()

	span.SetAttributes(
		attribute.String("lot_id", lotID),
		attribute.String("spot_id", spotID),
		attribute.String("booking_id", bookingID),
	)

	query := `
		UPDATE parking_spots
		SET is_reserved = FALSE, current_booking_id = NULL
		WHERE lot_id = $1 AND spot_id = $2
		  AND is_reserved AND current_booking_id = $3
	`

	result, err := r.pool.Exec(ctx, query, lotID, spotID, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to release spot: %w", err))
	}

	if result.RowsAffected() == 0 {
		spot, err := r.GetSpot(ctx, lotID, spotID)
		if err != nil {
			span.SetStatus(codes.Error, "not found")
			return err
		}
		if spot.IsReserved {
			// reassigned to another booking since allocation
			span.SetStatus(codes.Error, "conflict")
			return domain.ErrSpotConflict
		}
		// already released, release is idempotent
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

const selectRoomQuery = `
	SELECT hotel_id, room_id, room_type, price_per_night, capacity,
	       total_count, available_count, is_active
	FROM hotel_rooms
`

const selectSpotQuery = `
	SELECT lot_id, spot_id, spot_number, spot_type, price_per_unit,
	       is_available, is_reserved, current_booking_id
	FROM parking_spots
`

func scanSpot(row pgx.Row) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	var currentBookingID *string
	err := row.Scan(
		&spot.LotID, &spot.SpotID, &spot.SpotNumber, &spot.Type, &spot.PricePerUnit,
		&spot.IsAvailable, &spot.IsReserved, &currentBookingID,
	)
	if err != nil {
		return nil, err
	}
	if currentBookingID != nil {
		spot.CurrentBookingID = *currentBookingID
	}
	return spot, nil
}
