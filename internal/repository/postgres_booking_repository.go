package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/domain"
	"github.com/akvanaparthy/DFWParkingandHotel-sub001/internal/telemetry"
)

// PostgresBookingRepository implements BookingRepository using PostgreSQL
// with pgxpool. Hotel, parking, payment and pricing legs are stored as
// JSONB so the row shape survives detail additions.
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// Create persists a new booking
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("owner_id", booking.OwnerID),
		attribute.String("kind", booking.Kind.String()),
	)

	hotelJSON, parkingJSON, paymentJSON, pricingJSON, err := marshalBookingLegs(booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	query := `
		INSERT INTO bookings (
			id, owner_id, kind, status,
			hotel_detail, parking_detail, payment, pricing,
			refund_amount, cancellation_reason, inventory_released,
			confirmed_at, cancelled_at, completed_at, refunded_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, $17
		)
	`

	_, err = r.pool.Exec(ctx, query,
		booking.ID,
		booking.OwnerID,
		booking.Kind.String(),
		booking.Status.String(),
		hotelJSON,
		parkingJSON,
		paymentJSON,
		pricingJSON,
		booking.RefundAmount,
		nullString(booking.CancellationReason),
		booking.InventoryReleased,
		booking.ConfirmedAt,
		booking.CancelledAt,
		booking.CompletedAt,
		booking.RefundedAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to create booking: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	row := r.pool.QueryRow(ctx, selectBookingQuery+` WHERE id = $1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to get booking: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// Update replaces the stored booking state
func (r *PostgresBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.update")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("status", booking.Status.String()),
	)

	hotelJSON, parkingJSON, paymentJSON, pricingJSON, err := marshalBookingLegs(booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	query := `
		UPDATE bookings SET
			status = $2,
			hotel_detail = $3,
			parking_detail = $4,
			payment = $5,
			pricing = $6,
			refund_amount = $7,
			cancellation_reason = $8,
			inventory_released = $9,
			confirmed_at = $10,
			cancelled_at = $11,
			completed_at = $12,
			refunded_at = $13,
			updated_at = $14
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.Status.String(),
		hotelJSON,
		parkingJSON,
		paymentJSON,
		pricingJSON,
		booking.RefundAmount,
		nullString(booking.CancellationReason),
		booking.InventoryReleased,
		booking.ConfirmedAt,
		booking.CancelledAt,
		booking.CompletedAt,
		booking.RefundedAt,
		time.Now(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to update booking: %w", err))
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// UpdateStatus commits a lifecycle transition with a status guard so two
// concurrent transitions on the same booking cannot both land. Zero rows
// with the booking present means another transition won the race.
func (r *PostgresBookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("from", from.String()),
		attribute.String("to", booking.Status.String()),
	)

	hotelJSON, parkingJSON, paymentJSON, pricingJSON, err := marshalBookingLegs(booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	query := `
		UPDATE bookings SET
			status = $2,
			hotel_detail = $3,
			parking_detail = $4,
			payment = $5,
			pricing = $6,
			refund_amount = $7,
			cancellation_reason = $8,
			inventory_released = $9,
			confirmed_at = $10,
			cancelled_at = $11,
			completed_at = $12,
			refunded_at = $13,
			updated_at = $14
		WHERE id = $1 AND status = $15
	`

	result, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.Status.String(),
		hotelJSON,
		parkingJSON,
		paymentJSON,
		pricingJSON,
		booking.RefundAmount,
		nullString(booking.CancellationReason),
		booking.InventoryReleased,
		booking.ConfirmedAt,
		booking.CancelledAt,
		booking.CompletedAt,
		booking.RefundedAt,
		time.Now(),
		from.String(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Retryable(fmt.Errorf("failed to update booking status: %w", err))
	}

	if result.RowsAffected() == 0 {
		var current string
		err := r.pool.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, booking.ID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return domain.ErrBookingNotFound
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return domain.Retryable(fmt.Errorf("failed to get booking: %w", err))
		}
		span.SetAttributes(attribute.String("current", current))
		span.SetStatus(codes.Error, "transition lost race")
		return domain.ErrInvalidTransition
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// List retrieves bookings matching the filter, newest first
func (r *PostgresBookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list")
	defer span.End()

	span.SetAttributes(
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	where, args := filterClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`%s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		selectBookingQuery, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("failed to list bookings: %w", err))
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Retryable(fmt.Errorf("error iterating bookings: %w", err))
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// Count returns how many bookings match the filter
func (r *PostgresBookingRepository) Count(ctx context.Context, filter BookingFilter) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.count")
	defer span.End()

	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM bookings ` + where

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, domain.Retryable(fmt.Errorf("failed to count bookings: %w", err))
	}

	span.SetStatus(codes.Ok, "")
	return count, nil
}

const selectBookingQuery = `
	SELECT
		id, owner_id, kind, status,
		hotel_detail, parking_detail, payment, pricing,
		refund_amount, cancellation_reason, inventory_released,
		confirmed_at, cancelled_at, completed_at, refunded_at,
		created_at, updated_at
	FROM bookings
`

// filterClause builds the WHERE clause for a filter. Arguments are
// numbered from $1.
func filterClause(filter BookingFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status.String())
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind.String())
		clauses = append(clauses, fmt.Sprintf("kind = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func marshalBookingLegs(booking *domain.Booking) (hotel, parking, payment, pricing []byte, err error) {
	if booking.HotelDetail != nil {
		hotel, err = json.Marshal(booking.HotelDetail)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal hotel detail: %w", err)
		}
	}
	if booking.ParkingDetail != nil {
		parking, err = json.Marshal(booking.ParkingDetail)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal parking detail: %w", err)
		}
	}
	payment, err = json.Marshal(booking.Payment)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal payment: %w", err)
	}
	pricing, err = json.Marshal(booking.Pricing)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal pricing: %w", err)
	}
	return hotel, parking, payment, pricing, nil
}

// scanBooking scans a booking row from either QueryRow or Query rows
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var (
		kind               string
		status             string
		hotelJSON          []byte
		parkingJSON        []byte
		paymentJSON        []byte
		pricingJSON        []byte
		cancellationReason *string
	)

	err := row.Scan(
		&booking.ID,
		&booking.OwnerID,
		&kind,
		&status,
		&hotelJSON,
		&parkingJSON,
		&paymentJSON,
		&pricingJSON,
		&booking.RefundAmount,
		&cancellationReason,
		&booking.InventoryReleased,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.CompletedAt,
		&booking.RefundedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Kind = domain.BookingKind(kind)
	booking.Status = domain.BookingStatus(status)
	if cancellationReason != nil {
		booking.CancellationReason = *cancellationReason
	}
	if len(hotelJSON) > 0 {
		booking.HotelDetail = &domain.HotelDetail{}
		if err := json.Unmarshal(hotelJSON, booking.HotelDetail); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hotel detail: %w", err)
		}
	}
	if len(parkingJSON) > 0 {
		booking.ParkingDetail = &domain.ParkingDetail{}
		if err := json.Unmarshal(parkingJSON, booking.ParkingDetail); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parking detail: %w", err)
		}
	}
	if len(paymentJSON) > 0 {
		if err := json.Unmarshal(paymentJSON, &booking.Payment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
		}
	}
	if len(pricingJSON) > 0 {
		if err := json.Unmarshal(pricingJSON, &booking.Pricing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pricing: %w", err)
		}
	}

	return booking, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
