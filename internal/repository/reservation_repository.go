package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

// ErrDuplicateActiveReservation is returned when the partial unique index on
// reservations(time_slot_id) rejects a second active reservation for a slot.
var ErrDuplicateActiveReservation = errors.New("active reservation already exists for time slot")

// ReservationRepository manages persistence for reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = "id, client_id, moniteur_id, time_slot_id, date_reservation, commentaire, statut, created_at, updated_at"

// Create inserts a new reservation. The unique index on active reservations
// per slot turns a lost booking race into ErrDuplicateActiveReservation.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	const query = `INSERT INTO reservations (id, client_id, moniteur_id, time_slot_id, date_reservation, commentaire, statut, created_at, updated_at)
		VALUES (:id, :client_id, :moniteur_id, :time_slot_id, :date_reservation, :commentaire, :statut, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateActiveReservation
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// FindByID fetches a reservation by ID.
func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE id = $1", reservationColumns)
	var res models.Reservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

// ExistsActiveForSlot checks whether a non-cancelled reservation already
// claims the slot at the given scheduled instant.
func (r *ReservationRepository) ExistsActiveForSlot(ctx context.Context, timeSlotID string, dateReservation time.Time) (bool, error) {
	const query = `SELECT 1 FROM reservations WHERE time_slot_id = $1 AND date_reservation = $2 AND statut <> 'CANCELLED' LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, timeSlotID, dateReservation); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slot reservation: %w", err)
	}
	return true, nil
}

// ListByClient returns a client's reservations, newest scheduled first.
func (r *ReservationRepository) ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE client_id = $1 ORDER BY date_reservation DESC", reservationColumns)
	var list []models.Reservation
	if err := r.db.SelectContext(ctx, &list, query, clientID); err != nil {
		return nil, fmt.Errorf("list reservations by client: %w", err)
	}
	return list, nil
}

// ListByInstructor returns an instructor's reservations, newest scheduled first.
func (r *ReservationRepository) ListByInstructor(ctx context.Context, moniteurID string) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE moniteur_id = $1 ORDER BY date_reservation DESC", reservationColumns)
	var list []models.Reservation
	if err := r.db.SelectContext(ctx, &list, query, moniteurID); err != nil {
		return nil, fmt.Errorf("list reservations by moniteur: %w", err)
	}
	return list, nil
}

// ListUpcoming returns reservations scheduled strictly after the given instant.
func (r *ReservationRepository) ListUpcoming(ctx context.Context, after time.Time) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE date_reservation > $1 ORDER BY date_reservation ASC", reservationColumns)
	var list []models.Reservation
	if err := r.db.SelectContext(ctx, &list, query, after); err != nil {
		return nil, fmt.Errorf("list upcoming reservations: %w", err)
	}
	return list, nil
}

// ListByDateRange returns reservations scheduled inside [start, end], inclusive.
func (r *ReservationRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE date_reservation BETWEEN $1 AND $2 ORDER BY date_reservation ASC", reservationColumns)
	var list []models.Reservation
	if err := r.db.SelectContext(ctx, &list, query, start, end); err != nil {
		return nil, fmt.Errorf("list reservations by range: %w", err)
	}
	return list, nil
}

// ListByInstructorAndRange serves the export surface.
func (r *ReservationRepository) ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE moniteur_id = $1 AND date_reservation BETWEEN $2 AND $3 ORDER BY date_reservation ASC", reservationColumns)
	var list []models.Reservation
	if err := r.db.SelectContext(ctx, &list, query, moniteurID, start, end); err != nil {
		return nil, fmt.Errorf("list reservations for export: %w", err)
	}
	return list, nil
}

// ListActiveBySlotIDs returns the non-cancelled reservations claiming any of
// the given slots. Used by the availability engine to subtract booked slots.
func (r *ReservationRepository) ListActiveBySlotIDs(ctx context.Context, slotIDs []string) ([]models.Reservation, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT %s FROM reservations WHERE time_slot_id IN (?) AND statut <> 'CANCELLED'", reservationColumns),
		slotIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("build slot reservation query: %w", err)
	}
	query = r.db.Rebind(query)
	var list []models.Reservation
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list reservations by slots: %w", err)
	}
	return list, nil
}

// UpdateStatus persists a status transition.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET statut = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}
