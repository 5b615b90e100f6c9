package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

// TimeSlotRepository manages persistence for instructor time slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

const timeSlotColumns = "id, moniteur_id, start_time, end_time, status, created_at, updated_at"

// Create inserts a new time slot record.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO time_slots (id, moniteur_id, start_time, end_time, status, created_at, updated_at)
		VALUES (:id, :moniteur_id, :start_time, :end_time, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// FindByID fetches a time slot by ID.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE id = $1", timeSlotColumns)
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListByInstructor returns all slots owned by an instructor, earliest first.
func (r *TimeSlotRepository) ListByInstructor(ctx context.Context, moniteurID string) ([]models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE moniteur_id = $1 ORDER BY start_time ASC", timeSlotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, moniteurID); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// ListByInstructorAndRange returns slots whose start time falls inside [start, end].
func (r *TimeSlotRepository) ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE moniteur_id = $1 AND start_time BETWEEN $2 AND $3 ORDER BY start_time ASC", timeSlotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, moniteurID, start, end); err != nil {
		return nil, fmt.Errorf("list time slots by range: %w", err)
	}
	return slots, nil
}

// ListOverlapCandidates narrows an instructor's slots to those intersecting
// the (already widened) window; the caller runs the pairwise overlap test.
func (r *TimeSlotRepository) ListOverlapCandidates(ctx context.Context, moniteurID string, windowStart, windowEnd time.Time) ([]models.TimeSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM time_slots WHERE moniteur_id = $1 AND start_time <= $3 AND end_time >= $2", timeSlotColumns)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, moniteurID, windowStart, windowEnd); err != nil {
		return nil, fmt.Errorf("list overlap candidates: %w", err)
	}
	return slots, nil
}

// CountByInstructor counts the slots still owned by an instructor.
func (r *TimeSlotRepository) CountByInstructor(ctx context.Context, moniteurID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM time_slots WHERE moniteur_id = $1", moniteurID); err != nil {
		return 0, fmt.Errorf("count time slots: %w", err)
	}
	return count, nil
}

// UpdateStatus overwrites the status of a slot.
func (r *TimeSlotRepository) UpdateStatus(ctx context.Context, id string, status models.TimeSlotStatus) error {
	const query = `UPDATE time_slots SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update time slot status: %w", err)
	}
	return nil
}

// Delete removes a slot permanently.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM time_slots WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}
	return nil
}

// CalendarRow is the raw projection joining a slot with its instructor and,
// when actively booked, the reserving client.
type CalendarRow struct {
	ID             string         `db:"id"`
	StartTime      time.Time      `db:"start_time"`
	EndTime        time.Time      `db:"end_time"`
	Status         string         `db:"status"`
	MoniteurPrenom string         `db:"moniteur_prenom"`
	MoniteurNom    string         `db:"moniteur_nom"`
	ReservationID  sql.NullString `db:"reservation_id"`
	ClientPrenom   sql.NullString `db:"client_prenom"`
	ClientNom      sql.NullString `db:"client_nom"`
}

// ListCalendarRows loads the calendar projection for an instructor and window.
// Cancelled reservations do not surface; the join is read-only.
func (r *TimeSlotRepository) ListCalendarRows(ctx context.Context, moniteurID string, start, end time.Time) ([]CalendarRow, error) {
	const query = `SELECT ts.id, ts.start_time, ts.end_time, ts.status,
		m.prenom AS moniteur_prenom, m.nom AS moniteur_nom,
		r.id AS reservation_id, c.prenom AS client_prenom, c.nom AS client_nom
		FROM time_slots ts
		JOIN moniteurs m ON m.id = ts.moniteur_id
		LEFT JOIN reservations r ON r.time_slot_id = ts.id AND r.statut <> 'CANCELLED'
		LEFT JOIN clients c ON c.id = r.client_id
		WHERE ts.moniteur_id = $1 AND ts.start_time BETWEEN $2 AND $3
		ORDER BY ts.start_time ASC`
	var rows []CalendarRow
	if err := r.db.SelectContext(ctx, &rows, query, moniteurID, start, end); err != nil {
		return nil, fmt.Errorf("list calendar rows: %w", err)
	}
	return rows, nil
}
