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

// InstructorRepository manages persistence for moniteurs.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

const instructorColumns = "id, nom, prenom, email, telephone, specialite, experience_annees, numero_agrement, disponible, auto_ecole_id, created_at, updated_at"

// List returns all instructors, newest first.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM moniteurs ORDER BY created_at DESC", instructorColumns)
	var list []models.Instructor
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list moniteurs: %w", err)
	}
	return list, nil
}

// ListBySchool returns the instructors attached to a school.
func (r *InstructorRepository) ListBySchool(ctx context.Context, autoEcoleID string) ([]models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM moniteurs WHERE auto_ecole_id = $1 ORDER BY nom ASC", instructorColumns)
	var list []models.Instructor
	if err := r.db.SelectContext(ctx, &list, query, autoEcoleID); err != nil {
		return nil, fmt.Errorf("list moniteurs by school: %w", err)
	}
	return list, nil
}

// FindByID fetches an instructor by ID.
func (r *InstructorRepository) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	query := fmt.Sprintf("SELECT %s FROM moniteurs WHERE id = $1", instructorColumns)
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, id); err != nil {
		return nil, err
	}
	return &instructor, nil
}

// ExistsByEmail checks if another instructor uses the same email.
func (r *InstructorRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	query := "SELECT 1 FROM moniteurs WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check moniteur email: %w", err)
	}
	return true, nil
}

// Create inserts a new instructor record.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if instructor.CreatedAt.IsZero() {
		instructor.CreatedAt = now
	}
	instructor.UpdatedAt = now

	const query = `INSERT INTO moniteurs (id, nom, prenom, email, telephone, specialite, experience_annees, numero_agrement, disponible, auto_ecole_id, created_at, updated_at)
		VALUES (:id, :nom, :prenom, :email, :telephone, :specialite, :experience_annees, :numero_agrement, :disponible, :auto_ecole_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("create moniteur: %w", err)
	}
	return nil
}

// Update modifies an existing instructor record.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	instructor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE moniteurs SET nom = :nom, prenom = :prenom, email = :email, telephone = :telephone,
		specialite = :specialite, experience_annees = :experience_annees, numero_agrement = :numero_agrement,
		disponible = :disponible, auto_ecole_id = :auto_ecole_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("update moniteur: %w", err)
	}
	return nil
}

// SetAvailability toggles the disponible flag.
func (r *InstructorRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	const query = `UPDATE moniteurs SET disponible = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, available, time.Now().UTC()); err != nil {
		return fmt.Errorf("set moniteur availability: %w", err)
	}
	return nil
}

// Delete removes an instructor permanently.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM moniteurs WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete moniteur: %w", err)
	}
	return nil
}
