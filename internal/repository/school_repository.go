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

// SchoolRepository manages persistence for auto-écoles.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

const schoolColumns = "id, nom, email, telephone, adresse, siret, code_postal, ville, site_web, description, horaires, created_at, updated_at"

// List returns all schools, newest first.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM auto_ecoles ORDER BY created_at DESC", schoolColumns)
	var list []models.School
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list auto-ecoles: %w", err)
	}
	return list, nil
}

// FindByID fetches a school by ID.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM auto_ecoles WHERE id = $1", schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// ExistsByUniqueFields checks for another school with the same email,
// telephone or siret.
func (r *SchoolRepository) ExistsByUniqueFields(ctx context.Context, email, telephone, siret, excludeID string) (bool, error) {
	query := "SELECT 1 FROM auto_ecoles WHERE (LOWER(email) = LOWER($1) OR telephone = $2 OR siret = $3)"
	args := []interface{}{email, telephone, siret}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check auto-ecole uniqueness: %w", err)
	}
	return true, nil
}

// CountClients returns how many clients are attached to the school.
func (r *SchoolRepository) CountClients(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clients WHERE auto_ecole_id = $1", id); err != nil {
		return 0, fmt.Errorf("count auto-ecole clients: %w", err)
	}
	return count, nil
}

// CountInstructors returns how many moniteurs are attached to the school.
func (r *SchoolRepository) CountInstructors(ctx context.Context, id string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM moniteurs WHERE auto_ecole_id = $1", id); err != nil {
		return 0, fmt.Errorf("count auto-ecole moniteurs: %w", err)
	}
	return count, nil
}

// Create inserts a new school record.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if school.CreatedAt.IsZero() {
		school.CreatedAt = now
	}
	school.UpdatedAt = now

	const query = `INSERT INTO auto_ecoles (id, nom, email, telephone, adresse, siret, code_postal, ville, site_web, description, horaires, created_at, updated_at)
		VALUES (:id, :nom, :email, :telephone, :adresse, :siret, :code_postal, :ville, :site_web, :description, :horaires, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("create auto-ecole: %w", err)
	}
	return nil
}

// Update modifies an existing school record.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	const query = `UPDATE auto_ecoles SET nom = :nom, email = :email, telephone = :telephone, adresse = :adresse,
		siret = :siret, code_postal = :code_postal, ville = :ville, site_web = :site_web,
		description = :description, horaires = :horaires, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("update auto-ecole: %w", err)
	}
	return nil
}

// Delete removes a school permanently.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM auto_ecoles WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete auto-ecole: %w", err)
	}
	return nil
}
