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

// CourseRepository manages persistence for cours, their enrollments and views.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "id, titre, description, date_debut, date_fin, capacite_max, prix, course_type, categorie, type_cours, auto_ecole_id, moniteur_id, created_at, updated_at"

// List returns all courses, soonest first.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours ORDER BY date_debut ASC", courseColumns)
	var list []models.Course
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list cours: %w", err)
	}
	return list, nil
}

// ListUpcoming returns courses starting strictly after the given instant.
func (r *CourseRepository) ListUpcoming(ctx context.Context, after time.Time) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours WHERE date_debut > $1 ORDER BY date_debut ASC", courseColumns)
	var list []models.Course
	if err := r.db.SelectContext(ctx, &list, query, after); err != nil {
		return nil, fmt.Errorf("list upcoming cours: %w", err)
	}
	return list, nil
}

// ListByInstructor returns the courses taught by an instructor.
func (r *CourseRepository) ListByInstructor(ctx context.Context, moniteurID string) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours WHERE moniteur_id = $1 ORDER BY date_debut ASC", courseColumns)
	var list []models.Course
	if err := r.db.SelectContext(ctx, &list, query, moniteurID); err != nil {
		return nil, fmt.Errorf("list cours by moniteur: %w", err)
	}
	return list, nil
}

// ListByType returns courses of one type, optionally scoped to a school.
func (r *CourseRepository) ListByType(ctx context.Context, courseType models.CourseType, autoEcoleID string) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours WHERE course_type = $1", courseColumns)
	args := []interface{}{courseType}
	if autoEcoleID != "" {
		query += " AND auto_ecole_id = $2"
		args = append(args, autoEcoleID)
	}
	query += " ORDER BY date_debut ASC"
	var list []models.Course
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list cours by type: %w", err)
	}
	return list, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO cours (id, titre, description, date_debut, date_fin, capacite_max, prix, course_type, categorie, type_cours, auto_ecole_id, moniteur_id, created_at, updated_at)
		VALUES (:id, :titre, :description, :date_debut, :date_fin, :capacite_max, :prix, :course_type, :categorie, :type_cours, :auto_ecole_id, :moniteur_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create cours: %w", err)
	}
	return nil
}

// Update overwrites a course's mutable fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE cours SET titre = :titre, description = :description, date_debut = :date_debut,
		date_fin = :date_fin, capacite_max = :capacite_max, prix = :prix, course_type = :course_type,
		categorie = :categorie, type_cours = :type_cours, auto_ecole_id = :auto_ecole_id,
		moniteur_id = :moniteur_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update cours: %w", err)
	}
	return nil
}

// CountEnrollments counts the seats already taken on a course.
func (r *CourseRepository) CountEnrollments(ctx context.Context, coursID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cours_inscriptions WHERE cours_id = $1", coursID); err != nil {
		return 0, fmt.Errorf("count inscriptions: %w", err)
	}
	return count, nil
}

// ExistsEnrollment checks whether a client already holds a seat.
func (r *CourseRepository) ExistsEnrollment(ctx context.Context, coursID, clientID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM cours_inscriptions WHERE cours_id = $1 AND client_id = $2 LIMIT 1", coursID, clientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check inscription: %w", err)
	}
	return true, nil
}

// CreateEnrollment inserts an enrollment record.
func (r *CourseRepository) CreateEnrollment(ctx context.Context, enrollment *models.CourseEnrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO cours_inscriptions (id, cours_id, client_id, created_at)
		VALUES (:id, :cours_id, :client_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create inscription: %w", err)
	}
	return nil
}

// RecordView inserts a course view unless the client has seen it already.
func (r *CourseRepository) RecordView(ctx context.Context, clientID, coursID string) error {
	const query = `INSERT INTO client_course_views (id, client_id, cours_id, viewed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, cours_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), clientID, coursID, time.Now().UTC()); err != nil {
		return fmt.Errorf("record course view: %w", err)
	}
	return nil
}

// CountTheoryCourses counts courses flagged as theory in either variant.
func (r *CourseRepository) CountTheoryCourses(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM cours WHERE categorie = 'Théorie' OR type_cours = 'Théorie'`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count theory cours: %w", err)
	}
	return count, nil
}

// CountViewedTheoryCourses counts the theory courses a client has opened.
func (r *CourseRepository) CountViewedTheoryCourses(ctx context.Context, clientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM client_course_views v
		JOIN cours c ON c.id = v.cours_id
		WHERE v.client_id = $1 AND (c.categorie = 'Théorie' OR c.type_cours = 'Théorie')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, clientID); err != nil {
		return 0, fmt.Errorf("count viewed theory cours: %w", err)
	}
	return count, nil
}
