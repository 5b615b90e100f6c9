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

// ClientRepository manages persistence for clients.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs a ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = "id, nom, prenom, email, telephone, date_naissance, numero_permis, type_permis, auto_ecole_id, created_at, updated_at"

// List returns all clients, newest first.
func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients ORDER BY created_at DESC", clientColumns)
	var list []models.Client
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return list, nil
}

// ListBySchool returns the clients attached to a school.
func (r *ClientRepository) ListBySchool(ctx context.Context, autoEcoleID string) ([]models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE auto_ecole_id = $1 ORDER BY nom ASC", clientColumns)
	var list []models.Client
	if err := r.db.SelectContext(ctx, &list, query, autoEcoleID); err != nil {
		return nil, fmt.Errorf("list clients by school: %w", err)
	}
	return list, nil
}

// FindByID fetches a client by ID.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE id = $1", clientColumns)
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}
	return &client, nil
}

// ExistsByEmail checks if another client uses the same email.
func (r *ClientRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	query := "SELECT 1 FROM clients WHERE LOWER(email) = LOWER($1)"
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
		return false, fmt.Errorf("check client email: %w", err)
	}
	return true, nil
}

// Create inserts a new client record.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	const query = `INSERT INTO clients (id, nom, prenom, email, telephone, date_naissance, numero_permis, type_permis, auto_ecole_id, created_at, updated_at)
		VALUES (:id, :nom, :prenom, :email, :telephone, :date_naissance, :numero_permis, :type_permis, :auto_ecole_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// Update modifies an existing client record.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now().UTC()
	const query = `UPDATE clients SET nom = :nom, prenom = :prenom, email = :email, telephone = :telephone,
		date_naissance = :date_naissance, numero_permis = :numero_permis, type_permis = :type_permis,
		auto_ecole_id = :auto_ecole_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, client); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete removes a client permanently.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
