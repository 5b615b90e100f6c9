package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

// DiagnosticRepository manages generated diagnostics.
type DiagnosticRepository struct {
	db *sqlx.DB
}

// NewDiagnosticRepository constructs a DiagnosticRepository.
func NewDiagnosticRepository(db *sqlx.DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

const diagnosticColumns = "id, client_id, date_diagnostic, nombre_tests_passes, moyenne_tests, nombre_heures_conduite, niveau_general, commentaire"

// Create inserts a diagnostic snapshot.
func (r *DiagnosticRepository) Create(ctx context.Context, diag *models.Diagnostic) error {
	if diag.ID == "" {
		diag.ID = uuid.NewString()
	}
	if diag.DateDiagnostic.IsZero() {
		diag.DateDiagnostic = time.Now().UTC()
	}
	const query = `INSERT INTO diagnostics (id, client_id, date_diagnostic, nombre_tests_passes, moyenne_tests, nombre_heures_conduite, niveau_general, commentaire)
		VALUES (:id, :client_id, :date_diagnostic, :nombre_tests_passes, :moyenne_tests, :nombre_heures_conduite, :niveau_general, :commentaire)`
	if _, err := r.db.NamedExecContext(ctx, query, diag); err != nil {
		return fmt.Errorf("create diagnostic: %w", err)
	}
	return nil
}

// ListByClient returns a client's diagnostics, newest first.
func (r *DiagnosticRepository) ListByClient(ctx context.Context, clientID string) ([]models.Diagnostic, error) {
	query := fmt.Sprintf("SELECT %s FROM diagnostics WHERE client_id = $1 ORDER BY date_diagnostic DESC", diagnosticColumns)
	var list []models.Diagnostic
	if err := r.db.SelectContext(ctx, &list, query, clientID); err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	return list, nil
}

// FindLatestByClient returns a client's most recent diagnostic.
func (r *DiagnosticRepository) FindLatestByClient(ctx context.Context, clientID string) (*models.Diagnostic, error) {
	query := fmt.Sprintf("SELECT %s FROM diagnostics WHERE client_id = $1 ORDER BY date_diagnostic DESC LIMIT 1", diagnosticColumns)
	var diag models.Diagnostic
	if err := r.db.GetContext(ctx, &diag, query, clientID); err != nil {
		return nil, err
	}
	return &diag, nil
}
