package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
)

type diagnosticRepository interface {
	Create(ctx context.Context, diag *models.Diagnostic) error
	ListByClient(ctx context.Context, clientID string) ([]models.Diagnostic, error)
	FindLatestByClient(ctx context.Context, clientID string) (*models.Diagnostic, error)
}

type resultLister interface {
	ListResultsByClient(ctx context.Context, clientID string) ([]models.TestResult, error)
}

type reservationLister interface {
	ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error)
}

// DiagnosticService derives progress snapshots from a client's practice-test
// results and confirmed driving lessons.
type DiagnosticService struct {
	diagnostics  diagnosticRepository
	results      resultLister
	reservations reservationLister
	clients      clientLookup
	logger       *zap.Logger
	now          func() time.Time
}

// NewDiagnosticService constructs a DiagnosticService.
func NewDiagnosticService(diagnostics diagnosticRepository, results resultLister, reservations reservationLister, clients clientLookup, logger *zap.Logger) *DiagnosticService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticService{
		diagnostics:  diagnostics,
		results:      results,
		reservations: reservations,
		clients:      clients,
		logger:       logger,
		now:          time.Now,
	}
}

// Generate computes a fresh diagnostic for the client and stores it. The
// level is derived from the average test score: below 50 Débutant, below 75
// Intermédiaire, otherwise Avancé. Each confirmed lesson counts as one hour
// of driving.
func (s *DiagnosticService) Generate(ctx context.Context, clientID string) (*models.Diagnostic, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}

	results, err := s.results.ListResultsByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list test results")
	}
	reservations, err := s.reservations.ListByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}

	average := 0.0
	if len(results) > 0 {
		sum := 0
		for _, result := range results {
			sum += result.Score
		}
		average = float64(sum) / float64(len(results))
	}
	hours := 0
	for _, reservation := range reservations {
		if reservation.Statut == models.ReservationBooked {
			hours++
		}
	}

	diagnostic := &models.Diagnostic{
		ClientID:             clientID,
		DateDiagnostic:       s.now(),
		NombreTestsPasses:    len(results),
		MoyenneTests:         average,
		NombreHeuresConduite: hours,
		NiveauGeneral:        levelForAverage(average),
		Commentaire:          commentForLevel(levelForAverage(average), len(results)),
	}
	if err := s.diagnostics.Create(ctx, diagnostic); err != nil {
		return nil, internalError(err, "failed to store diagnostic")
	}
	s.logger.Info("diagnostic generated",
		zap.String("client_id", clientID),
		zap.String("niveau", diagnostic.NiveauGeneral),
		zap.Float64("moyenne", average))
	return diagnostic, nil
}

// History lists a client's diagnostics, newest first.
func (s *DiagnosticService) History(ctx context.Context, clientID string) ([]models.Diagnostic, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}
	diagnostics, err := s.diagnostics.ListByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list diagnostics")
	}
	return diagnostics, nil
}

// Latest returns the most recent diagnostic for a client.
func (s *DiagnosticService) Latest(ctx context.Context, clientID string) (*models.Diagnostic, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, loadError(err, "client not found")
	}
	diagnostic, err := s.diagnostics.FindLatestByClient(ctx, clientID)
	if err != nil {
		return nil, loadError(err, "diagnostic not found")
	}
	return diagnostic, nil
}

func levelForAverage(average float64) string {
	switch {
	case average < 50:
		return models.LevelBeginner
	case average < 75:
		return models.LevelIntermediate
	default:
		return models.LevelAdvanced
	}
}

func commentForLevel(level string, attempts int) string {
	if attempts == 0 {
		return "Aucun test blanc passé pour le moment, commencez par un premier test pour évaluer votre niveau."
	}
	switch level {
	case models.LevelBeginner:
		return "Les bases du code restent à consolider, continuez à réviser et à passer des tests blancs."
	case models.LevelIntermediate:
		return "Bonne progression, encore quelques révisions avant de viser l'examen."
	default:
		return "Niveau solide, vous pouvez envisager de passer l'examen du code."
	}
}
