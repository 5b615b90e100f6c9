package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type mockDiagnosticRepo struct {
	diagnostics []models.Diagnostic
}

func (m *mockDiagnosticRepo) Create(ctx context.Context, diag *models.Diagnostic) error {
	if diag.ID == "" {
		diag.ID = fmt.Sprintf("diag-%d", len(m.diagnostics)+1)
	}
	m.diagnostics = append(m.diagnostics, *diag)
	return nil
}

func (m *mockDiagnosticRepo) ListByClient(ctx context.Context, clientID string) ([]models.Diagnostic, error) {
	var list []models.Diagnostic
	for _, d := range m.diagnostics {
		if d.ClientID == clientID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (m *mockDiagnosticRepo) FindLatestByClient(ctx context.Context, clientID string) (*models.Diagnostic, error) {
	for i := len(m.diagnostics) - 1; i >= 0; i-- {
		if m.diagnostics[i].ClientID == clientID {
			return &m.diagnostics[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type staticResultLister struct {
	scores []int
}

func (s *staticResultLister) ListResultsByClient(ctx context.Context, clientID string) ([]models.TestResult, error) {
	var results []models.TestResult
	for _, score := range s.scores {
		results = append(results, models.TestResult{ClientID: clientID, Score: score})
	}
	return results, nil
}

type staticReservationLister struct {
	statuses []models.ReservationStatus
}

func (s *staticReservationLister) ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for _, status := range s.statuses {
		reservations = append(reservations, models.Reservation{ClientID: clientID, Statut: status})
	}
	return reservations, nil
}

func newDiagnosticService(repo *mockDiagnosticRepo, scores []int, statuses []models.ReservationStatus) *DiagnosticService {
	svc := NewDiagnosticService(repo, &staticResultLister{scores: scores}, &staticReservationLister{statuses: statuses}, defaultClients(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestDiagnosticServiceGenerateLevels(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		level  string
	}{
		{name: "beginner below fifty", scores: []int{30, 60}, level: models.LevelBeginner},
		{name: "intermediate below seventy five", scores: []int{70, 74}, level: models.LevelIntermediate},
		{name: "advanced at seventy five", scores: []int{75, 75}, level: models.LevelAdvanced},
		{name: "advanced high", scores: []int{90, 100}, level: models.LevelAdvanced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newDiagnosticService(&mockDiagnosticRepo{}, tc.scores, nil)

			diag, err := svc.Generate(context.Background(), "c1")
			require.NoError(t, err)
			assert.Equal(t, tc.level, diag.NiveauGeneral)
			assert.Equal(t, len(tc.scores), diag.NombreTestsPasses)
		})
	}
}

func TestDiagnosticServiceGenerateNoAttempts(t *testing.T) {
	svc := newDiagnosticService(&mockDiagnosticRepo{}, nil, nil)

	diag, err := svc.Generate(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.LevelBeginner, diag.NiveauGeneral)
	assert.Zero(t, diag.MoyenneTests)
	assert.Contains(t, diag.Commentaire, "Aucun test blanc")
}

func TestDiagnosticServiceGenerateCountsBookedHours(t *testing.T) {
	statuses := []models.ReservationStatus{
		models.ReservationBooked,
		models.ReservationBooked,
		models.ReservationPending,
		models.ReservationCancelled,
	}
	svc := newDiagnosticService(&mockDiagnosticRepo{}, []int{80}, statuses)

	diag, err := svc.Generate(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, diag.NombreHeuresConduite, "only confirmed lessons count")
}

func TestDiagnosticServiceLatest(t *testing.T) {
	repo := &mockDiagnosticRepo{}
	svc := newDiagnosticService(repo, []int{40}, nil)

	_, err := svc.Latest(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)

	first, err := svc.Generate(context.Background(), "c1")
	require.NoError(t, err)

	latest, err := svc.Latest(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)

	history, err := svc.History(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDiagnosticServiceUnknownClient(t *testing.T) {
	svc := newDiagnosticService(&mockDiagnosticRepo{}, nil, nil)

	_, err := svc.Generate(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
