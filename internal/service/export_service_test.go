package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type staticReservationRangeLister struct {
	reservations []models.Reservation
}

func (s *staticReservationRangeLister) ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	for _, r := range s.reservations {
		if r.MoniteurID == moniteurID && !r.DateReservation.Before(start) && !r.DateReservation.After(end) {
			list = append(list, r)
		}
	}
	return list, nil
}

func exportFixture() *staticReservationRangeLister {
	comment := "conduite sur autoroute"
	return &staticReservationRangeLister{reservations: []models.Reservation{
		{
			ID:              "r1",
			ClientID:        "c1",
			MoniteurID:      "m1",
			DateReservation: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			Statut:          models.ReservationBooked,
			Commentaire:     &comment,
		},
		{
			ID:              "r2",
			ClientID:        "ghost",
			MoniteurID:      "m1",
			DateReservation: time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC),
			Statut:          models.ReservationPending,
		},
	}}
}

func newExportService(lister *staticReservationRangeLister) *ExportService {
	return NewExportService(lister, defaultInstructors(), defaultClients(), zap.NewNop())
}

func TestExportServiceScheduleCSV(t *testing.T) {
	svc := newExportService(exportFixture())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)

	file, err := svc.Schedule(context.Background(), "m1", start, end, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "planning_Martin_2026-03-01.csv", file.Filename)

	body := string(file.Content)
	assert.True(t, strings.HasPrefix(body, "Date,Heure,Client,Statut,Commentaire"))
	assert.Contains(t, body, "02/03/2026,10:00,Emma Durand,BOOKED,conduite sur autoroute")
	assert.Contains(t, body, "ghost", "unknown clients fall back to their id")
}

func TestExportServiceSchedulePDF(t *testing.T) {
	svc := newExportService(exportFixture())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)

	file, err := svc.Schedule(context.Background(), "m1", start, end, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "planning_Martin_2026-03-01.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestExportServiceScheduleValidation(t *testing.T) {
	svc := newExportService(exportFixture())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	_, err := svc.Schedule(context.Background(), "m1", start, end, "xlsx")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Schedule(context.Background(), "m1", end, start, "csv")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Schedule(context.Background(), "ghost", start, end, "csv")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
