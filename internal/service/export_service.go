package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
	"github.com/autoecole-app/autoecole-api/pkg/export"
)

type reservationRangeLister interface {
	ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.Reservation, error)
}

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders an instructor's reservation schedule as CSV or PDF.
type ExportService struct {
	reservations reservationRangeLister
	instructors  instructorLookup
	clients      clientLookup
	logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(reservations reservationRangeLister, instructors instructorLookup, clients clientLookup, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reservations: reservations,
		instructors:  instructors,
		clients:      clients,
		logger:       logger,
	}
}

// Schedule exports the instructor's reservations inside [start, end] in the
// requested format, either "csv" or "pdf".
func (s *ExportService) Schedule(ctx context.Context, moniteurID string, start, end time.Time, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid format, must be one of: csv, pdf")
	}
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}
	instructor, err := s.instructors.FindByID(ctx, moniteurID)
	if err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	reservations, err := s.reservations.ListByInstructorAndRange(ctx, moniteurID, start, end)
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}

	table := export.Table{
		Title:   fmt.Sprintf("Planning de %s", instructor.DisplayName()),
		Columns: []string{"Date", "Heure", "Client", "Statut", "Commentaire"},
		Rows:    make([][]string, 0, len(reservations)),
	}
	clientNames := make(map[string]string)
	for _, reservation := range reservations {
		name, ok := clientNames[reservation.ClientID]
		if !ok {
			client, err := s.clients.FindByID(ctx, reservation.ClientID)
			if err != nil {
				name = reservation.ClientID
			} else {
				name = client.DisplayName()
			}
			clientNames[reservation.ClientID] = name
		}
		comment := ""
		if reservation.Commentaire != nil {
			comment = *reservation.Commentaire
		}
		table.Rows = append(table.Rows, []string{
			reservation.DateReservation.Format("02/01/2006"),
			reservation.DateReservation.Format("15:04"),
			name,
			string(reservation.Statut),
			comment,
		})
	}

	filename := fmt.Sprintf("planning_%s_%s.%s", instructor.Nom, start.Format("2006-01-02"), format)
	if format == "csv" {
		content, err := export.WriteCSV(table)
		if err != nil {
			return nil, internalError(err, "failed to render csv export")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: filename}, nil
	}

	content, err := export.WritePDF(table)
	if err != nil {
		return nil, internalError(err, "failed to render pdf export")
	}
	return &ExportFile{Content: content, ContentType: "application/pdf", Filename: filename}, nil
}
