package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	"github.com/autoecole-app/autoecole-api/internal/repository"
	"github.com/autoecole-app/autoecole-api/internal/service"
)

type slotStore struct {
	slots map[string]models.TimeSlot
}

func (m *slotStore) Create(ctx context.Context, slot *models.TimeSlot) error {
	if m.slots == nil {
		m.slots = make(map[string]models.TimeSlot)
	}
	if slot.ID == "" {
		slot.ID = fmt.Sprintf("slot-%d", len(m.slots)+1)
	}
	m.slots[slot.ID] = *slot
	return nil
}

func (m *slotStore) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	if s, ok := m.slots[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *slotStore) ListByInstructor(ctx context.Context, moniteurID string) ([]models.TimeSlot, error) {
	var list []models.TimeSlot
	for _, s := range m.slots {
		if s.MoniteurID == moniteurID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *slotStore) ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.TimeSlot, error) {
	var list []models.TimeSlot
	for _, s := range m.slots {
		if s.MoniteurID == moniteurID && !s.StartTime.Before(start) && !s.StartTime.After(end) {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *slotStore) ListOverlapCandidates(ctx context.Context, moniteurID string, windowStart, windowEnd time.Time) ([]models.TimeSlot, error) {
	var list []models.TimeSlot
	for _, s := range m.slots {
		if s.MoniteurID == moniteurID && !s.StartTime.After(windowEnd) && !s.EndTime.Before(windowStart) {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *slotStore) ListCalendarRows(ctx context.Context, moniteurID string, start, end time.Time) ([]repository.CalendarRow, error) {
	var rows []repository.CalendarRow
	for _, s := range m.slots {
		if s.MoniteurID == moniteurID && !s.StartTime.Before(start) && !s.StartTime.After(end) {
			rows = append(rows, repository.CalendarRow{
				ID:             s.ID,
				StartTime:      s.StartTime,
				EndTime:        s.EndTime,
				Status:         string(s.Status),
				MoniteurPrenom: "Luc",
				MoniteurNom:    "Martin",
			})
		}
	}
	return rows, nil
}

func (m *slotStore) UpdateStatus(ctx context.Context, id string, status models.TimeSlotStatus) error {
	s := m.slots[id]
	s.Status = status
	m.slots[id] = s
	return nil
}

func (m *slotStore) Delete(ctx context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

type reservationStore struct {
	reservations map[string]models.Reservation
}

func (m *reservationStore) Create(ctx context.Context, res *models.Reservation) error {
	if m.reservations == nil {
		m.reservations = make(map[string]models.Reservation)
	}
	if res.ID == "" {
		res.ID = fmt.Sprintf("res-%d", len(m.reservations)+1)
	}
	m.reservations[res.ID] = *res
	return nil
}

func (m *reservationStore) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *reservationStore) ExistsActiveForSlot(ctx context.Context, timeSlotID string, dateReservation time.Time) (bool, error) {
	for _, r := range m.reservations {
		if r.TimeSlotID == timeSlotID && r.Statut != models.ReservationCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *reservationStore) ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	var list []models.Reservation
	for _, r := range m.reservations {
		if r.ClientID == clientID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *reservationStore) ListByInstructor(ctx context.Context, moniteurID string) ([]models.Reservation, error) {
	var list []models.Reservation
	for _, r := range m.reservations {
		if r.MoniteurID == moniteurID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *reservationStore) ListUpcoming(ctx context.Context, after time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	for _, r := range m.reservations {
		if r.DateReservation.After(after) {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *reservationStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	for _, r := range m.reservations {
		if !r.DateReservation.Before(start) && !r.DateReservation.After(end) {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *reservationStore) ListActiveBySlotIDs(ctx context.Context, slotIDs []string) ([]models.Reservation, error) {
	var list []models.Reservation
	for _, r := range m.reservations {
		if r.Statut == models.ReservationCancelled {
			continue
		}
		for _, id := range slotIDs {
			if r.TimeSlotID == id {
				list = append(list, r)
			}
		}
	}
	return list, nil
}

func (m *reservationStore) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	r := m.reservations[id]
	r.Statut = status
	m.reservations[id] = r
	return nil
}

type instructorStore struct{}

func (instructorStore) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	if id == "m1" {
		return &models.Instructor{ID: "m1", Nom: "Martin", Prenom: "Luc", Disponible: true}, nil
	}
	return nil, sql.ErrNoRows
}

type clientStore struct{}

func (clientStore) FindByID(ctx context.Context, id string) (*models.Client, error) {
	if id == "c1" {
		return &models.Client{ID: "c1", Nom: "Durand", Prenom: "Emma"}, nil
	}
	return nil, sql.ErrNoRows
}

func buildSchedulingRouter(slots *slotStore, reservations *reservationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	validate := validator.New()
	logger := zap.NewNop()
	metrics := service.NewMetricsService()

	slotSvc := service.NewTimeSlotService(slots, instructorStore{}, nil, 2*time.Minute, metrics, validate, logger)
	reservationSvc := service.NewReservationService(reservations, clientStore{}, slots, instructorStore{}, nil, validate, logger)

	slotHandler := NewTimeSlotHandler(slotSvc, metrics)
	reservationHandler := NewReservationHandler(reservationSvc, metrics)

	r := gin.New()
	r.POST("/time-slots", slotHandler.Create)
	r.GET("/time-slots/moniteur/:moniteurId", slotHandler.ListByInstructor)
	r.GET("/time-slots/moniteur/:moniteurId/calendar", slotHandler.Calendar)
	r.PUT("/time-slots/:id/status", slotHandler.UpdateStatus)
	r.DELETE("/time-slots/:id", slotHandler.Delete)
	r.POST("/reservations", reservationHandler.Create)
	r.PUT("/reservations/:id/accept", reservationHandler.Accept)
	r.PUT("/reservations/:id/cancel", reservationHandler.Cancel)
	r.PUT("/reservations/:id/status", reservationHandler.UpdateStatus)
	r.GET("/reservations/available-slots/:moniteurId", reservationHandler.AvailableSlots)
	return r
}

func performRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func jsonRequest(method, path, body string) *http.Request {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSchedulingRoutes(t *testing.T) {
	futureStart := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	futureEnd := futureStart.Add(time.Hour)
	slotPayload := fmt.Sprintf(`{"moniteurId":"m1","startTime":%q,"endTime":%q}`, futureStart.Format(time.RFC3339), futureEnd.Format(time.RFC3339))

	t.Run("create slot", func(t *testing.T) {
		router := buildSchedulingRouter(&slotStore{}, &reservationStore{})
		resp := performRequest(router, jsonRequest(http.MethodPost, "/time-slots", slotPayload))
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"moniteur_id":"m1"`)
	})

	t.Run("overlapping slot rejected", func(t *testing.T) {
		router := buildSchedulingRouter(&slotStore{}, &reservationStore{})
		resp := performRequest(router, jsonRequest(http.MethodPost, "/time-slots", slotPayload))
		require.Equal(t, http.StatusCreated, resp.Code)

		resp = performRequest(router, jsonRequest(http.MethodPost, "/time-slots", slotPayload))
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "SLOT_OVERLAP")
	})

	t.Run("unknown instructor", func(t *testing.T) {
		router := buildSchedulingRouter(&slotStore{}, &reservationStore{})
		payload := fmt.Sprintf(`{"moniteurId":"ghost","startTime":%q,"endTime":%q}`, futureStart.Format(time.RFC3339), futureEnd.Format(time.RFC3339))
		resp := performRequest(router, jsonRequest(http.MethodPost, "/time-slots", payload))
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("invalid slot status value", func(t *testing.T) {
		slots := &slotStore{slots: map[string]models.TimeSlot{
			"s1": {ID: "s1", MoniteurID: "m1", StartTime: futureStart, EndTime: futureEnd, Status: models.SlotAvailable},
		}}
		router := buildSchedulingRouter(slots, &reservationStore{})
		resp := performRequest(router, jsonRequest(http.MethodPut, "/time-slots/s1/status", `{"status":"NOPE"}`))
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("calendar reports its source", func(t *testing.T) {
		slots := &slotStore{slots: map[string]models.TimeSlot{
			"s1": {ID: "s1", MoniteurID: "m1", StartTime: futureStart, EndTime: futureEnd, Status: models.SlotAvailable},
		}}
		router := buildSchedulingRouter(slots, &reservationStore{})
		path := fmt.Sprintf("/time-slots/moniteur/m1/calendar?date=%s", futureStart.Format("2006-01-02"))
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"source":"database"`)
	})
}

func TestBookingRoutes(t *testing.T) {
	futureStart := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	futureEnd := futureStart.Add(time.Hour)
	seedSlots := func() *slotStore {
		return &slotStore{slots: map[string]models.TimeSlot{
			"s1": {ID: "s1", MoniteurID: "m1", StartTime: futureStart, EndTime: futureEnd, Status: models.SlotAvailable},
		}}
	}

	t.Run("book then double book", func(t *testing.T) {
		router := buildSchedulingRouter(seedSlots(), &reservationStore{})
		payload := `{"clientId":"c1","timeSlotId":"s1","commentaire":"première leçon"}`

		resp := performRequest(router, jsonRequest(http.MethodPost, "/reservations", payload))
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"statut":"PENDING"`)

		resp = performRequest(router, jsonRequest(http.MethodPost, "/reservations", payload))
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "SLOT_TAKEN")
	})

	t.Run("accept lifecycle", func(t *testing.T) {
		reservations := &reservationStore{reservations: map[string]models.Reservation{
			"r1": {ID: "r1", ClientID: "c1", MoniteurID: "m1", TimeSlotID: "s1", DateReservation: futureStart, Statut: models.ReservationPending},
		}}
		router := buildSchedulingRouter(seedSlots(), reservations)

		resp := performRequest(router, jsonRequest(http.MethodPut, "/reservations/r1/accept", ""))
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"statut":"BOOKED"`)

		resp = performRequest(router, jsonRequest(http.MethodPut, "/reservations/r1/accept", ""))
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "ILLEGAL_STATE")
	})

	t.Run("cancel twice rejected", func(t *testing.T) {
		reservations := &reservationStore{reservations: map[string]models.Reservation{
			"r1": {ID: "r1", ClientID: "c1", MoniteurID: "m1", TimeSlotID: "s1", DateReservation: futureStart, Statut: models.ReservationBooked},
		}}
		router := buildSchedulingRouter(seedSlots(), reservations)

		resp := performRequest(router, jsonRequest(http.MethodPut, "/reservations/r1/cancel", ""))
		require.Equal(t, http.StatusOK, resp.Code)

		resp = performRequest(router, jsonRequest(http.MethodPut, "/reservations/r1/cancel", ""))
		require.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("invalid status payload", func(t *testing.T) {
		router := buildSchedulingRouter(seedSlots(), &reservationStore{})
		resp := performRequest(router, jsonRequest(http.MethodPut, "/reservations/r1/status", `{}`))
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("available slots shrink after booking", func(t *testing.T) {
		router := buildSchedulingRouter(seedSlots(), &reservationStore{})
		path := fmt.Sprintf("/reservations/available-slots/m1?date=%s", futureStart.Format("2006-01-02"))

		req, _ := http.NewRequest(http.MethodGet, path, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"s1"`)

		resp = performRequest(router, jsonRequest(http.MethodPost, "/reservations", `{"clientId":"c1","timeSlotId":"s1"}`))
		require.Equal(t, http.StatusCreated, resp.Code)

		req, _ = http.NewRequest(http.MethodGet, path, nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.NotContains(t, resp.Body.String(), `"s1"`)
	})
}
