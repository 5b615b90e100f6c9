package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/dto"
	"github.com/autoecole-app/autoecole-api/internal/models"
	"github.com/autoecole-app/autoecole-api/internal/repository"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

// overlapEpsilon widens the SQL candidate window around a new slot before the
// pairwise overlap test runs in memory.
const overlapEpsilon = time.Second

type timeSlotRepository interface {
	Create(ctx context.Context, slot *models.TimeSlot) error
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	ListByInstructor(ctx context.Context, moniteurID string) ([]models.TimeSlot, error)
	ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.TimeSlot, error)
	ListOverlapCandidates(ctx context.Context, moniteurID string, windowStart, windowEnd time.Time) ([]models.TimeSlot, error)
	ListCalendarRows(ctx context.Context, moniteurID string, start, end time.Time) ([]repository.CalendarRow, error)
	UpdateStatus(ctx context.Context, id string, status models.TimeSlotStatus) error
	Delete(ctx context.Context, id string) error
}

type instructorLookup interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateTimeSlotRequest represents the payload for creating time slots.
type CreateTimeSlotRequest struct {
	MoniteurID string    `json:"moniteurId" validate:"required"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	EndTime    time.Time `json:"endTime" validate:"required"`
	Status     string    `json:"status" validate:"omitempty"`
}

// TimeSlotService owns slot lifecycle and the instructor calendar projection.
type TimeSlotService struct {
	slots       timeSlotRepository
	instructors instructorLookup
	cache       calendarCache
	cacheTTL    time.Duration
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewTimeSlotService constructs a TimeSlotService. A nil metrics service
// disables query timing.
func NewTimeSlotService(slots timeSlotRepository, instructors instructorLookup, cache calendarCache, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{
		slots:       slots,
		instructors: instructors,
		cache:       cache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Create validates the window, rejects past or inverted slots, and refuses
// any slot colliding with an existing non-cancelled slot of the same
// instructor. Touching endpoints count as a collision.
func (s *TimeSlotService) Create(ctx context.Context, req CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}
	if req.StartTime.Before(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time cannot be in the past")
	}

	status := models.SlotAvailable
	if req.Status != "" {
		parsed, ok := models.ParseTimeSlotStatus(req.Status)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status, must be one of: AVAILABLE, BOOKED, CANCELLED")
		}
		status = parsed
	}

	if _, err := s.instructors.FindByID(ctx, req.MoniteurID); err != nil {
		return nil, loadError(err, "moniteur not found")
	}

	slot := &models.TimeSlot{
		MoniteurID: req.MoniteurID,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.EndTime.UTC(),
		Status:     status,
	}

	queryStart := time.Now()
	candidates, err := s.slots.ListOverlapCandidates(ctx, req.MoniteurID, slot.StartTime.Add(-overlapEpsilon), slot.EndTime.Add(overlapEpsilon))
	if err != nil {
		return nil, internalError(err, "failed to check slot overlap")
	}
	s.metrics.ObserveDBQuery("slot_overlap_candidates", time.Since(queryStart))
	for _, existing := range candidates {
		if existing.Status == models.SlotCancelled {
			continue
		}
		if slot.Overlaps(existing) {
			return nil, appErrors.Clone(appErrors.ErrSlotOverlap, fmt.Sprintf("time slot overlaps existing slot %s", existing.ID))
		}
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, internalError(err, "failed to create time slot")
	}
	s.invalidateCalendar(ctx, slot.MoniteurID)
	return slot, nil
}

// ListByInstructor returns every slot owned by the instructor.
func (s *TimeSlotService) ListByInstructor(ctx context.Context, moniteurID string) ([]models.TimeSlot, error) {
	if _, err := s.instructors.FindByID(ctx, moniteurID); err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	slots, err := s.slots.ListByInstructor(ctx, moniteurID)
	if err != nil {
		return nil, internalError(err, "failed to list time slots")
	}
	return slots, nil
}

// ListByRange returns slots whose start time falls inside [start, end].
func (s *TimeSlotService) ListByRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.TimeSlot, error) {
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}
	if _, err := s.instructors.FindByID(ctx, moniteurID); err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	slots, err := s.slots.ListByInstructorAndRange(ctx, moniteurID, start, end)
	if err != nil {
		return nil, internalError(err, "failed to list time slots")
	}
	return slots, nil
}

// UpdateStatus overwrites a slot's status.
func (s *TimeSlotService) UpdateStatus(ctx context.Context, id, rawStatus string) (*models.TimeSlot, error) {
	status, ok := models.ParseTimeSlotStatus(rawStatus)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status, must be one of: AVAILABLE, BOOKED, CANCELLED")
	}
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "time slot not found")
	}
	if err := s.slots.UpdateStatus(ctx, id, status); err != nil {
		return nil, internalError(err, "failed to update time slot")
	}
	slot.Status = status
	s.invalidateCalendar(ctx, slot.MoniteurID)
	return slot, nil
}

// Delete removes a slot permanently.
func (s *TimeSlotService) Delete(ctx context.Context, id string) error {
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return loadError(err, "time slot not found")
	}
	if err := s.slots.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete time slot")
	}
	s.invalidateCalendar(ctx, slot.MoniteurID)
	return nil
}

// Calendar builds the per-day projection for an instructor. A slot counts as
// available only when its status is AVAILABLE and no active reservation
// claims it. Served from cache when possible; the second return value reports
// a cache hit.
func (s *TimeSlotService) Calendar(ctx context.Context, moniteurID string, date time.Time) ([]dto.CalendarEntry, bool, error) {
	if _, err := s.instructors.FindByID(ctx, moniteurID); err != nil {
		return nil, false, loadError(err, "moniteur not found")
	}

	key := calendarCacheKey(moniteurID, date)
	if s.cache != nil {
		var cached []dto.CalendarEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, true, nil
		}
	}

	dayStart, dayEnd := dayWindow(date)
	queryStart := time.Now()
	rows, err := s.slots.ListCalendarRows(ctx, moniteurID, dayStart, dayEnd)
	if err != nil {
		return nil, false, internalError(err, "failed to load calendar")
	}
	s.metrics.ObserveDBQuery("calendar_rows", time.Since(queryStart))

	entries := make([]dto.CalendarEntry, 0, len(rows))
	for _, row := range rows {
		entry := dto.CalendarEntry{
			ID:             row.ID,
			Time:           fmt.Sprintf("%s - %s", row.StartTime.Format("15:04"), row.EndTime.Format("15:04")),
			Available:      row.Status == string(models.SlotAvailable) && !row.ReservationID.Valid,
			Status:         row.Status,
			InstructorName: fmt.Sprintf("%s %s", row.MoniteurPrenom, row.MoniteurNom),
		}
		if row.ReservationID.Valid {
			resID := row.ReservationID.String
			entry.ReservationID = &resID
			if row.ClientPrenom.Valid || row.ClientNom.Valid {
				name := fmt.Sprintf("%s %s", row.ClientPrenom.String, row.ClientNom.String)
				entry.ClientName = &name
			}
		}
		entries = append(entries, entry)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
			s.logger.Warn("calendar cache write failed", zap.String("moniteur_id", moniteurID), zap.Error(err))
		}
	}
	return entries, false, nil
}

func (s *TimeSlotService) invalidateCalendar(ctx context.Context, moniteurID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "calendar:"+moniteurID+":*"); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.String("moniteur_id", moniteurID), zap.Error(err))
	}
}

func calendarCacheKey(moniteurID string, date time.Time) string {
	return fmt.Sprintf("calendar:%s:%s", moniteurID, date.Format("2006-01-02"))
}

// dayWindow bounds a calendar date to [00:00:00, 23:59:59] in its location.
func dayWindow(date time.Time) (time.Time, time.Time) {
	year, month, day := date.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, date.Location())
	end := time.Date(year, month, day, 23, 59, 59, 0, date.Location())
	return start, end
}
