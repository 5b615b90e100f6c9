package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	"github.com/autoecole-app/autoecole-api/internal/repository"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type reservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, id string) (*models.Reservation, error)
	ExistsActiveForSlot(ctx context.Context, timeSlotID string, dateReservation time.Time) (bool, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Reservation, error)
	ListByInstructor(ctx context.Context, moniteurID string) ([]models.Reservation, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]models.Reservation, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Reservation, error)
	ListActiveBySlotIDs(ctx context.Context, slotIDs []string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
}

type clientLookup interface {
	FindByID(ctx context.Context, id string) (*models.Client, error)
}

type slotLookup interface {
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	ListByInstructorAndRange(ctx context.Context, moniteurID string, start, end time.Time) ([]models.TimeSlot, error)
}

// CreateReservationRequest represents the payload for booking a time slot.
type CreateReservationRequest struct {
	ClientID    string `json:"clientId" validate:"required"`
	TimeSlotID  string `json:"timeSlotId" validate:"required"`
	Commentaire string `json:"commentaire" validate:"omitempty,max=500"`
}

// ReservationService manages the booking lifecycle of time slots.
type ReservationService struct {
	reservations reservationRepository
	clients      clientLookup
	slots        slotLookup
	instructors  instructorLookup
	cache        calendarCache
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewReservationService constructs a ReservationService.
func NewReservationService(reservations reservationRepository, clients clientLookup, slots slotLookup, instructors instructorLookup, cache calendarCache, validate *validator.Validate, logger *zap.Logger) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		reservations: reservations,
		clients:      clients,
		slots:        slots,
		instructors:  instructors,
		cache:        cache,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// Create books a slot for a client. The reservation starts in PENDING. A slot
// carrying an active reservation, or one that was cancelled, cannot be
// booked. The partial unique index on reservations backs the same rule at the
// storage layer, so a lost race still surfaces as a conflict.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	client, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, loadError(err, "client not found")
	}
	slot, err := s.slots.FindByID(ctx, req.TimeSlotID)
	if err != nil {
		return nil, loadError(err, "time slot not found")
	}
	if slot.Status == models.SlotCancelled {
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "time slot has been cancelled")
	}

	taken, err := s.reservations.ExistsActiveForSlot(ctx, slot.ID, slot.StartTime)
	if err != nil {
		return nil, internalError(err, "failed to check slot availability")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "time slot already has an active reservation")
	}

	reservation := &models.Reservation{
		ClientID:        client.ID,
		MoniteurID:      slot.MoniteurID,
		TimeSlotID:      slot.ID,
		DateReservation: slot.StartTime,
		Statut:          models.ReservationPending,
	}
	if comment := strings.TrimSpace(req.Commentaire); comment != "" {
		reservation.Commentaire = &comment
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		if err == repository.ErrDuplicateActiveReservation {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "time slot already has an active reservation")
		}
		return nil, internalError(err, "failed to create reservation")
	}
	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("client_id", client.ID),
		zap.String("time_slot_id", slot.ID))
	s.invalidateCalendar(ctx, slot.MoniteurID)
	return reservation, nil
}

// Get returns a single reservation.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "reservation not found")
	}
	return reservation, nil
}

// Accept confirms a pending reservation. Only PENDING reservations can move
// to BOOKED.
func (s *ReservationService) Accept(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "reservation not found")
	}
	if reservation.Statut != models.ReservationPending {
		return nil, appErrors.Clone(appErrors.ErrIllegalState, "only a pending reservation can be accepted")
	}
	return s.applyStatus(ctx, reservation, models.ReservationBooked)
}

// Cancel releases a reservation. CANCELLED is terminal so cancelling twice
// fails.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "reservation not found")
	}
	if reservation.Statut == models.ReservationCancelled {
		return nil, appErrors.Clone(appErrors.ErrIllegalState, "reservation is already cancelled")
	}
	return s.applyStatus(ctx, reservation, models.ReservationCancelled)
}

// UpdateStatus applies an arbitrary status change. It goes through the same
// transition rules as Accept and Cancel, so illegal jumps like
// CANCELLED -> BOOKED are refused.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, rawStatus string) (*models.Reservation, error) {
	status, ok := models.ParseReservationStatus(rawStatus)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status, must be one of: PENDING, BOOKED, CANCELLED")
	}
	return s.transition(ctx, id, status)
}

func (s *ReservationService) transition(ctx context.Context, id string, next models.ReservationStatus) (*models.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "reservation not found")
	}
	if reservation.Statut == next {
		return reservation, nil
	}
	if !reservation.Statut.CanTransitionTo(next) {
		return nil, appErrors.Clone(appErrors.ErrIllegalState,
			"cannot change reservation status from "+string(reservation.Statut)+" to "+string(next))
	}
	return s.applyStatus(ctx, reservation, next)
}

func (s *ReservationService) applyStatus(ctx context.Context, reservation *models.Reservation, next models.ReservationStatus) (*models.Reservation, error) {
	if err := s.reservations.UpdateStatus(ctx, reservation.ID, next); err != nil {
		return nil, internalError(err, "failed to update reservation")
	}
	s.logger.Info("reservation status changed",
		zap.String("reservation_id", reservation.ID),
		zap.String("from", string(reservation.Statut)),
		zap.String("to", string(next)))
	reservation.Statut = next
	s.invalidateCalendar(ctx, reservation.MoniteurID)
	return reservation, nil
}

// ByClient returns a client's reservations, most recent first.
func (s *ReservationService) ByClient(ctx context.Context, clientID string) ([]models.Reservation, error) {
	reservations, err := s.reservations.ListByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}
	return reservations, nil
}

// ByInstructor returns an instructor's reservations, most recent first.
func (s *ReservationService) ByInstructor(ctx context.Context, moniteurID string) ([]models.Reservation, error) {
	reservations, err := s.reservations.ListByInstructor(ctx, moniteurID)
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}
	return reservations, nil
}

// Upcoming returns reservations whose slot starts after now.
func (s *ReservationService) Upcoming(ctx context.Context) ([]models.Reservation, error) {
	reservations, err := s.reservations.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}
	return reservations, nil
}

// ByDateRange returns reservations whose slot starts inside [start, end].
func (s *ReservationService) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Reservation, error) {
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}
	reservations, err := s.reservations.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}
	return reservations, nil
}

// AvailableSlots returns the instructor's slots on the given day that are
// still bookable: cancelled slots are dropped, and so is any slot holding a
// PENDING or BOOKED reservation.
func (s *ReservationService) AvailableSlots(ctx context.Context, moniteurID string, date time.Time) ([]models.TimeSlot, error) {
	if _, err := s.instructors.FindByID(ctx, moniteurID); err != nil {
		return nil, loadError(err, "moniteur not found")
	}

	dayStart, dayEnd := dayWindow(date)
	slots, err := s.slots.ListByInstructorAndRange(ctx, moniteurID, dayStart, dayEnd)
	if err != nil {
		return nil, internalError(err, "failed to list time slots")
	}
	if len(slots) == 0 {
		return []models.TimeSlot{}, nil
	}

	slotIDs := make([]string, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
	}
	active, err := s.reservations.ListActiveBySlotIDs(ctx, slotIDs)
	if err != nil {
		return nil, internalError(err, "failed to list reservations")
	}
	reserved := make(map[string]struct{}, len(active))
	for _, reservation := range active {
		reserved[reservation.TimeSlotID] = struct{}{}
	}

	available := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Status == models.SlotCancelled {
			continue
		}
		if _, ok := reserved[slot.ID]; ok {
			continue
		}
		available = append(available, slot)
	}
	return available, nil
}

func (s *ReservationService) invalidateCalendar(ctx context.Context, moniteurID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "calendar:"+moniteurID+":*"); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.String("moniteur_id", moniteurID), zap.Error(err))
	}
}
