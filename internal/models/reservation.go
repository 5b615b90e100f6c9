package models

import "time"

// ReservationStatus enumerates the reservation lifecycle states.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationBooked    ReservationStatus = "BOOKED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// ParseReservationStatus validates a raw status string.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	switch ReservationStatus(raw) {
	case ReservationPending, ReservationBooked, ReservationCancelled:
		return ReservationStatus(raw), true
	}
	return "", false
}

// CanTransitionTo applies the state-machine rules shared by accept, cancel
// and the generic status update: PENDING may become BOOKED, anything not yet
// cancelled may become CANCELLED, and CANCELLED is terminal. Writing the
// current status back is a no-op and allowed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return true
	}
	switch next {
	case ReservationBooked:
		return s == ReservationPending
	case ReservationCancelled:
		return s != ReservationCancelled
	}
	return false
}

// Reservation is a client's claim on a time slot. Rows are never deleted;
// the lifecycle is carried entirely by the status column.
type Reservation struct {
	ID              string            `db:"id" json:"id"`
	ClientID        string            `db:"client_id" json:"client_id"`
	MoniteurID      string            `db:"moniteur_id" json:"moniteur_id"`
	TimeSlotID      string            `db:"time_slot_id" json:"time_slot_id"`
	DateReservation time.Time         `db:"date_reservation" json:"date_reservation"`
	Commentaire     *string           `db:"commentaire" json:"commentaire,omitempty"`
	Statut          ReservationStatus `db:"statut" json:"statut"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}
