package models

import "time"

// TimeSlotStatus enumerates the lifecycle states of a time slot.
type TimeSlotStatus string

const (
	SlotAvailable TimeSlotStatus = "AVAILABLE"
	SlotBooked    TimeSlotStatus = "BOOKED"
	SlotCancelled TimeSlotStatus = "CANCELLED"
)

// ParseTimeSlotStatus validates a raw status string.
func ParseTimeSlotStatus(raw string) (TimeSlotStatus, bool) {
	switch TimeSlotStatus(raw) {
	case SlotAvailable, SlotBooked, SlotCancelled:
		return TimeSlotStatus(raw), true
	}
	return "", false
}

// TimeSlot is a bookable time window owned by exactly one instructor.
type TimeSlot struct {
	ID         string         `db:"id" json:"id"`
	MoniteurID string         `db:"moniteur_id" json:"moniteur_id"`
	StartTime  time.Time      `db:"start_time" json:"start_time"`
	EndTime    time.Time      `db:"end_time" json:"end_time"`
	Status     TimeSlotStatus `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether two slots collide. Closed intervals: a slot
// ending exactly when another starts still counts as an overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return !s.EndTime.Before(other.StartTime) && !s.StartTime.After(other.EndTime)
}
