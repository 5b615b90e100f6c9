package dto

// CalendarEntry is the per-slot projection served by the calendar endpoint.
// ClientName and ReservationID are present only when the slot carries an
// active reservation.
type CalendarEntry struct {
	ID             string  `json:"id"`
	Time           string  `json:"time"`
	Available      bool    `json:"available"`
	Status         string  `json:"status"`
	InstructorName string  `json:"instructor_name"`
	ClientName     *string `json:"client_name,omitempty"`
	ReservationID  *string `json:"reservation_id,omitempty"`
}
