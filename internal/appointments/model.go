// Package appointments implements the scheduling engine: slot computation
// over a doctor's weekly availability and the appointment ledger that owns
// the booking lifecycle.
package appointments

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status of an appointment. Confirmed holds the slot; cancelled and
// completed are terminal.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Wire formats for appointment dates and slot times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Join window bounds relative to the appointment start.
const (
	joinEarlyBy = 30 * time.Minute
	joinLateBy  = time.Hour
)

// Appointment is one booked consultation. Date and Time are kept in wire
// format; StartTime combines them when temporal arithmetic is needed.
type Appointment struct {
	ID          string    `json:"appointment_id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	DoctorID    string    `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      Status    `json:"status"`
	MeetingLink string    `json:"meeting_link"`
	Specialty   string    `json:"specialty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StartTime returns the appointment's start in the given location.
func (a *Appointment) StartTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.Date+" "+a.Time, loc)
}

// Joinable reports whether the patient may enter the video call: the
// appointment is confirmed and now falls within [start−30m, start+1h].
// This is a derived predicate, never stored.
func (a *Appointment) Joinable(now time.Time) bool {
	if a.Status != StatusConfirmed {
		return false
	}
	start, err := a.StartTime(now.Location())
	if err != nil {
		return false
	}
	return !now.Before(start.Add(-joinEarlyBy)) && !now.After(start.Add(joinLateBy))
}

// NewAppointmentID generates a short booking reference. Uniqueness is
// enforced by the ledger's primary key, not by this generator.
func NewAppointmentID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// MaterializeMeetingLink resolves a doctor's meeting room template into
// the link stored on the appointment. Zoom rooms get the shared kiosk
// passcode appended.
func MaterializeMeetingLink(platform, room string) string {
	if strings.EqualFold(platform, "zoom") {
		return room + "?pwd=healthcare123"
	}
	return room
}
