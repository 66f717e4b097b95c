// Package doctors maintains the doctor directory consulted by the
// scheduling engine: who exists, which weekdays they see patients, and
// their daily consultation window.
package doctors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status of a doctor record. The scheduling engine only offers slots for
// active doctors.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var (
	// ErrNotFound means no doctor exists with the given id.
	ErrNotFound = errors.New("doctors: doctor not found")
	// ErrInvalidWindow means the daily window failed to parse.
	ErrInvalidWindow = errors.New("doctors: invalid daily window")
)

// Weekday abbreviations as stored in the directory ("Mon".."Sun").
var weekdayTags = map[string]time.Weekday{
	"Sun": time.Sunday,
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
}

// Doctor is one directory record. AvailableDays holds weekday tags
// ("Mon".."Sun"); DayStart/DayEnd are "HH:MM" bounds of the daily
// consultation window.
type Doctor struct {
	ID              string    `json:"doctor_id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	AvailableDays   []string  `json:"available_days"`
	DayStart        string    `json:"day_start"`
	DayEnd          string    `json:"day_end"`
	MeetingPlatform string    `json:"meeting_platform"`
	MeetingRoom     string    `json:"meeting_room"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Active reports whether the doctor accepts bookings at all.
func (d *Doctor) Active() bool {
	return d.Status == StatusActive
}

// AvailableOn reports whether the doctor sees patients on the given
// weekday.
func (d *Doctor) AvailableOn(day time.Weekday) bool {
	for _, tag := range d.AvailableDays {
		if wd, ok := weekdayTags[strings.TrimSpace(tag)]; ok && wd == day {
			return true
		}
	}
	return false
}

// Window returns the daily consultation window as minutes since midnight,
// start inclusive, end exclusive.
func (d *Doctor) Window() (start, end int, err error) {
	start, err = parseClock(d.DayStart)
	if err != nil {
		return 0, 0, err
	}
	end, err = parseClock(d.DayEnd)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, d.DayStart, d.DayEnd)
	}
	return start, end, nil
}

// Validate checks the fields an admin can set.
func (d *Doctor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("doctors: name is required")
	}
	if len(d.AvailableDays) == 0 {
		return errors.New("doctors: at least one available day is required")
	}
	for _, tag := range d.AvailableDays {
		if _, ok := weekdayTags[strings.TrimSpace(tag)]; !ok {
			return fmt.Errorf("doctors: unknown weekday tag %q", tag)
		}
	}
	if _, _, err := d.Window(); err != nil {
		return err
	}
	switch d.Status {
	case StatusActive, StatusInactive:
	default:
		return fmt.Errorf("doctors: invalid status %q", d.Status)
	}
	return nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
