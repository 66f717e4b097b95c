package appointments

import (
	"fmt"
	"time"

	"github.com/vitalpoint/kiosk/internal/doctors"
)

// Allocator computes the bookable slot sequence for a (doctor, date) pair.
// It is date-agnostic beyond the same-day lead-time rule; horizon checks
// belong to the caller.
type Allocator struct {
	interval time.Duration
	leadTime time.Duration
	now      func() time.Time
}

// NewAllocator creates an allocator with the given slot width and same-day
// lead time.
func NewAllocator(interval, leadTime time.Duration) *Allocator {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Allocator{
		interval: interval,
		leadTime: leadTime,
		now:      time.Now,
	}
}

// WithClock overrides the allocator's clock. Intended for tests.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Compute returns the ordered bookable start times ("HH:MM") for the
// doctor on the given date, with already-booked times removed. An inactive
// doctor or an unavailable weekday yields an empty sequence, not an error.
func (a *Allocator) Compute(doctor *doctors.Doctor, date time.Time, booked []string) ([]string, error) {
	if doctor == nil || !doctor.Active() || !doctor.AvailableOn(date.Weekday()) {
		return nil, nil
	}

	start, end, err := doctor.Window()
	if err != nil {
		return nil, fmt.Errorf("appointments: compute slots: %w", err)
	}

	step := int(a.interval.Minutes())
	earliest := start
	now := a.now()
	if sameDay(date, now) {
		// Earliest same-day slot: now plus the lead time, rounded up to
		// the next half-hour boundary. Anything strictly earlier is gone.
		cutoff := ceilToStep(minuteOfDay(now.Add(a.leadTime)), step)
		if cutoff > earliest {
			earliest = cutoff
		}
	}
	// Align the first offered slot to the doctor's window grid.
	if rem := (earliest - start) % step; rem != 0 {
		earliest += step - rem
	}

	bookedSet := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		bookedSet[t] = struct{}{}
	}

	var slots []string
	for m := earliest; m < end; m += step {
		slot := fmt.Sprintf("%02d:%02d", m/60, m%60)
		if _, taken := bookedSet[slot]; taken {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// sameDay compares calendar dates in the clock's location.
func sameDay(date, now time.Time) bool {
	return date.Format(DateLayout) == now.Format(DateLayout)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ceilToStep rounds m up to the next multiple of step (minute 0 or 30 for
// the default half-hour grid).
func ceilToStep(m, step int) int {
	if rem := m % step; rem != 0 {
		return m + step - rem
	}
	return m
}
