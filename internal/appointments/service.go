package appointments

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vitalpoint/kiosk/internal/doctors"
	"github.com/vitalpoint/kiosk/internal/observability/metrics"
	"github.com/vitalpoint/kiosk/pkg/logging"
)

var ledgerTracer = otel.Tracer("kiosk.internal.appointments")

// Ledger owns the appointment lifecycle and is the single source of truth
// the allocator consults for booked slots.
type Ledger struct {
	doctors     *doctors.Store
	store       *Store
	allocator   *Allocator
	horizonDays int
	metrics     *metrics.SchedulingMetrics
	logger      *logging.Logger
	now         func() time.Time
}

// NewLedger constructs the scheduling service.
func NewLedger(doctorStore *doctors.Store, store *Store, allocator *Allocator, horizonDays int, m *metrics.SchedulingMetrics, logger *logging.Logger) *Ledger {
	if doctorStore == nil {
		panic("appointments: doctor store required")
	}
	if store == nil {
		panic("appointments: appointment store required")
	}
	if allocator == nil {
		allocator = NewAllocator(30*time.Minute, time.Hour)
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Ledger{
		doctors:     doctorStore,
		store:       store,
		allocator:   allocator,
		horizonDays: horizonDays,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the ledger's clock. Intended for tests; the
// allocator keeps its own clock.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// AvailableSlots computes the bookable times for a doctor on a date.
// Past dates and dates beyond the booking horizon are rejected; an
// inactive doctor or an off day yields an empty list, which callers must
// treat as a normal outcome.
func (l *Ledger) AvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	ctx, span := ledgerTracer.Start(ctx, "appointments.slots")
	defer span.End()
	span.SetAttributes(
		attribute.String("kiosk.doctor_id", doctorID),
		attribute.String("kiosk.date", date),
	)
	l.metrics.ObserveSlotQuery()

	day, err := l.parseBookableDate(date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	doctor, err := l.doctors.GetByID(ctx, doctorID)
	if err == doctors.ErrNotFound {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: load doctor: %w", err)
	}

	booked, err := l.store.BookedTimes(ctx, doctorID, date)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return l.allocator.Compute(doctor, day, booked)
}

// BookRequest carries everything needed to create an appointment.
type BookRequest struct {
	PatientID   string
	PatientName string
	DoctorID    string
	Date        string
	Time        string
	Notes       string
}

// Book creates a confirmed appointment. The requested time is re-validated
// against a fresh slot computation to defend against a stale display, and
// the insert itself is arbitrated by the ledger's unique index: of two
// concurrent requests for the same slot, exactly one returns an
// appointment and the other ErrSlotUnavailable.
func (l *Ledger) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	ctx, span := ledgerTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("kiosk.doctor_id", req.DoctorID),
		attribute.String("kiosk.date", req.Date),
		attribute.String("kiosk.time", req.Time),
	)
	started := l.now()

	slots, err := l.AvailableSlots(ctx, req.DoctorID, req.Date)
	if err != nil {
		l.metrics.ObserveBooking("error", time.Since(started).Seconds())
		return nil, err
	}
	if !contains(slots, req.Time) {
		l.metrics.ObserveBooking("slot_unavailable", time.Since(started).Seconds())
		return nil, ErrSlotUnavailable
	}

	doctor, err := l.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		l.metrics.ObserveBooking("error", time.Since(started).Seconds())
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: load doctor: %w", err)
	}

	appt := &Appointment{
		ID:          NewAppointmentID(),
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		Date:        req.Date,
		Time:        req.Time,
		Status:      StatusConfirmed,
		MeetingLink: MaterializeMeetingLink(doctor.MeetingPlatform, doctor.MeetingRoom),
		Specialty:   doctor.Specialty,
		Notes:       req.Notes,
		CreatedAt:   l.now().UTC(),
	}

	if err := l.store.Insert(ctx, appt); err != nil {
		if err == ErrSlotUnavailable {
			l.metrics.ObserveBooking("slot_unavailable", time.Since(started).Seconds())
			l.logger.Info("booking lost slot race",
				"doctor_id", req.DoctorID, "date", req.Date, "time", req.Time)
			return nil, err
		}
		l.metrics.ObserveBooking("error", time.Since(started).Seconds())
		span.RecordError(err)
		return nil, err
	}

	l.metrics.ObserveBooking("confirmed", time.Since(started).Seconds())
	l.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"patient_id", appt.PatientID,
		"doctor_id", appt.DoctorID,
		"date", appt.Date,
		"time", appt.Time,
	)
	return appt, nil
}

// Cancel transitions a patient's confirmed appointment to cancelled.
// The ledger intentionally permits cancelling an appointment whose time
// has already passed; hiding the control for past appointments is a
// presentation concern.
func (l *Ledger) Cancel(ctx context.Context, appointmentID, patientID string) error {
	ctx, span := ledgerTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("kiosk.appointment_id", appointmentID))

	if err := l.store.Cancel(ctx, appointmentID, patientID); err != nil {
		if err != ErrNotFound {
			span.RecordError(err)
		}
		return err
	}

	l.metrics.ObserveCancellation()
	l.logger.Info("appointment cancelled",
		"appointment_id", appointmentID, "patient_id", patientID)
	return nil
}

// ListByPatient returns a patient's appointments in the requested order.
func (l *Ledger) ListByPatient(ctx context.Context, patientID string, order SortOrder) ([]Appointment, error) {
	return l.store.ListByPatient(ctx, patientID, order)
}

// parseBookableDate enforces the booking window: not before today, not
// beyond the horizon.
func (l *Ledger) parseBookableDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, l.now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	now := l.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return time.Time{}, ErrPastDate
	}
	if day.After(today.AddDate(0, 0, l.horizonDays)) {
		return time.Time{}, ErrBeyondHorizon
	}
	return day, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
