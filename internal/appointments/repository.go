package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres error code raised when an insert hits
// the partial unique index on (doctor_id, date, time) for confirmed rows.
const uniqueViolation = "23505"

// Store persists appointments. The partial unique index on confirmed rows
// is the atomic arbiter of the conflict-freedom invariant: of two
// concurrent inserts for the same (doctor, date, time), exactly one
// commits and the other surfaces ErrSlotUnavailable.
type Store struct {
	db DB
}

// NewStore creates an appointment store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const appointmentColumns = `id, patient_id, patient_name, doctor_id, doctor_name, date, time, status, meeting_link, specialty, notes, created_at`

// Insert writes a new appointment row. Returns ErrSlotUnavailable when a
// confirmed appointment already holds the (doctor, date, time) slot.
func (s *Store) Insert(ctx context.Context, a *Appointment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, patient_name, doctor_id, doctor_name, date, time, status, meeting_link, specialty, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		a.Date, a.Time, string(a.Status), a.MeetingLink, a.Specialty, a.Notes, a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// BookedTimes returns the slot times held by confirmed appointments for a
// doctor on a date, in chronological order.
func (s *Store) BookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT time
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status = 'confirmed'
		ORDER BY time ASC`, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("appointments: scan booked time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate booked times: %w", err)
	}
	return times, nil
}

// GetByID returns one appointment.
func (s *Store) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get by id: %w", err)
	}
	return a, nil
}

// Cancel transitions a confirmed appointment to cancelled in one guarded
// update. The WHERE clause enforces ownership and the terminal-state rule;
// zero rows affected means nothing matched.
func (s *Store) Cancel(ctx context.Context, id, patientID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1 AND patient_id = $2 AND status = 'confirmed'`,
		id, patientID,
	)
	if err != nil {
		return fmt.Errorf("appointments: cancel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SortOrder selects how ListByPatient orders results.
type SortOrder string

const (
	// SortByCreated orders newest bookings first.
	SortByCreated SortOrder = "created"
	// SortBySchedule orders by appointment date and time.
	SortBySchedule SortOrder = "schedule"
)

// ListByPatient returns every appointment belonging to a patient.
func (s *Store) ListByPatient(ctx context.Context, patientID string, order SortOrder) ([]Appointment, error) {
	orderBy := `created_at DESC`
	if order == SortBySchedule {
		orderBy = `date ASC, time ASC`
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY `+orderBy, patientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by patient: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorID, &a.DoctorName,
		&a.Date, &a.Time, &status, &a.MeetingLink, &a.Specialty, &a.Notes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}
