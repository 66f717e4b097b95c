package doctors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides CRUD operations over the doctors table.
type Store struct {
	db DB
}

// NewStore creates a doctor store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const doctorColumns = `id, name, specialty, available_days, day_start, day_end, meeting_platform, meeting_room, status, created_at, updated_at`

// Create inserts a new doctor record.
func (s *Store) Create(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := s.db.Exec(ctx, `
		INSERT INTO doctors (id, name, specialty, available_days, day_start, day_end, meeting_platform, meeting_room, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.Name, d.Specialty, d.AvailableDays, d.DayStart, d.DayEnd,
		d.MeetingPlatform, d.MeetingRoom, string(d.Status), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("doctors: create: %w", err)
	}
	return nil
}

// GetByID returns a doctor regardless of status.
func (s *Store) GetByID(ctx context.Context, id string) (*Doctor, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE id = $1`, id)
	d, err := scanDoctor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("doctors: get by id: %w", err)
	}
	return d, nil
}

// ListActive returns all active doctors ordered by name. This is the set
// shown to patients.
func (s *Store) ListActive(ctx context.Context) ([]Doctor, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE status = 'active'
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("doctors: list active: %w", err)
	}
	defer rows.Close()
	return scanDoctors(rows)
}

// List returns every doctor, active or not. Admin view.
func (s *Store) List(ctx context.Context) ([]Doctor, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("doctors: list: %w", err)
	}
	defer rows.Close()
	return scanDoctors(rows)
}

// Update rewrites the mutable fields of a doctor record.
func (s *Store) Update(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.UpdatedAt = time.Now().UTC()

	tag, err := s.db.Exec(ctx, `
		UPDATE doctors
		SET name = $2, specialty = $3, available_days = $4, day_start = $5, day_end = $6,
		    meeting_platform = $7, meeting_room = $8, status = $9, updated_at = $10
		WHERE id = $1`,
		d.ID, d.Name, d.Specialty, d.AvailableDays, d.DayStart, d.DayEnd,
		d.MeetingPlatform, d.MeetingRoom, string(d.Status), d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("doctors: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus flips a doctor between active and inactive. Deactivation is a
// single-row update; existing appointments are untouched.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE doctors
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("doctors: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var status string
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.AvailableDays, &d.DayStart, &d.DayEnd,
		&d.MeetingPlatform, &d.MeetingRoom, &status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Status = Status(status)
	return &d, nil
}

func scanDoctors(rows pgx.Rows) ([]Doctor, error) {
	var out []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("doctors: scan row: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctors: iterate rows: %w", err)
	}
	return out, nil
}
