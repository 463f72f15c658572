package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// SessionRepo provides data access to the sessions table.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `id, film_id, hall_id, start_at, slot_start, slot_end, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.FilmID, &s.HallID, &s.StartAt, &s.SlotStart, &s.SlotEnd,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a session and populates s.ID.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (film_id, hall_id, start_at, slot_start, slot_end) VALUES (?,?,?,?,?)`,
		s.FilmID, s.HallID, s.StartAt.UTC(), s.SlotStart.UTC(), s.SlotEnd.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a session.  Returns ErrSessionNotFound when missing.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id=?`, id))
	if err == sql.ErrNoRows {
		return model.Session{}, ErrSessionNotFound
	}
	return s, err
}

// List returns a page of sessions ordered by start time plus the total
// count.  filmID narrows to one film; date narrows to sessions starting
// on that calendar day (UTC).
func (r *SessionRepo) List(ctx context.Context, page, size int, filmID *uint64, date *time.Time) ([]model.Session, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filmID != nil {
		where += ` AND film_id = ?`
		args = append(args, *filmID)
	}
	if date != nil {
		day := date.UTC().Truncate(24 * time.Hour)
		where += ` AND start_at >= ? AND start_at < ?`
		args = append(args, day, day.Add(24*time.Hour))
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, size, page*size)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions`+where+` ORDER BY start_at LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Update overwrites the stored session row with s.
func (r *SessionRepo) Update(ctx context.Context, s model.Session) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET film_id=?, hall_id=?, start_at=?, slot_start=?, slot_end=?, updated_at=? WHERE id=?`,
		s.FilmID, s.HallID, s.StartAt.UTC(), s.SlotStart.UTC(), s.SlotEnd.UTC(), time.Now().UTC(), s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session.  Returns ErrSessionNotFound when nothing
// matched.  Tickets are deleted separately, ahead of the session row.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
