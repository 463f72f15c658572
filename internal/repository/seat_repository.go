package repository

import (
	"context"
	"database/sql"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// SeatRepo provides data access to the seats table.
type SeatRepo struct {
	db *sql.DB
}

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CreateBulk inserts multiple seats in one statement.  Passing an empty
// slice has no effect.  The ID fields of the passed structures are not
// populated.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (hall_id, row_num, seat_number, category_id) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.HallID, s.Row, s.Number, s.CategoryID)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByHall returns all seats of a hall ordered by row and number.
func (r *SeatRepo) GetByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, hall_id, row_num, seat_number, category_id, created_at
		 FROM seats WHERE hall_id=? ORDER BY row_num, seat_number`, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.HallID, &s.Row, &s.Number, &s.CategoryID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches a single seat.  Returns ErrSeatNotFound when missing.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (model.Seat, error) {
	var s model.Seat
	err := r.db.QueryRowContext(ctx,
		`SELECT id, hall_id, row_num, seat_number, category_id, created_at FROM seats WHERE id=?`, id).
		Scan(&s.ID, &s.HallID, &s.Row, &s.Number, &s.CategoryID, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Seat{}, ErrSeatNotFound
	}
	return s, err
}

// DeleteByHall removes every seat of a hall and returns the count
// removed.  Used before re-laying-out a hall's seating plan.
func (r *SeatRepo) DeleteByHall(ctx context.Context, hallID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE hall_id=?`, hallID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
