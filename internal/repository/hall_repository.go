package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// HallRepo provides data access to the halls table.  The hall number is
// unique; inserting or renumbering onto an existing number surfaces as
// ErrConflict.
type HallRepo struct {
	db *sql.DB
}

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

const hallColumns = `id, name, number, rows_count, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (model.Hall, error) {
	var h model.Hall
	err := row.Scan(&h.ID, &h.Name, &h.Number, &h.Rows, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// Create inserts a hall and populates h.ID.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO halls (name, number, rows_count) VALUES (?,?,?)`,
		h.Name, h.Number, h.Rows)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID fetches a hall.  Returns ErrHallNotFound when missing.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
	h, err := scanHall(r.db.QueryRowContext(ctx,
		`SELECT `+hallColumns+` FROM halls WHERE id=?`, id))
	if err == sql.ErrNoRows {
		return model.Hall{}, ErrHallNotFound
	}
	return h, err
}

// List returns a page of halls ordered by number plus the total count.
func (r *HallRepo) List(ctx context.Context, page, size int) ([]model.Hall, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM halls`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hallColumns+` FROM halls ORDER BY number LIMIT ? OFFSET ?`, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}

// Update overwrites name and/or number and returns the fresh row.
func (r *HallRepo) Update(ctx context.Context, id uint64, name *string, number *int) (model.Hall, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if name != nil {
		sets = append(sets, "name=?")
		args = append(args, *name)
	}
	if number != nil {
		sets = append(sets, "number=?")
		args = append(args, *number)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at=?")
		args = append(args, time.Now().UTC(), id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE halls SET `+strings.Join(sets, ",")+` WHERE id=?`, args...); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return model.Hall{}, ErrConflict
			}
			return model.Hall{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// SetRows stores the number of seat rows laid out in the hall.
func (r *HallRepo) SetRows(ctx context.Context, id uint64, rowsCount int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE halls SET rows_count=? WHERE id=?`, rowsCount, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	return nil
}

// Delete removes a hall.  Returns ErrHallNotFound when nothing matched.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	return nil
}
