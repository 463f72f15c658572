package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// SeatCategoryRepo provides data access to the seat_categories table.
type SeatCategoryRepo struct {
	db *sql.DB
}

func NewSeatCategoryRepo(db *sql.DB) *SeatCategoryRepo { return &SeatCategoryRepo{db: db} }

// Create inserts a category and populates c.ID.
func (r *SeatCategoryRepo) Create(ctx context.Context, c *model.SeatCategory) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO seat_categories (name, price_cents) VALUES (?,?)`, c.Name, c.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a category.  Returns ErrCategoryNotFound when missing.
func (r *SeatCategoryRepo) GetByID(ctx context.Context, id uint64) (model.SeatCategory, error) {
	var c model.SeatCategory
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price_cents, created_at, updated_at FROM seat_categories WHERE id=?`, id).
		Scan(&c.ID, &c.Name, &c.PriceCents, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.SeatCategory{}, ErrCategoryNotFound
	}
	return c, err
}

// GetByIDs loads the categories with the given ids keyed by id.  Ids
// that do not exist are simply absent from the map; the ticket
// materializer treats seats pointing at such categories as unpriceable
// and skips them.
func (r *SeatCategoryRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.SeatCategory, error) {
	out := make(map[uint64]model.SeatCategory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT id, name, price_cents, created_at, updated_at FROM seat_categories WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.SeatCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, rows.Err()
}

// List returns a page of categories ordered by name plus the total count.
func (r *SeatCategoryRepo) List(ctx context.Context, page, size int) ([]model.SeatCategory, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seat_categories`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price_cents, created_at, updated_at FROM seat_categories
		 ORDER BY name LIMIT ? OFFSET ?`, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.SeatCategory
	for rows.Next() {
		var c model.SeatCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.PriceCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Update overwrites name and/or price and returns the fresh row.
func (r *SeatCategoryRepo) Update(ctx context.Context, id uint64, name *string, priceCents *uint32) (model.SeatCategory, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if name != nil {
		sets = append(sets, "name=?")
		args = append(args, *name)
	}
	if priceCents != nil {
		sets = append(sets, "price_cents=?")
		args = append(args, *priceCents)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at=?")
		args = append(args, time.Now().UTC(), id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE seat_categories SET `+strings.Join(sets, ",")+` WHERE id=?`, args...); err != nil {
			return model.SeatCategory{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a category.  Returns ErrCategoryNotFound when nothing
// matched.
func (r *SeatCategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat_categories WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
