package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// FilmRepo provides data access to the films table.
type FilmRepo struct {
	db *sql.DB
}

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

const filmColumns = `id, title, description, image, duration_minutes, age_rating, created_at, updated_at`

func scanFilm(row interface{ Scan(...any) error }) (model.Film, error) {
	var (
		f     model.Film
		image sql.NullString
	)
	err := row.Scan(&f.ID, &f.Title, &f.Description, &image, &f.DurationMinutes,
		&f.AgeRating, &f.CreatedAt, &f.UpdatedAt)
	if image.Valid {
		img := image.String
		f.Image = &img
	}
	return f, err
}

// Create inserts a film and populates f.ID.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO films (title, description, image, duration_minutes, age_rating) VALUES (?,?,?,?,?)`,
		f.Title, f.Description, f.Image, f.DurationMinutes, f.AgeRating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a film.  Returns ErrFilmNotFound when missing.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	f, err := scanFilm(r.db.QueryRowContext(ctx,
		`SELECT `+filmColumns+` FROM films WHERE id=?`, id))
	if err == sql.ErrNoRows {
		return model.Film{}, ErrFilmNotFound
	}
	return f, err
}

// List returns a page of films ordered by title plus the total count.
func (r *FilmRepo) List(ctx context.Context, page, size int) ([]model.Film, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM films`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+filmColumns+` FROM films ORDER BY title LIMIT ? OFFSET ?`, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

// Update overwrites the provided non-nil fields and returns the fresh row.
func (r *FilmRepo) Update(ctx context.Context, id uint64, title, description, image *string, duration *int, rating *model.AgeRating) (model.Film, error) {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if title != nil {
		sets = append(sets, "title=?")
		args = append(args, *title)
	}
	if description != nil {
		sets = append(sets, "description=?")
		args = append(args, *description)
	}
	if image != nil {
		sets = append(sets, "image=?")
		args = append(args, *image)
	}
	if duration != nil {
		sets = append(sets, "duration_minutes=?")
		args = append(args, *duration)
	}
	if rating != nil {
		sets = append(sets, "age_rating=?")
		args = append(args, *rating)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at=?")
		args = append(args, time.Now().UTC(), id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE films SET `+strings.Join(sets, ",")+` WHERE id=?`, args...); err != nil {
			return model.Film{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a film.  Returns ErrFilmNotFound when nothing matched.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM films WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFilmNotFound
	}
	return nil
}
