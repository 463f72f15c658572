package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// ReviewRepo provides data access to the reviews table.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates rv.ID.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (film_id, author_id, rating, text) VALUES (?,?,?,?)`,
		rv.FilmID, rv.AuthorID, rv.Rating, rv.Text)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// GetByID fetches a review.  Returns ErrReviewNotFound when missing.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	var rv model.Review
	err := r.db.QueryRowContext(ctx,
		`SELECT id, film_id, author_id, rating, text, created_at, updated_at FROM reviews WHERE id=?`, id).
		Scan(&rv.ID, &rv.FilmID, &rv.AuthorID, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Review{}, ErrReviewNotFound
	}
	return rv, err
}

// ListByFilm returns a page of a film's reviews, newest first, plus the
// total count.
func (r *ReviewRepo) ListByFilm(ctx context.Context, filmID uint64, page, size int) ([]model.Review, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE film_id=?`, filmID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, film_id, author_id, rating, text, created_at, updated_at FROM reviews
		 WHERE film_id=? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		filmID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.FilmID, &rv.AuthorID, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

// Update stores a new rating/text for the review.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, rating *int, text *string) (model.Review, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Review{}, err
	}
	if rating != nil {
		cur.Rating = *rating
	}
	if text != nil {
		cur.Text = *text
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE reviews SET rating=?, text=?, updated_at=? WHERE id=?`,
		cur.Rating, cur.Text, time.Now().UTC(), id)
	if err != nil {
		return model.Review{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review.  Returns ErrReviewNotFound when nothing
// matched.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
