package model

import "time"

// Review is a user's rating and comment for a film.  Rating is on a
// 1–10 scale.  Only the author may edit or delete their review.
type Review struct {
	ID        uint64    `json:"id"`
	FilmID    uint64    `json:"film_id"`
	AuthorID  uint64    `json:"author_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
