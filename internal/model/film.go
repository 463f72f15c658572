package model

import "time"

// AgeRating is the admission rating attached to a film.
type AgeRating string

const (
	RatingG    AgeRating = "G"
	RatingPG   AgeRating = "PG"
	RatingPG13 AgeRating = "PG13"
	RatingR    AgeRating = "R"
	RatingNC17 AgeRating = "NC17"
)

// ValidAgeRating reports whether s is one of the known ratings.
func ValidAgeRating(s string) bool {
	switch AgeRating(s) {
	case RatingG, RatingPG, RatingPG13, RatingR, RatingNC17:
		return true
	}
	return false
}

// Film is a movie in the catalog.  DurationMinutes feeds the session
// timeslot computation.
type Film struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Image           *string   `json:"image,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	AgeRating       AgeRating `json:"age_rating"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
