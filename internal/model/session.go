package model

import "time"

// Session is a scheduled screening of a film in a hall.  The timeslot
// pads the screening with 20 minutes on both sides (cleaning and
// admission) and is recomputed whenever the film or start time changes.
// Creating a session materializes one ticket per hall seat; re-pointing
// a session at a different hall deletes and recreates its tickets.
//
// Fields:
//  ID        – primary key identifier.
//  FilmID    – film being shown.
//  HallID    – hall where the session takes place.
//  StartAt   – advertised start of the screening.
//  SlotStart – timeslot start (StartAt − 20m).
//  SlotEnd   – timeslot end (StartAt + film duration + 20m).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Session struct {
	ID        uint64    `json:"id"`
	FilmID    uint64    `json:"film_id"`
	HallID    uint64    `json:"hall_id"`
	StartAt   time.Time `json:"start_at"`
	SlotStart time.Time `json:"slot_start"`
	SlotEnd   time.Time `json:"slot_end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionPadding is the buffer added before and after a screening when
// computing its timeslot.
const SessionPadding = 20 * time.Minute

// Timeslot returns the padded [start, end] window for a film of the
// given duration starting at startAt.
func Timeslot(startAt time.Time, durationMinutes int) (time.Time, time.Time) {
	return startAt.Add(-SessionPadding),
		startAt.Add(time.Duration(durationMinutes)*time.Minute + SessionPadding)
}
