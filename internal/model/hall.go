package model

import "time"

// Hall is a physical auditorium.  Number is unique across the cinema and
// Rows tracks how many seat rows have been laid out.
type Hall struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeatCategory is a pricing tier.  Every seat references a category and
// every ticket copies the category's price at creation time.
type SeatCategory struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	PriceCents uint32    `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Seat is one physical seat in a hall, identified by its row and number.
//
// Fields:
//  ID         – primary key identifier.
//  HallID     – hall to which this seat belongs.
//  Row        – 1-based row index.
//  Number     – 1-based seat number within the row.
//  CategoryID – pricing tier of the seat.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    `json:"id"`
	HallID     uint64    `json:"hall_id"`
	Row        int       `json:"row"`
	Number     int       `json:"number"`
	CategoryID uint64    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}
