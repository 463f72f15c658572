// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// PurchaseConfirmedEvent is published after a payment transaction has
// committed.  It carries enough information for downstream consumers to
// build the confirmation mail without querying the primary database.
type PurchaseConfirmedEvent struct {
	PurchaseID uint64   `json:"purchase_id"`
	PaymentID  uint64   `json:"payment_id"`
	Reference  string   `json:"reference"`
	UserID     uint64   `json:"user_id"`
	Email      string   `json:"email"`
	TicketIDs  []uint64 `json:"ticket_ids"`
	TotalCents uint64   `json:"total_cents"`
	PaidAt     string   `json:"paid_at"`
}
