package model

import "time"

// PurchaseStatus enumerates the lifecycle states of a purchase.  A
// purchase starts PENDING and becomes either PAID (via the payment
// processor) or CANCELLED (client initiated).  Both end states are
// immutable.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchasePaid      PurchaseStatus = "PAID"
	PurchaseCancelled PurchaseStatus = "CANCELLED"
)

// Purchase groups one or more tickets selected by a client into a single
// payable unit.  Ticket membership lives in the purchase_tickets table;
// TicketIDs is populated by the repository when a purchase is loaded.
// TotalCents is the sum of the referenced ticket prices at creation time
// and never changes afterwards.  It is wider than a single ticket price
// so summing cannot wrap however many tickets a purchase holds.
//
// Fields:
//  ID         – primary key identifier.
//  ClientID   – user who created the purchase; only they may mutate it.
//  TicketIDs  – tickets contained in the purchase, in insertion order.
//  TotalCents – total price in minor currency units.
//  Status     – PENDING, PAID or CANCELLED.
//  CreatedAt  – creation timestamp.
type Purchase struct {
	ID         uint64         `json:"id"`
	ClientID   uint64         `json:"client_id"`
	TicketIDs  []uint64       `json:"ticket_ids"`
	TotalCents uint64         `json:"total_cents"`
	Status     PurchaseStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}
