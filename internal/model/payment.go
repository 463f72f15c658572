package model

import "time"

// PaymentStatus enumerates payment outcomes.  The current flow only ever
// produces SUCCESS rows; PENDING and FAILED exist for schema completeness
// since no retry or refund is modelled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment records exactly one successful payment attempt against a
// PENDING purchase.  Rows are never mutated after creation and are
// conceptually 1:1 with a PAID purchase.
//
// Fields:
//  ID         – primary key identifier.
//  Reference  – opaque external reference (UUID) returned to the client.
//  ClientID   – paying user.
//  PurchaseID – purchase this payment settles.
//  Status     – payment outcome.
//  CreatedAt  – creation timestamp.
type Payment struct {
	ID         uint64        `json:"id"`
	Reference  string        `json:"reference"`
	ClientID   uint64        `json:"client_id"`
	PurchaseID uint64        `json:"purchase_id"`
	Status     PaymentStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}
