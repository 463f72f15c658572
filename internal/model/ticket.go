package model

import "time"

// TicketStatus enumerates the lifecycle states of a ticket.  The only
// legal transitions are AVAILABLE → RESERVED → SOLD and
// RESERVED → AVAILABLE (explicit cancel or expiry sweep).  SOLD is
// terminal.
type TicketStatus string

const (
	TicketAvailable TicketStatus = "AVAILABLE" // sellable, no buyer attached
	TicketReserved  TicketStatus = "RESERVED"  // held by a buyer until reserved_until
	TicketSold      TicketStatus = "SOLD"      // paid for; terminal
)

// ValidTicketStatus reports whether s is one of the known statuses.  It
// is used when parsing the optional ?status= filter on listing endpoints.
func ValidTicketStatus(s string) bool {
	switch TicketStatus(s) {
	case TicketAvailable, TicketReserved, TicketSold:
		return true
	}
	return false
}

// CanTransition reports whether moving a ticket from one status to
// another is a legal edge of the state machine.  The repository layer
// enforces the same rule at the SQL level with conditional updates; this
// helper exists so services and tests can reason about legality without
// touching the database.
func (s TicketStatus) CanTransition(to TicketStatus) bool {
	switch s {
	case TicketAvailable:
		return to == TicketReserved
	case TicketReserved:
		return to == TicketAvailable || to == TicketSold
	}
	return false
}

// Ticket is one sellable seat for one session.  Tickets are created in
// bulk when a session is scheduled (one per hall seat, priced by the
// seat's category) and deleted only when the session is removed or moved
// to a different hall.
//
// Invariant: status RESERVED ⟺ both ReservedUntil and BuyerID are set;
// AVAILABLE ⟺ both are unset; SOLD ⟺ BuyerID set and ReservedUntil unset.
//
// Fields:
//  ID            – primary key identifier.
//  SessionID     – session this ticket belongs to.
//  SeatID        – physical seat in the hall.
//  CategoryID    – seat category that determined the price.
//  PriceCents    – price in minor currency units, fixed at creation.
//  Status        – current lifecycle state.
//  BuyerID       – holder of the reservation or sale (nullable).
//  ReservedUntil – reservation expiry (nullable, RESERVED only).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Ticket struct {
	ID            uint64       `json:"id"`
	SessionID     uint64       `json:"session_id"`
	SeatID        uint64       `json:"seat_id"`
	CategoryID    uint64       `json:"category_id"`
	PriceCents    uint32       `json:"price_cents"`
	Status        TicketStatus `json:"status"`
	BuyerID       *uint64      `json:"buyer_id,omitempty"`
	ReservedUntil *time.Time   `json:"reserved_until,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
