// Package service implements the booking workflows on top of the
// repository layer.  Each service owns one lifecycle (tickets,
// purchases, payments) and runs every multi-row mutation inside a
// single transaction through the txRunner.
package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// txRunner runs a function inside one database transaction.  The
// production implementation is database.TxRunner; tests substitute a
// fake that simply invokes the function.
type txRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// ticketStore is the slice of repository.TicketRepo the ticket
// lifecycle needs.
type ticketStore interface {
	CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error
	DeleteBySession(ctx context.Context, sessionID uint64) (int64, error)
	ListBySession(ctx context.Context, sessionID uint64, status *model.TicketStatus) ([]model.Ticket, error)
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Ticket, error)
	ReserveTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error)
	ReleaseTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64) (bool, error)
}

// categoryStore resolves seat categories when tickets are materialized.
type categoryStore interface {
	GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.SeatCategory, error)
}

// TicketService drives the per-ticket state machine
// AVAILABLE → RESERVED → SOLD.  RESERVED tickets return to AVAILABLE
// through CancelReservation here or through the expiration sweeper.
type TicketService struct {
	tickets    ticketStore
	categories categoryStore
	tx         txRunner
	holdTTL    time.Duration
}

// NewTicketService wires a TicketService.  holdTTL is how long a
// reservation is held before the sweeper may reclaim it.
func NewTicketService(tickets ticketStore, categories categoryStore, tx txRunner, holdTTL time.Duration) *TicketService {
	return &TicketService{tickets: tickets, categories: categories, tx: tx, holdTTL: holdTTL}
}

// CreateForSession materializes one AVAILABLE ticket per seat, priced
// by the seat's category.  Seats whose category cannot be resolved are
// skipped with a warning.  The bulk insert is atomic; the call fails
// when not a single seat could be priced.  Returns the number of
// tickets created.
func (s *TicketService) CreateForSession(ctx context.Context, sessionID uint64, seats []model.Seat) (int, error) {
	catIDs := make([]uint64, 0, len(seats))
	seen := make(map[uint64]bool, len(seats))
	for _, seat := range seats {
		if !seen[seat.CategoryID] {
			seen[seat.CategoryID] = true
			catIDs = append(catIDs, seat.CategoryID)
		}
	}
	cats, err := s.categories.GetByIDs(ctx, catIDs)
	if err != nil {
		return 0, err
	}

	tickets := make([]model.Ticket, 0, len(seats))
	for _, seat := range seats {
		cat, ok := cats[seat.CategoryID]
		if !ok {
			log.Printf("ticket-service: seat %d skipped, category %d not found", seat.ID, seat.CategoryID)
			continue
		}
		tickets = append(tickets, model.Ticket{
			SessionID:  sessionID,
			SeatID:     seat.ID,
			CategoryID: seat.CategoryID,
			PriceCents: cat.PriceCents,
			Status:     model.TicketAvailable,
		})
	}
	if len(tickets) == 0 {
		return 0, repository.ErrInvalidArgument
	}
	err = s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		return s.tickets.CreateBulkTx(ctx, tx, tickets)
	})
	if err != nil {
		return 0, err
	}
	return len(tickets), nil
}

// DeleteForSession removes every ticket of a session and returns the
// number removed.
func (s *TicketService) DeleteForSession(ctx context.Context, sessionID uint64) (int64, error) {
	return s.tickets.DeleteBySession(ctx, sessionID)
}

// ListBySession returns the tickets of a session ordered by seat id,
// optionally narrowed to one status.
func (s *TicketService) ListBySession(ctx context.Context, sessionID uint64, status *model.TicketStatus) ([]model.Ticket, error) {
	return s.tickets.ListBySession(ctx, sessionID, status)
}

// Reserve places a hold on an AVAILABLE ticket for the given user.  The
// hold expires holdTTL from now unless the ticket is purchased or the
// reservation is cancelled first.  A ticket in any other state yields
// ErrConflict; an unknown id yields ErrTicketNotFound.
func (s *TicketService) Reserve(ctx context.Context, userID, ticketID uint64) (model.Ticket, error) {
	var out model.Ticket
	err := s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		t, err := s.tickets.GetTx(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if !t.Status.CanTransition(model.TicketReserved) {
			return repository.ErrConflict
		}
		until := time.Now().UTC().Add(s.holdTTL)
		ok, err := s.tickets.ReserveTx(ctx, tx, ticketID, userID, until)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race between the read and the update.
			return repository.ErrConflict
		}
		t.Status = model.TicketReserved
		t.BuyerID = &userID
		t.ReservedUntil = &until
		out = t
		return nil
	})
	return out, err
}

// CancelReservation releases a hold the user placed earlier.  Only the
// holder may cancel: a buyer mismatch yields ErrForbidden, a ticket not
// currently RESERVED yields ErrConflict.
func (s *TicketService) CancelReservation(ctx context.Context, userID, ticketID uint64) error {
	return s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		t, err := s.tickets.GetTx(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if t.Status != model.TicketReserved {
			return repository.ErrConflict
		}
		if t.BuyerID == nil || *t.BuyerID != userID {
			return repository.ErrForbidden
		}
		ok, err := s.tickets.ReleaseTx(ctx, tx, ticketID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrConflict
		}
		return nil
	})
}
