package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// purchaseStore is the slice of repository.PurchaseRepo the purchase
// lifecycle needs.
type purchaseStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, p *model.Purchase) error
	GetByID(ctx context.Context, id uint64) (model.Purchase, error)
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Purchase, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.PurchaseStatus) (bool, error)
	ListByClient(ctx context.Context, clientID uint64, page, size int) ([]model.Purchase, int, error)
}

// purchaseTicketStore covers the ticket mutations purchase creation and
// cancellation perform.
type purchaseTicketStore interface {
	GetManyTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Ticket, error)
	ReserveTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error)
	ClaimTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error)
	ReleaseAllTx(ctx context.Context, tx *sql.Tx, ids []uint64) error
}

// PurchaseService groups tickets into payable purchases.  A purchase is
// created PENDING and ends up PAID (through PaymentService) or
// CANCELLED.
type PurchaseService struct {
	purchases purchaseStore
	tickets   purchaseTicketStore
	tx        txRunner
	holdTTL   time.Duration
}

// NewPurchaseService wires a PurchaseService.
func NewPurchaseService(purchases purchaseStore, tickets purchaseTicketStore, tx txRunner, holdTTL time.Duration) *PurchaseService {
	return &PurchaseService{purchases: purchases, tickets: tickets, tx: tx, holdTTL: holdTTL}
}

// Create builds a PENDING purchase over the given tickets for the
// client.  Every ticket must be either AVAILABLE, in which case it is
// claimed with a fresh hold for the client, or already RESERVED by this
// same client, in which case the hold is refreshed.  Any other state,
// a missing id, or an empty list fails the whole call; nothing is
// persisted then, since all mutations share one transaction.
func (s *PurchaseService) Create(ctx context.Context, clientID uint64, ticketIDs []uint64) (model.Purchase, error) {
	if len(ticketIDs) == 0 {
		return model.Purchase{}, repository.ErrInvalidArgument
	}
	var out model.Purchase
	err := s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		tickets, err := s.tickets.GetManyTx(ctx, tx, ticketIDs)
		if err != nil {
			return err
		}
		if len(tickets) != len(ticketIDs) {
			// Duplicate or unknown ids in the request.
			return repository.ErrConflict
		}
		until := time.Now().UTC().Add(s.holdTTL)
		var total uint64
		for _, t := range tickets {
			switch t.Status {
			case model.TicketAvailable:
				ok, err := s.tickets.ReserveTx(ctx, tx, t.ID, clientID, until)
				if err != nil {
					return err
				}
				if !ok {
					return repository.ErrConflict
				}
			case model.TicketReserved:
				if t.BuyerID == nil || *t.BuyerID != clientID {
					return repository.ErrConflict
				}
				ok, err := s.tickets.ClaimTx(ctx, tx, t.ID, clientID, until)
				if err != nil {
					return err
				}
				if !ok {
					return repository.ErrConflict
				}
			default:
				return repository.ErrConflict
			}
			total += uint64(t.PriceCents)
		}
		p := model.Purchase{
			ClientID:   clientID,
			TicketIDs:  ticketIDs,
			TotalCents: total,
			Status:     model.PurchasePending,
		}
		if err := s.purchases.CreateTx(ctx, tx, &p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// Cancel moves a PENDING purchase to CANCELLED and returns every
// referenced ticket to AVAILABLE, regardless of whether its hold has
// already lapsed.  Only the owner may cancel; a purchase already PAID
// or CANCELLED yields ErrConflict.
func (s *PurchaseService) Cancel(ctx context.Context, clientID, purchaseID uint64) error {
	return s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		p, err := s.purchases.GetTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if p.ClientID != clientID {
			return repository.ErrForbidden
		}
		ok, err := s.purchases.UpdateStatusTx(ctx, tx, purchaseID, model.PurchasePending, model.PurchaseCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrConflict
		}
		return s.tickets.ReleaseAllTx(ctx, tx, p.TicketIDs)
	})
}

// GetByID loads one purchase with its ticket ids.
func (s *PurchaseService) GetByID(ctx context.Context, id uint64) (model.Purchase, error) {
	return s.purchases.GetByID(ctx, id)
}

// GetByClient returns a page of the client's purchases, newest first,
// plus the total count.
func (s *PurchaseService) GetByClient(ctx context.Context, clientID uint64, page, size int) ([]model.Purchase, int, error) {
	return s.purchases.ListByClient(ctx, clientID, page, size)
}
