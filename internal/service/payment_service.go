package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/queue"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

// paymentStore is the slice of repository.PaymentRepo the processor
// needs.
type paymentStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (model.Payment, error)
}

// soldTicketStore flips purchased tickets to SOLD.
type soldTicketStore interface {
	MarkSoldTx(ctx context.Context, tx *sql.Tx, ids []uint64) error
}

// paymentPurchaseStore covers the purchase reads and the PENDING → PAID
// transition the processor performs.
type paymentPurchaseStore interface {
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Purchase, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.PurchaseStatus) (bool, error)
}

// emailStore resolves the notification address of the paying user.
type emailStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// confirmationNotifier publishes the purchase-confirmed event.  The
// production implementation is queue.Publisher.
type confirmationNotifier interface {
	PurchaseConfirmed(ctx context.Context, ev queue.PurchaseConfirmedEvent) error
}

// Card carries the card details submitted with a payment.  The values
// are validated for shape only and never stored.
type Card struct {
	Number   string `json:"number"`
	Holder   string `json:"holder"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
}

// Validate checks the card fields for plausibility: 13–19 digits, a
// non-empty holder, an expiry that is not in the past and a 3–4 digit
// CVC.  No issuer is contacted.
func (c Card) Validate(now time.Time) error {
	if !allDigits(c.Number) || len(c.Number) < 13 || len(c.Number) > 19 {
		return repository.ErrInvalidArgument
	}
	if c.Holder == "" {
		return repository.ErrInvalidArgument
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		return repository.ErrInvalidArgument
	}
	if c.ExpYear < now.Year() || (c.ExpYear == now.Year() && c.ExpMonth < int(now.Month())) {
		return repository.ErrInvalidArgument
	}
	if !allDigits(c.CVC) || len(c.CVC) < 3 || len(c.CVC) > 4 {
		return repository.ErrInvalidArgument
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PaymentService settles PENDING purchases.  Exactly one payment can
// ever succeed per purchase: the conditional PENDING → PAID transition
// on the purchase row is the arbiter, everything else (payment row,
// ticket flips) rides in the same transaction.
type PaymentService struct {
	payments  paymentStore
	purchases paymentPurchaseStore
	tickets   soldTicketStore
	users     emailStore
	tx        txRunner
	notifier  confirmationNotifier
}

// NewPaymentService wires a PaymentService.  notifier may be nil, which
// disables confirmation events entirely.
func NewPaymentService(payments paymentStore, purchases paymentPurchaseStore, tickets soldTicketStore, users emailStore, tx txRunner, notifier confirmationNotifier) *PaymentService {
	return &PaymentService{payments: payments, purchases: purchases, tickets: tickets, users: users, tx: tx, notifier: notifier}
}

// Process charges the card for a PENDING purchase owned by the client.
// On success, in one transaction: a SUCCESS payment row with a fresh
// uuid reference is inserted, every ticket of the purchase becomes
// SOLD, and the purchase becomes PAID.  A purchase that is missing or
// belongs to someone else yields ErrPurchaseNotFound (ownership is not
// leaked through a distinct status); a purchase not PENDING yields
// ErrConflict.  The confirmation event is published after commit and
// never affects the result.
func (s *PaymentService) Process(ctx context.Context, clientID, purchaseID uint64, card Card) (model.Payment, error) {
	if err := card.Validate(time.Now().UTC()); err != nil {
		return model.Payment{}, err
	}
	var (
		payment  model.Payment
		purchase model.Purchase
	)
	err := s.tx.RunTx(ctx, func(tx *sql.Tx) error {
		p, err := s.purchases.GetTx(ctx, tx, purchaseID)
		if err != nil {
			return err
		}
		if p.ClientID != clientID {
			return repository.ErrPurchaseNotFound
		}
		if p.Status != model.PurchasePending {
			return repository.ErrConflict
		}
		payment = model.Payment{
			Reference:  uuid.NewString(),
			ClientID:   clientID,
			PurchaseID: purchaseID,
			Status:     model.PaymentSuccess,
		}
		if err := s.payments.CreateTx(ctx, tx, &payment); err != nil {
			return err
		}
		if err := s.tickets.MarkSoldTx(ctx, tx, p.TicketIDs); err != nil {
			return err
		}
		ok, err := s.purchases.UpdateStatusTx(ctx, tx, purchaseID, model.PurchasePending, model.PurchasePaid)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrConflict
		}
		purchase = p
		return nil
	})
	if err != nil {
		return model.Payment{}, err
	}
	s.notify(ctx, payment, purchase)
	return payment, nil
}

// notify publishes the purchase-confirmed event best-effort.  The
// payment has already committed, so failures here are logged and
// swallowed.
func (s *PaymentService) notify(ctx context.Context, payment model.Payment, purchase model.Purchase) {
	if s.notifier == nil {
		return
	}
	email := ""
	if u, err := s.users.GetByID(ctx, payment.ClientID); err == nil {
		email = u.Email
	} else {
		log.Printf("payment-service: could not resolve user %d for notification: %v", payment.ClientID, err)
	}
	ev := queue.PurchaseConfirmedEvent{
		PurchaseID: purchase.ID,
		PaymentID:  payment.ID,
		Reference:  payment.Reference,
		UserID:     payment.ClientID,
		Email:      email,
		TicketIDs:  purchase.TicketIDs,
		TotalCents: purchase.TotalCents,
		PaidAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.notifier.PurchaseConfirmed(ctx, ev); err != nil {
		log.Printf("payment-service: publish purchase.confirmed failed for purchase %d: %v", purchase.ID, err)
	}
}

// GetStatus loads one payment by id.
func (s *PaymentService) GetStatus(ctx context.Context, id uint64) (model.Payment, error) {
	return s.payments.GetByID(ctx, id)
}
