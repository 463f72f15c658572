package repository

import (
	"context"
	"database/sql"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// PaymentRepo provides data access to the payments table.  Payment rows
// are append-only: created once inside the payment transaction, never
// updated.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the provided database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row inside the provided transaction and
// populates p.ID.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (reference, client_id, purchase_id, status) VALUES (?, ?, ?, ?)`,
		p.Reference, p.ClientID, p.PurchaseID, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID loads a payment.  Returns ErrPaymentNotFound when the id does
// not exist.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	var p model.Payment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reference, client_id, purchase_id, status, created_at FROM payments WHERE id = ?`, id).
		Scan(&p.ID, &p.Reference, &p.ClientID, &p.PurchaseID, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}
