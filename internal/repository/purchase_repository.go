package repository

import (
	"context"
	"database/sql"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// PurchaseRepo provides data access to the purchases and
// purchase_tickets tables.  A purchase references its tickets by id
// through the join table; ticket rows themselves are owned by
// TicketRepo.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo returns a PurchaseRepo bound to the provided database.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// CreateTx inserts a purchase row plus one purchase_tickets row per
// ticket inside the provided transaction and populates p.ID.  The
// caller is responsible for mutating the ticket rows in the same
// transaction so the whole creation is atomic.
func (r *PurchaseRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Purchase) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO purchases (client_id, total_cents, status) VALUES (?, ?, ?)`,
		p.ClientID, p.TotalCents, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	if len(p.TicketIDs) == 0 {
		return nil
	}
	query := `INSERT INTO purchase_tickets (purchase_id, ticket_id) VALUES `
	args := make([]interface{}, 0, len(p.TicketIDs)*2)
	for i, tid := range p.TicketIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, p.ID, tid)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// ticketIDs loads the ticket ids of a purchase in insertion order.  It
// runs on whichever querier is passed so it works inside and outside
// transactions.
func (r *PurchaseRepo) ticketIDs(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}, purchaseID uint64) ([]uint64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ticket_id FROM purchase_tickets WHERE purchase_id = ? ORDER BY id`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByID loads a purchase with its ticket ids.  Returns
// ErrPurchaseNotFound when the id does not exist.
func (r *PurchaseRepo) GetByID(ctx context.Context, id uint64) (model.Purchase, error) {
	var p model.Purchase
	err := r.db.QueryRowContext(ctx,
		`SELECT id, client_id, total_cents, status, created_at FROM purchases WHERE id = ?`, id).
		Scan(&p.ID, &p.ClientID, &p.TotalCents, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Purchase{}, ErrPurchaseNotFound
	}
	if err != nil {
		return model.Purchase{}, err
	}
	p.TicketIDs, err = r.ticketIDs(ctx, r.db, id)
	return p, err
}

// GetTx loads a purchase FOR UPDATE inside the provided transaction so
// concurrent pay/cancel attempts serialize on the row.
func (r *PurchaseRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Purchase, error) {
	var p model.Purchase
	err := tx.QueryRowContext(ctx,
		`SELECT id, client_id, total_cents, status, created_at FROM purchases WHERE id = ? FOR UPDATE`, id).
		Scan(&p.ID, &p.ClientID, &p.TotalCents, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Purchase{}, ErrPurchaseNotFound
	}
	if err != nil {
		return model.Purchase{}, err
	}
	p.TicketIDs, err = r.ticketIDs(ctx, tx, id)
	return p, err
}

// UpdateStatusTx performs the conditional status transition
// from -> to.  It reports false when the purchase was no longer in the
// expected state, which callers translate into a conflict.
func (r *PurchaseRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.PurchaseStatus) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE purchases SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ListByClient returns a page of the client's purchases ordered newest
// first, together with the total count for pagination.
func (r *PurchaseRepo) ListByClient(ctx context.Context, clientID uint64, page, size int) ([]model.Purchase, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchases WHERE client_id = ?`, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, total_cents, status, created_at FROM purchases
		 WHERE client_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		clientID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.ClientID, &p.TotalCents, &p.Status, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	byPurchase, err := r.ticketIDsForPurchases(ctx, out)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].TicketIDs = byPurchase[out[i].ID]
	}
	return out, total, nil
}

// ticketIDsForPurchases loads the ticket ids of a whole page of
// purchases in one IN query, keyed by purchase id with the per-purchase
// insertion order preserved.
func (r *PurchaseRepo) ticketIDsForPurchases(ctx context.Context, purchases []model.Purchase) (map[uint64][]uint64, error) {
	if len(purchases) == 0 {
		return nil, nil
	}
	query := `SELECT purchase_id, ticket_id FROM purchase_tickets WHERE purchase_id IN (`
	args := make([]interface{}, 0, len(purchases))
	for i, p := range purchases {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, p.ID)
	}
	query += `) ORDER BY purchase_id, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byPurchase := make(map[uint64][]uint64, len(purchases))
	for rows.Next() {
		var pid, tid uint64
		if err := rows.Scan(&pid, &tid); err != nil {
			return nil, err
		}
		byPurchase[pid] = append(byPurchase[pid], tid)
	}
	return byPurchase, rows.Err()
}
