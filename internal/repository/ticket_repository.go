package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// TicketRepo provides data access to the tickets table.  Every state
// transition is written as a conditional UPDATE whose WHERE clause pins
// the expected current status (and, where relevant, the buyer), so two
// writers racing on the same row can never both win: the loser's update
// touches zero rows and the caller maps that to a conflict.  All
// timestamps are UTC.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the provided database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, session_id, seat_id, category_id, price_cents, status, buyer_id, reserved_until, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var (
		t        model.Ticket
		buyer    sql.NullInt64
		until    sql.NullTime
	)
	err := row.Scan(&t.ID, &t.SessionID, &t.SeatID, &t.CategoryID, &t.PriceCents,
		&t.Status, &buyer, &until, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Ticket{}, err
	}
	if buyer.Valid {
		b := uint64(buyer.Int64)
		t.BuyerID = &b
	}
	if until.Valid {
		u := until.Time
		t.ReservedUntil = &u
	}
	return t, nil
}

// CreateBulkTx inserts the given tickets in one statement inside the
// provided transaction.  Passing an empty slice has no effect.  The ID
// fields of the passed structures are not populated.
func (r *TicketRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (session_id, seat_id, category_id, price_cents, status) VALUES `
	args := make([]interface{}, 0, len(tickets)*5)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, t.SessionID, t.SeatID, t.CategoryID, t.PriceCents, t.Status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteBySession removes all tickets belonging to a session and
// returns the number of rows removed.  Used when a session is deleted
// or moved to a different hall ahead of recreating its tickets.
func (r *TicketRepo) DeleteBySession(ctx context.Context, sessionID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListBySession returns the tickets of a session ordered by seat id for
// a stable listing.  A non-nil status narrows the result.
func (r *TicketRepo) ListBySession(ctx context.Context, sessionID uint64, status *model.TicketStatus) ([]model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE session_id = ?`
	args := []interface{}{sessionID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY seat_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTx loads a single ticket FOR UPDATE so the row stays locked until
// the surrounding transaction commits or rolls back.  Returns
// ErrTicketNotFound when the id does not exist.
func (r *TicketRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Ticket, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ? FOR UPDATE`, id)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// GetManyTx loads and locks the tickets with the given ids.  The result
// may be shorter than ids when some ids do not exist; callers compare
// lengths to detect that.
func (r *TicketRepo) GetManyTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Ticket, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `) ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReserveTx attempts the AVAILABLE -> RESERVED transition for one
// ticket.  It reports false when the ticket was not AVAILABLE at the
// moment of the update, which is how a concurrent reserver or a racing
// sweep release is detected.
func (r *TicketRepo) ReserveTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET status = ?, buyer_id = ?, reserved_until = ? WHERE id = ? AND status = ?`,
		model.TicketReserved, buyerID, until.UTC(), ticketID, model.TicketAvailable)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ReleaseTx attempts the RESERVED -> AVAILABLE transition for one
// ticket held by the given buyer, clearing buyer_id and reserved_until.
// It reports false when the ticket is no longer RESERVED by that buyer.
func (r *TicketRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET status = ?, buyer_id = NULL, reserved_until = NULL
		 WHERE id = ? AND status = ? AND buyer_id = ?`,
		model.TicketAvailable, ticketID, model.TicketReserved, buyerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ReleaseAllTx forces every listed ticket back to AVAILABLE regardless
// of its current state.  Only purchase cancellation uses this: it must
// reclaim tickets the sweeper has not yet expired.
func (r *TicketRepo) ReleaseAllTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE tickets SET status = ?, buyer_id = NULL, reserved_until = NULL WHERE id IN (`
	args := []interface{}{model.TicketAvailable}
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `)`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// MarkSoldTx flips the listed tickets to SOLD and clears their
// reservation expiry.  It runs once per payment inside the payment's
// own transaction.
func (r *TicketRepo) MarkSoldTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE tickets SET status = ?, reserved_until = NULL WHERE id IN (`
	args := []interface{}{model.TicketSold}
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `)`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ClaimTx re-points a RESERVED ticket's hold at a new expiry for the
// same buyer.  Purchase creation uses it to refresh the hold on tickets
// the client already reserved.
func (r *TicketRepo) ClaimTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET reserved_until = ? WHERE id = ? AND status = ? AND buyer_id = ?`,
		until.UTC(), ticketID, model.TicketReserved, buyerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ReleaseExpired resets every ticket whose reservation hold has lapsed
// back to AVAILABLE in one batch and returns how many were released.
// The status guard in the WHERE clause makes the sweep safe against a
// payment or cancellation committing concurrently on the same rows.
func (r *TicketRepo) ReleaseExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET status = ?, buyer_id = NULL, reserved_until = NULL
		 WHERE status = ? AND reserved_until < UTC_TIMESTAMP()`,
		model.TicketAvailable, model.TicketReserved)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
