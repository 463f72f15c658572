package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ListByClient must stay at three round-trips per page (count, page,
// tickets), not one ticket query per purchase row.
func TestListByClientBatchesTicketIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM purchases WHERE client_id = \?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, client_id, total_cents, status, created_at FROM purchases`).
		WithArgs(42, 20, 0).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "client_id", "total_cents", "status", "created_at"}).
			AddRow(8, 42, 1000, "PENDING", now).
			AddRow(7, 42, 500, "PAID", now))
	mock.ExpectQuery(`SELECT purchase_id, ticket_id FROM purchase_tickets WHERE purchase_id IN`).
		WithArgs(8, 7).
		WillReturnRows(sqlmock.NewRows([]string{"purchase_id", "ticket_id"}).
			AddRow(7, 1).AddRow(7, 2).AddRow(8, 3))

	out, total, err := NewPurchaseRepo(db).ListByClient(context.Background(), 42, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, out, 2)
	assert.Equal(t, []uint64{3}, out[0].TicketIDs)
	assert.Equal(t, []uint64{1, 2}, out[1].TicketIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByClientEmptyPageSkipsTicketQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM purchases WHERE client_id = \?`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id, client_id, total_cents, status, created_at FROM purchases`).
		WithArgs(42, 20, 0).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "client_id", "total_cents", "status", "created_at"}))

	out, total, err := NewPurchaseRepo(db).ListByClient(context.Background(), 42, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
