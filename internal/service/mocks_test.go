package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/queue"
)

// fakeTx satisfies txRunner without a database: the callback runs with
// a nil *sql.Tx, which the mocked stores never dereference.  An error
// from the callback propagates exactly like a rolled-back transaction.
type fakeTx struct{}

func (fakeTx) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

type mockTicketStore struct{ mock.Mock }

func (m *mockTicketStore) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	return m.Called(ctx, tx, tickets).Error(0)
}

func (m *mockTicketStore) DeleteBySession(ctx context.Context, sessionID uint64) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketStore) ListBySession(ctx context.Context, sessionID uint64, status *model.TicketStatus) ([]model.Ticket, error) {
	args := m.Called(ctx, sessionID, status)
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *mockTicketStore) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Ticket, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(model.Ticket), args.Error(1)
}

func (m *mockTicketStore) GetManyTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Ticket, error) {
	args := m.Called(ctx, tx, ids)
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *mockTicketStore) ReserveTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error) {
	args := m.Called(ctx, tx, ticketID, buyerID, until)
	return args.Bool(0), args.Error(1)
}

func (m *mockTicketStore) ReleaseTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64) (bool, error) {
	args := m.Called(ctx, tx, ticketID, buyerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTicketStore) ClaimTx(ctx context.Context, tx *sql.Tx, ticketID, buyerID uint64, until time.Time) (bool, error) {
	args := m.Called(ctx, tx, ticketID, buyerID, until)
	return args.Bool(0), args.Error(1)
}

func (m *mockTicketStore) ReleaseAllTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	return m.Called(ctx, tx, ids).Error(0)
}

func (m *mockTicketStore) MarkSoldTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	return m.Called(ctx, tx, ids).Error(0)
}

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.SeatCategory, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint64]model.SeatCategory), args.Error(1)
}

type mockPurchaseStore struct{ mock.Mock }

func (m *mockPurchaseStore) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Purchase) error {
	return m.Called(ctx, tx, p).Error(0)
}

func (m *mockPurchaseStore) GetByID(ctx context.Context, id uint64) (model.Purchase, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Purchase), args.Error(1)
}

func (m *mockPurchaseStore) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Purchase, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(model.Purchase), args.Error(1)
}

func (m *mockPurchaseStore) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.PurchaseStatus) (bool, error) {
	args := m.Called(ctx, tx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockPurchaseStore) ListByClient(ctx context.Context, clientID uint64, page, size int) ([]model.Purchase, int, error) {
	args := m.Called(ctx, clientID, page, size)
	return args.Get(0).([]model.Purchase), args.Int(1), args.Error(2)
}

type mockPaymentStore struct{ mock.Mock }

func (m *mockPaymentStore) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	return m.Called(ctx, tx, p).Error(0)
}

func (m *mockPaymentStore) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Payment), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) PurchaseConfirmed(ctx context.Context, ev queue.PurchaseConfirmedEvent) error {
	return m.Called(ctx, ev).Error(0)
}
