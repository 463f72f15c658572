package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

func newPurchaseService(purchases *mockPurchaseStore, tickets *mockTicketStore) *PurchaseService {
	return NewPurchaseService(purchases, tickets, fakeTx{}, 20*time.Minute)
}

func TestPurchaseCreateRejectsEmptyList(t *testing.T) {
	svc := newPurchaseService(new(mockPurchaseStore), new(mockTicketStore))

	_, err := svc.Create(context.Background(), 42, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestPurchaseCreateClaimsAvailableAndOwnReserved(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	client := uint64(42)
	ids := []uint64{1, 2}
	tickets.On("GetManyTx", mock.Anything, mock.Anything, ids).Return([]model.Ticket{
		{ID: 1, Status: model.TicketAvailable, PriceCents: 1000},
		{ID: 2, Status: model.TicketReserved, BuyerID: &client, PriceCents: 1500},
	}, nil)
	tickets.On("ReserveTx", mock.Anything, mock.Anything, uint64(1), client, mock.Anything).Return(true, nil)
	tickets.On("ClaimTx", mock.Anything, mock.Anything, uint64(2), client, mock.Anything).Return(true, nil)
	purchases.On("CreateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Purchase) bool {
		return p.ClientID == client && p.TotalCents == 2500 && p.Status == model.PurchasePending
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*model.Purchase).ID = 77
	}).Return(nil)

	got, err := svc.Create(context.Background(), client, ids)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), got.ID)
	assert.Equal(t, uint64(2500), got.TotalCents)
	assert.Equal(t, model.PurchasePending, got.Status)
	tickets.AssertExpectations(t)
	purchases.AssertExpectations(t)
}

func TestPurchaseCreateSumsLargeTotalsWithoutWrapping(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	client := uint64(42)
	// Two tickets near the top of the price range; the sum does not fit
	// in 32 bits.
	const price = uint32(4_000_000_000)
	const want = uint64(8_000_000_000)
	tickets.On("GetManyTx", mock.Anything, mock.Anything, []uint64{1, 2}).Return([]model.Ticket{
		{ID: 1, Status: model.TicketAvailable, PriceCents: price},
		{ID: 2, Status: model.TicketAvailable, PriceCents: price},
	}, nil)
	tickets.On("ReserveTx", mock.Anything, mock.Anything, uint64(1), client, mock.Anything).Return(true, nil)
	tickets.On("ReserveTx", mock.Anything, mock.Anything, uint64(2), client, mock.Anything).Return(true, nil)
	purchases.On("CreateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Purchase) bool {
		return p.TotalCents == want
	})).Return(nil)

	got, err := svc.Create(context.Background(), client, []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, want, got.TotalCents)
	purchases.AssertExpectations(t)
}

func TestPurchaseCreateConflictOnMissingTicket(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	// Three requested, two exist: nothing may be persisted.
	tickets.On("GetManyTx", mock.Anything, mock.Anything, []uint64{1, 2, 3}).Return([]model.Ticket{
		{ID: 1, Status: model.TicketAvailable},
		{ID: 2, Status: model.TicketAvailable},
	}, nil)

	_, err := svc.Create(context.Background(), 42, []uint64{1, 2, 3})
	assert.ErrorIs(t, err, repository.ErrConflict)
	purchases.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
	tickets.AssertNotCalled(t, "ReserveTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseCreateConflictOnForeignReservation(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	other := uint64(7)
	tickets.On("GetManyTx", mock.Anything, mock.Anything, []uint64{1}).Return([]model.Ticket{
		{ID: 1, Status: model.TicketReserved, BuyerID: &other},
	}, nil)

	_, err := svc.Create(context.Background(), 42, []uint64{1})
	assert.ErrorIs(t, err, repository.ErrConflict)
	purchases.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseCreateConflictOnSoldTicket(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	tickets.On("GetManyTx", mock.Anything, mock.Anything, []uint64{1}).Return([]model.Ticket{
		{ID: 1, Status: model.TicketSold},
	}, nil)

	_, err := svc.Create(context.Background(), 42, []uint64{1})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestPurchaseCancelReleasesAllTickets(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	// Tickets may be in mixed states by now (one hold lapsed, one still
	// RESERVED); cancel resets them all.
	purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(model.Purchase{
		ID: 77, ClientID: 42, TicketIDs: []uint64{1, 2}, Status: model.PurchasePending,
	}, nil)
	purchases.On("UpdateStatusTx", mock.Anything, mock.Anything, uint64(77),
		model.PurchasePending, model.PurchaseCancelled).Return(true, nil)
	tickets.On("ReleaseAllTx", mock.Anything, mock.Anything, []uint64{1, 2}).Return(nil)

	err := svc.Cancel(context.Background(), 42, 77)
	assert.NoError(t, err)
	tickets.AssertExpectations(t)
}

func TestPurchaseCancelForbiddenForForeignPurchase(t *testing.T) {
	purchases := new(mockPurchaseStore)
	tickets := new(mockTicketStore)
	svc := newPurchaseService(purchases, tickets)

	purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(model.Purchase{
		ID: 77, ClientID: 7, Status: model.PurchasePending,
	}, nil)

	err := svc.Cancel(context.Background(), 42, 77)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	tickets.AssertNotCalled(t, "ReleaseAllTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseCancelConflictWhenNotPending(t *testing.T) {
	for _, status := range []model.PurchaseStatus{model.PurchasePaid, model.PurchaseCancelled} {
		purchases := new(mockPurchaseStore)
		tickets := new(mockTicketStore)
		svc := newPurchaseService(purchases, tickets)

		purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(model.Purchase{
			ID: 77, ClientID: 42, TicketIDs: []uint64{1}, Status: status,
		}, nil)
		purchases.On("UpdateStatusTx", mock.Anything, mock.Anything, uint64(77),
			model.PurchasePending, model.PurchaseCancelled).Return(false, nil)

		err := svc.Cancel(context.Background(), 42, 77)
		assert.ErrorIs(t, err, repository.ErrConflict, "status %s", status)
		tickets.AssertNotCalled(t, "ReleaseAllTx", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestPurchaseCancelNotFound(t *testing.T) {
	purchases := new(mockPurchaseStore)
	svc := newPurchaseService(purchases, new(mockTicketStore))

	purchases.On("GetTx", mock.Anything, mock.Anything, uint64(99)).
		Return(model.Purchase{}, repository.ErrPurchaseNotFound)

	err := svc.Cancel(context.Background(), 42, 99)
	assert.ErrorIs(t, err, repository.ErrPurchaseNotFound)
}

func TestPurchaseGetByClientPagination(t *testing.T) {
	purchases := new(mockPurchaseStore)
	svc := newPurchaseService(purchases, new(mockTicketStore))

	want := []model.Purchase{{ID: 2}, {ID: 1}}
	purchases.On("ListByClient", mock.Anything, uint64(42), 1, 10).Return(want, 12, nil)

	got, total, err := svc.GetByClient(context.Background(), 42, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 12, total)
}
