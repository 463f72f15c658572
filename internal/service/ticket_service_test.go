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

func newTicketService(tickets *mockTicketStore, cats *mockCategoryStore) *TicketService {
	return NewTicketService(tickets, cats, fakeTx{}, 20*time.Minute)
}

func TestCreateForSessionSkipsUnpricedSeats(t *testing.T) {
	tickets := new(mockTicketStore)
	cats := new(mockCategoryStore)
	svc := newTicketService(tickets, cats)

	seats := []model.Seat{
		{ID: 1, CategoryID: 10},
		{ID: 2, CategoryID: 11}, // category missing, seat skipped
		{ID: 3, CategoryID: 10},
	}
	cats.On("GetByIDs", mock.Anything, []uint64{10, 11}).
		Return(map[uint64]model.SeatCategory{10: {ID: 10, PriceCents: 1500}}, nil)
	tickets.On("CreateBulkTx", mock.Anything, mock.Anything, mock.MatchedBy(func(ts []model.Ticket) bool {
		return len(ts) == 2 && ts[0].SeatID == 1 && ts[1].SeatID == 3 &&
			ts[0].PriceCents == 1500 && ts[0].Status == model.TicketAvailable
	})).Return(nil)

	n, err := svc.CreateForSession(context.Background(), 7, seats)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	tickets.AssertExpectations(t)
}

func TestCreateForSessionFailsWhenNothingPriceable(t *testing.T) {
	tickets := new(mockTicketStore)
	cats := new(mockCategoryStore)
	svc := newTicketService(tickets, cats)

	cats.On("GetByIDs", mock.Anything, []uint64{99}).
		Return(map[uint64]model.SeatCategory{}, nil)

	_, err := svc.CreateForSession(context.Background(), 7, []model.Seat{{ID: 1, CategoryID: 99}})
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
	tickets.AssertNotCalled(t, "CreateBulkTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveSetsHold(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
		Return(model.Ticket{ID: 5, Status: model.TicketAvailable, PriceCents: 900}, nil)
	tickets.On("ReserveTx", mock.Anything, mock.Anything, uint64(5), uint64(42), mock.Anything).
		Return(true, nil)

	before := time.Now().UTC()
	got, err := svc.Reserve(context.Background(), 42, 5)
	require.NoError(t, err)
	assert.Equal(t, model.TicketReserved, got.Status)
	require.NotNil(t, got.BuyerID)
	assert.Equal(t, uint64(42), *got.BuyerID)
	require.NotNil(t, got.ReservedUntil)
	assert.WithinDuration(t, before.Add(20*time.Minute), *got.ReservedUntil, 5*time.Second)
}

func TestReserveNotFound(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
		Return(model.Ticket{}, repository.ErrTicketNotFound)

	_, err := svc.Reserve(context.Background(), 42, 5)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}

func TestReserveConflictsOnNonAvailable(t *testing.T) {
	for _, status := range []model.TicketStatus{model.TicketReserved, model.TicketSold} {
		tickets := new(mockTicketStore)
		svc := newTicketService(tickets, new(mockCategoryStore))

		tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
			Return(model.Ticket{ID: 5, Status: status}, nil)

		_, err := svc.Reserve(context.Background(), 42, 5)
		assert.ErrorIs(t, err, repository.ErrConflict, "status %s", status)
		tickets.AssertNotCalled(t, "ReserveTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestReserveConflictsWhenRaceLost(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	// Row read AVAILABLE but another writer won between read and update.
	tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
		Return(model.Ticket{ID: 5, Status: model.TicketAvailable}, nil)
	tickets.On("ReserveTx", mock.Anything, mock.Anything, uint64(5), uint64(42), mock.Anything).
		Return(false, nil)

	_, err := svc.Reserve(context.Background(), 42, 5)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestCancelReservationReleasesOwnHold(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	buyer := uint64(42)
	tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
		Return(model.Ticket{ID: 5, Status: model.TicketReserved, BuyerID: &buyer}, nil)
	tickets.On("ReleaseTx", mock.Anything, mock.Anything, uint64(5), uint64(42)).
		Return(true, nil)

	err := svc.CancelReservation(context.Background(), 42, 5)
	assert.NoError(t, err)
	tickets.AssertExpectations(t)
}

func TestCancelReservationForbiddenForForeignHold(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	buyer := uint64(7)
	tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
		Return(model.Ticket{ID: 5, Status: model.TicketReserved, BuyerID: &buyer}, nil)

	err := svc.CancelReservation(context.Background(), 42, 5)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	tickets.AssertNotCalled(t, "ReleaseTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelReservationConflictWhenNotReserved(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	tickets.On("GetTx", mock.Anything, mock.Anything, uint64(5)).
		Return(model.Ticket{ID: 5, Status: model.TicketAvailable}, nil)

	err := svc.CancelReservation(context.Background(), 42, 5)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestListBySessionPassesFilter(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	status := model.TicketAvailable
	want := []model.Ticket{{ID: 1}, {ID: 2}}
	tickets.On("ListBySession", mock.Anything, uint64(7), &status).Return(want, nil)

	got, err := svc.ListBySession(context.Background(), 7, &status)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeleteForSessionReturnsCount(t *testing.T) {
	tickets := new(mockTicketStore)
	svc := newTicketService(tickets, new(mockCategoryStore))

	tickets.On("DeleteBySession", mock.Anything, uint64(7)).Return(int64(48), nil)

	n, err := svc.DeleteForSession(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(48), n)
}

// Compile-time checks that the production repos satisfy the store
// interfaces the services are declared against.
var (
	_ ticketStore          = (*repository.TicketRepo)(nil)
	_ purchaseTicketStore  = (*repository.TicketRepo)(nil)
	_ soldTicketStore      = (*repository.TicketRepo)(nil)
	_ categoryStore        = (*repository.SeatCategoryRepo)(nil)
	_ purchaseStore        = (*repository.PurchaseRepo)(nil)
	_ paymentPurchaseStore = (*repository.PurchaseRepo)(nil)
	_ paymentStore         = (*repository.PaymentRepo)(nil)
	_ emailStore           = (*repository.UserRepo)(nil)
)
