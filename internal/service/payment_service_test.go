package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/queue"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/repository"
)

func validCard() Card {
	return Card{Number: "4242424242424242", Holder: "J DOE", ExpMonth: 12, ExpYear: time.Now().Year() + 1, CVC: "123"}
}

type paymentMocks struct {
	payments  *mockPaymentStore
	purchases *mockPurchaseStore
	tickets   *mockTicketStore
	users     *mockUserStore
	notifier  *mockNotifier
}

func newPaymentService() (*PaymentService, paymentMocks) {
	m := paymentMocks{
		payments:  new(mockPaymentStore),
		purchases: new(mockPurchaseStore),
		tickets:   new(mockTicketStore),
		users:     new(mockUserStore),
		notifier:  new(mockNotifier),
	}
	svc := NewPaymentService(m.payments, m.purchases, m.tickets, m.users, fakeTx{}, m.notifier)
	return svc, m
}

func TestCardValidate(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, Card{Number: "4242424242424242", Holder: "J DOE", ExpMonth: 9, ExpYear: 2026, CVC: "123"}.Validate(now))

	bad := []Card{
		{Number: "", Holder: "J", ExpMonth: 9, ExpYear: 2026, CVC: "123"},
		{Number: "4242abc", Holder: "J", ExpMonth: 9, ExpYear: 2026, CVC: "123"},
		{Number: "42424242424242424242", Holder: "J", ExpMonth: 9, ExpYear: 2026, CVC: "123"}, // 20 digits
		{Number: "4242424242424242", Holder: "", ExpMonth: 9, ExpYear: 2026, CVC: "123"},
		{Number: "4242424242424242", Holder: "J", ExpMonth: 13, ExpYear: 2026, CVC: "123"},
		{Number: "4242424242424242", Holder: "J", ExpMonth: 7, ExpYear: 2026, CVC: "123"}, // expired last month
		{Number: "4242424242424242", Holder: "J", ExpMonth: 9, ExpYear: 2025, CVC: "123"},
		{Number: "4242424242424242", Holder: "J", ExpMonth: 9, ExpYear: 2026, CVC: "12"},
	}
	for i, c := range bad {
		assert.ErrorIs(t, c.Validate(now), repository.ErrInvalidArgument, "case %d", i)
	}
}

func TestProcessSettlesPurchase(t *testing.T) {
	svc, m := newPaymentService()

	purchase := model.Purchase{
		ID: 77, ClientID: 42, TicketIDs: []uint64{1, 2}, TotalCents: 2500,
		Status: model.PurchasePending,
	}
	m.purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(purchase, nil)
	m.payments.On("CreateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
		return p.PurchaseID == 77 && p.ClientID == 42 &&
			p.Status == model.PaymentSuccess && p.Reference != ""
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*model.Payment).ID = 5
	}).Return(nil)
	m.tickets.On("MarkSoldTx", mock.Anything, mock.Anything, []uint64{1, 2}).Return(nil)
	m.purchases.On("UpdateStatusTx", mock.Anything, mock.Anything, uint64(77),
		model.PurchasePending, model.PurchasePaid).Return(true, nil)
	m.users.On("GetByID", mock.Anything, uint64(42)).
		Return(model.User{ID: 42, Email: "jdoe@example.com"}, nil)
	m.notifier.On("PurchaseConfirmed", mock.Anything, mock.MatchedBy(func(ev queue.PurchaseConfirmedEvent) bool {
		return ev.PurchaseID == 77 && ev.PaymentID == 5 && ev.Email == "jdoe@example.com" &&
			ev.TotalCents == 2500 && len(ev.TicketIDs) == 2
	})).Return(nil)

	got, err := svc.Process(context.Background(), 42, 77, validCard())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.ID)
	assert.Equal(t, model.PaymentSuccess, got.Status)
	assert.NotEmpty(t, got.Reference)
	m.tickets.AssertExpectations(t)
	m.purchases.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
}

func TestProcessRejectsBadCardBeforeTouchingStores(t *testing.T) {
	svc, m := newPaymentService()

	_, err := svc.Process(context.Background(), 42, 77, Card{})
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
	m.purchases.AssertNotCalled(t, "GetTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessNotFoundForForeignPurchase(t *testing.T) {
	svc, m := newPaymentService()

	// Ownership failures read as not-found so ids are not probeable.
	m.purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(model.Purchase{
		ID: 77, ClientID: 7, Status: model.PurchasePending,
	}, nil)

	_, err := svc.Process(context.Background(), 42, 77, validCard())
	assert.ErrorIs(t, err, repository.ErrPurchaseNotFound)
	m.payments.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessConflictWhenAlreadySettled(t *testing.T) {
	for _, status := range []model.PurchaseStatus{model.PurchasePaid, model.PurchaseCancelled} {
		svc, m := newPaymentService()

		m.purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(model.Purchase{
			ID: 77, ClientID: 42, Status: status,
		}, nil)

		_, err := svc.Process(context.Background(), 42, 77, validCard())
		assert.ErrorIs(t, err, repository.ErrConflict, "status %s", status)
		m.tickets.AssertNotCalled(t, "MarkSoldTx", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestProcessSucceedsWhenPublishFails(t *testing.T) {
	svc, m := newPaymentService()

	purchase := model.Purchase{
		ID: 77, ClientID: 42, TicketIDs: []uint64{1}, Status: model.PurchasePending,
	}
	m.purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(purchase, nil)
	m.payments.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.tickets.On("MarkSoldTx", mock.Anything, mock.Anything, []uint64{1}).Return(nil)
	m.purchases.On("UpdateStatusTx", mock.Anything, mock.Anything, uint64(77),
		model.PurchasePending, model.PurchasePaid).Return(true, nil)
	m.users.On("GetByID", mock.Anything, uint64(42)).Return(model.User{ID: 42}, nil)
	m.notifier.On("PurchaseConfirmed", mock.Anything, mock.Anything).
		Return(errors.New("broker down"))

	_, err := svc.Process(context.Background(), 42, 77, validCard())
	assert.NoError(t, err)
}

func TestProcessRollsBackWhenTicketFlipFails(t *testing.T) {
	svc, m := newPaymentService()

	m.purchases.On("GetTx", mock.Anything, mock.Anything, uint64(77)).Return(model.Purchase{
		ID: 77, ClientID: 42, TicketIDs: []uint64{1}, Status: model.PurchasePending,
	}, nil)
	m.payments.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.tickets.On("MarkSoldTx", mock.Anything, mock.Anything, []uint64{1}).
		Return(errors.New("deadlock"))

	_, err := svc.Process(context.Background(), 42, 77, validCard())
	assert.Error(t, err)
	m.purchases.AssertNotCalled(t, "UpdateStatusTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "PurchaseConfirmed", mock.Anything, mock.Anything)
}

func TestGetStatus(t *testing.T) {
	svc, m := newPaymentService()

	want := model.Payment{ID: 5, Reference: "ref", Status: model.PaymentSuccess}
	m.payments.On("GetByID", mock.Anything, uint64(5)).Return(want, nil)

	got, err := svc.GetStatus(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
