package payment

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"venuebook/internal/config"
	"venuebook/internal/domain"
	"venuebook/internal/notification"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) PaymentSettled(ctx context.Context, ev notification.PaymentSettledEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockNotificationSender) PaymentDue(ctx context.Context, ev notification.PaymentDueEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testConfig() *config.PlatformConfig {
	return &config.PlatformConfig{
		CommissionBounds:    domain.CommissionBounds{Min: 1, Max: 15},
		DefaultCommission:   domain.CommissionProfile{CustomerPercent: 5, OwnerPercent: 3},
		BookingPolicy:       domain.BookingPolicy{MinCancellationHours: 24, MinModificationHours: 48},
		PaymentTimeoutHours: 24,
	}
}

func newTestService(payments *MockPaymentRepository, bookings *MockBookingRepository, notifs *MockNotificationSender) *Service {
	var sender NotificationSender
	if notifs != nil {
		sender = notifs
	}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(payments, bookings, sender, testConfig(), log, func() time.Time { return testNow })
}

func testBooking() domain.Booking {
	plan := domain.PaymentPlan{
		FirstAmount:     56.70,
		FinalAmount:     56.70,
		FirstDueDate:    testNow,
		FinalDueDate:    testNow.AddDate(0, 0, 20),
		DaysBeforeFinal: 7,
	}
	pricing := domain.PricingBreakdown{TotalForCustomer: 113.40}
	return domain.NewBooking("bk-1", "venue-1", "cust-1", "owner-1", domain.BookingDaily,
		testNow.AddDate(0, 0, 27), nil, 0, pricing, plan, "cust-1", testNow)
}

func TestService_StartPayment_FirstLegUsesPlanAmount(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)

	b := testBooking()
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)
	mockPayments.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockPayments, mockBookings, nil)

	p, err := service.StartPayment(context.Background(), "cust-1", StartPaymentRequest{
		BookingID: "bk-1",
		Type:      "first",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, domain.PaymentFirst, p.Type)
	assert.Equal(t, 56.70, p.Amount)
	mockPayments.AssertExpectations(t)
}

func TestService_StartPayment_SecondLegRequiresFirstPaid(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)

	b := testBooking() // payment status still unpaid
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)

	service := newTestService(mockPayments, mockBookings, nil)

	_, err := service.StartPayment(context.Background(), "cust-1", StartPaymentRequest{
		BookingID: "bk-1",
		Type:      "second",
	})

	var stateErr *domain.StateError
	assert.ErrorAs(t, err, &stateErr)
	mockPayments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_StartPayment_ForbiddenForOtherUser(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)

	b := testBooking()
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)

	service := newTestService(mockPayments, mockBookings, nil)

	_, err := service.StartPayment(context.Background(), "intruder", StartPaymentRequest{
		BookingID: "bk-1",
		Type:      "first",
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_HandleGatewayResult_FirstPaymentSuccess(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	p, err := domain.NewPayment("pay-1", "bk-1", domain.PaymentFirst, 56.70, "cust-1", testNow.Add(-time.Hour))
	assert.NoError(t, err)

	b := testBooking()
	mockPayments.On("GetByID", mock.Anything, "pay-1").Return(&p, nil)
	mockPayments.On("Save", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)
	mockBookings.On("Save", mock.Anything, mock.MatchedBy(func(nb *domain.Booking) bool {
		return nb.PaymentStatus == domain.BookingPaymentFirstPaid &&
			nb.Status == domain.BookingPaymentPending
	})).Return(nil)
	mockNotifs.On("PaymentSettled", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockPayments, mockBookings, mockNotifs)

	np, err := service.HandleGatewayResult(context.Background(), GatewayResultRequest{
		PaymentID:   "pay-1",
		ProviderRef: "prov-77",
		Succeeded:   true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, np.Status)
	assert.Equal(t, "prov-77", np.ProviderRef)
	mockBookings.AssertExpectations(t)
	mockNotifs.AssertExpectations(t)
}

func TestService_HandleGatewayResult_FullPaymentConfirmsBooking(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)
	mockNotifs := new(MockNotificationSender)

	p, err := domain.NewPayment("pay-1", "bk-1", domain.PaymentFull, 113.40, "cust-1", testNow.Add(-time.Hour))
	assert.NoError(t, err)

	b := testBooking()
	mockPayments.On("GetByID", mock.Anything, "pay-1").Return(&p, nil)
	mockPayments.On("Save", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)
	mockBookings.On("Save", mock.Anything, mock.MatchedBy(func(nb *domain.Booking) bool {
		return nb.PaymentStatus == domain.BookingPaymentFullyPaid &&
			nb.Status == domain.BookingConfirmed
	})).Return(nil)
	mockNotifs.On("PaymentSettled", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(mockPayments, mockBookings, mockNotifs)

	np, err := service.HandleGatewayResult(context.Background(), GatewayResultRequest{
		PaymentID: "pay-1",
		Succeeded: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, np.Status)
	mockBookings.AssertExpectations(t)
}

func TestService_HandleGatewayResult_FailureMarksBooking(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)

	p, err := domain.NewPayment("pay-1", "bk-1", domain.PaymentFirst, 56.70, "cust-1", testNow.Add(-time.Hour))
	assert.NoError(t, err)

	b := testBooking()
	mockPayments.On("GetByID", mock.Anything, "pay-1").Return(&p, nil)
	mockPayments.On("Save", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)
	mockBookings.On("Save", mock.Anything, mock.MatchedBy(func(nb *domain.Booking) bool {
		return nb.PaymentStatus == domain.BookingPaymentFailed
	})).Return(nil)

	service := newTestService(mockPayments, mockBookings, nil)

	np, err := service.HandleGatewayResult(context.Background(), GatewayResultRequest{
		PaymentID: "pay-1",
		Succeeded: false,
		Reason:    "card declined",
		Code:      "card_declined",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, np.Status)
	assert.Equal(t, "card declined", np.FailureReason)
	mockBookings.AssertExpectations(t)
}

func TestService_Refund_OwnerOnly(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)

	p, err := domain.NewPayment("pay-1", "bk-1", domain.PaymentFull, 113.40, "cust-1", testNow.Add(-time.Hour))
	assert.NoError(t, err)
	p, err = p.MarkProcessing("prov-1", "gateway", testNow.Add(-30*time.Minute))
	assert.NoError(t, err)
	p, err = p.Complete("prov-1", "gateway", testNow.Add(-20*time.Minute))
	assert.NoError(t, err)

	b := testBooking()
	mockPayments.On("GetByID", mock.Anything, "pay-1").Return(&p, nil)
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(&b, nil)

	service := newTestService(mockPayments, mockBookings, nil)

	_, err = service.Refund(context.Background(), "pay-1", "cust-1", RefundRequest{Amount: 50, Reason: "goodwill"})
	assert.ErrorIs(t, err, ErrForbidden)

	mockPayments.On("Save", mock.Anything, mock.Anything).Return(nil)
	np, err := service.Refund(context.Background(), "pay-1", "owner-1", RefundRequest{Amount: 50, Reason: "goodwill"})
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, np.Status)
	assert.Equal(t, 50.0, np.RefundAmount)
}

func TestService_ExpirePending(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockBookings := new(MockBookingRepository)

	stale, err := domain.NewPayment("pay-old", "bk-1", domain.PaymentFirst, 56.70, "cust-1", testNow.Add(-30*time.Hour))
	assert.NoError(t, err)

	mockPayments.On("ListPendingCreatedBefore", mock.Anything, testNow.Add(-24*time.Hour)).
		Return([]domain.Payment{stale}, nil)
	mockPayments.On("Save", mock.Anything, mock.MatchedBy(func(np *domain.Payment) bool {
		return np.Status == domain.PaymentExpired
	})).Return(nil)

	service := newTestService(mockPayments, mockBookings, nil)

	n, err := service.ExpirePending(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	mockPayments.AssertExpectations(t)
}

func TestService_NotifySecondPaymentsDue(t *testing.T) {
	mockNotifs := new(MockNotificationSender)
	mockNotifs.On("PaymentDue", mock.Anything, mock.MatchedBy(func(ev notification.PaymentDueEvent) bool {
		return ev.BookingID == "bk-1" && ev.Amount == 56.70
	})).Return(nil)

	service := newTestService(new(MockPaymentRepository), new(MockBookingRepository), mockNotifs)

	b := testBooking()
	nb, err := b.UpdatePaymentStatus("payment-service", domain.BookingPaymentFirstPaid, testNow)
	assert.NoError(t, err)
	nb.EventDate = testNow.AddDate(0, 0, 5) // inside the final-payment window

	sent := service.NotifySecondPaymentsDue(context.Background(), []domain.Booking{nb})

	assert.Equal(t, 1, sent)
	mockNotifs.AssertExpectations(t)
}
