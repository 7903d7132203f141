package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"venuebook/internal/config"
	"venuebook/internal/domain"
	"venuebook/internal/notification"
)

type Service struct {
	payments PaymentRepository
	bookings BookingRepository
	notifs   NotificationSender
	cfg      *config.PlatformConfig
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(
	payments PaymentRepository,
	bookings BookingRepository,
	notifs NotificationSender,
	cfg *config.PlatformConfig,
	log *logrus.Logger,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		payments: payments,
		bookings: bookings,
		notifs:   notifs,
		cfg:      cfg,
		log:      log,
		now:      now,
	}
}

// StartPayment opens a payment attempt against a booking's plan. The amount
// is taken from the plan, never from the request: first and full legs need an
// unpaid booking, the second leg needs a paid first installment.
func (s *Service) StartPayment(ctx context.Context, actorID string, req StartPaymentRequest) (*domain.Payment, error) {
	b, err := s.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return nil, domain.NewStateError("booking", "start_payment", string(b.Status))
	}

	pType := domain.PaymentType(req.Type)
	var amount float64
	switch pType {
	case domain.PaymentFirst:
		if b.PaymentStatus != domain.BookingPaymentUnpaid && b.PaymentStatus != domain.BookingPaymentFailed {
			return nil, domain.NewStateError("booking", "start_payment", string(b.PaymentStatus))
		}
		amount = b.PaymentPlan.FirstAmount
	case domain.PaymentSecond:
		if b.PaymentStatus != domain.BookingPaymentFirstPaid {
			return nil, domain.NewStateError("booking", "start_payment", string(b.PaymentStatus))
		}
		amount = b.PaymentPlan.FinalAmount
	case domain.PaymentFull:
		if b.PaymentStatus != domain.BookingPaymentUnpaid && b.PaymentStatus != domain.BookingPaymentFailed {
			return nil, domain.NewStateError("booking", "start_payment", string(b.PaymentStatus))
		}
		amount = b.Pricing.TotalForCustomer
	default:
		return nil, domain.NewValidationError("type", "unknown payment type: "+req.Type)
	}

	p, err := domain.NewPayment(uuid.NewString(), b.ID, pType, amount, actorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkProcessing records that the gateway accepted the attempt.
func (s *Service) MarkProcessing(ctx context.Context, paymentID, providerRef, actorID string) (*domain.Payment, error) {
	p, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	np, err := p.MarkProcessing(providerRef, actorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, &np); err != nil {
		return nil, err
	}
	return &np, nil
}

// HandleGatewayResult settles a payment from the provider callback and routes
// the outcome into the booking's payment-status axis.
func (s *Service) HandleGatewayResult(ctx context.Context, req GatewayResultRequest) (*domain.Payment, error) {
	p, err := s.getPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var np domain.Payment
	if req.Succeeded {
		np = *p
		// A callback may arrive before the processing acknowledgement.
		if np.Status == domain.PaymentPending {
			np, err = np.MarkProcessing(req.ProviderRef, "gateway", now)
			if err != nil {
				return nil, err
			}
		}
		np, err = np.Complete(req.ProviderRef, "gateway", now)
		if err != nil {
			return nil, err
		}
	} else {
		np, err = p.Fail(req.Reason, req.Code, "gateway", now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.payments.Save(ctx, &np); err != nil {
		return nil, err
	}

	if err := s.applyToBooking(ctx, &np, req.Succeeded); err != nil {
		// The payment is settled; the booking coupling is retried by ops.
		s.log.WithError(err).WithFields(logrus.Fields{
			"payment_id": np.ID,
			"booking_id": np.BookingID,
		}).Error("failed to propagate payment result to booking")
	}

	if s.notifs != nil {
		_ = s.notifs.PaymentSettled(ctx, notification.PaymentSettledEvent{
			PaymentID:  np.ID,
			BookingID:  np.BookingID,
			Type:       string(np.Type),
			Status:     string(np.Status),
			Amount:     np.Amount,
			OccurredAt: now,
		})
	}
	return &np, nil
}

func (s *Service) applyToBooking(ctx context.Context, p *domain.Payment, succeeded bool) error {
	b, err := s.getBooking(ctx, p.BookingID)
	if err != nil {
		return err
	}

	var status domain.BookingPaymentStatus
	switch {
	case !succeeded:
		status = domain.BookingPaymentFailed
	case p.Type == domain.PaymentFirst:
		status = domain.BookingPaymentFirstPaid
	default:
		status = domain.BookingPaymentFullyPaid
	}

	nb, err := b.UpdatePaymentStatus("payment-service", status, s.now())
	if err != nil {
		return err
	}
	return s.bookings.Save(ctx, &nb)
}

// CancelPayment aborts a not-yet-settled attempt.
func (s *Service) CancelPayment(ctx context.Context, paymentID, actorID string) (*domain.Payment, error) {
	p, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	b, err := s.getBooking(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actorID {
		return nil, ErrForbidden
	}

	np, err := p.Cancel(actorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, &np); err != nil {
		return nil, err
	}
	return &np, nil
}

// Refund applies a partial or full refund. Only the venue owner may issue one.
func (s *Service) Refund(ctx context.Context, paymentID, actorID string, req RefundRequest) (*domain.Payment, error) {
	p, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	b, err := s.getBooking(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != actorID {
		return nil, ErrForbidden
	}

	np, err := p.ProcessRefund(req.Amount, req.Reason, actorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, &np); err != nil {
		return nil, err
	}
	return &np, nil
}

func (s *Service) GetBookingPayments(ctx context.Context, bookingID, actorID string) ([]domain.Payment, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != b.CustomerID && actorID != b.OwnerID {
		return nil, ErrForbidden
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

// ExpirePending times out every pending payment older than the configured
// timeout. Returns how many were expired.
func (s *Service) ExpirePending(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-time.Duration(s.cfg.PaymentTimeoutHours) * time.Hour)
	rows, err := s.payments.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range rows {
		np, err := rows[i].Expire(s.cfg.PaymentTimeoutHours, now)
		if err != nil {
			continue
		}
		if err := s.payments.Save(ctx, &np); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// NotifySecondPaymentsDue emits a reminder for every booking handed to it
// whose final installment window is open. The caller supplies the candidate
// set; this keeps the booking repository out of this module's sweep path.
func (s *Service) NotifySecondPaymentsDue(ctx context.Context, bookings []domain.Booking) int {
	if s.notifs == nil {
		return 0
	}
	now := s.now()
	sent := 0
	for i := range bookings {
		b := bookings[i]
		if !b.IsSecondPaymentDue(now) {
			continue
		}
		_ = s.notifs.PaymentDue(ctx, notification.PaymentDueEvent{
			BookingID:  b.ID,
			CustomerID: b.CustomerID,
			Amount:     b.PaymentPlan.FinalAmount,
			DueDate:    b.PaymentPlan.FinalDueDate,
			Overdue:    b.IsSecondPaymentOverdue(now),
			OccurredAt: now,
		})
		sent++
	}
	return sent
}

func (s *Service) getPayment(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
