package payment

import (
	"context"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/notification"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	Save(ctx context.Context, p *domain.Payment) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error)
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, b *domain.Booking) error
}

type NotificationSender interface {
	PaymentSettled(ctx context.Context, ev notification.PaymentSettledEvent) error
	PaymentDue(ctx context.Context, ev notification.PaymentDueEvent) error
}
