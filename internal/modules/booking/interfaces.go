package booking

import (
	"context"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/notification"
)

// BookingRepository is the persistence surface the service depends on.
type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, b *domain.Booking) error
	RangesForDate(ctx context.Context, venueID string, date time.Time) ([]domain.BookedRange, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Booking, error)
	ListByVenue(ctx context.Context, venueID string) ([]domain.Booking, error)
	ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

// VenueRepository resolves the venue and its owner-configured rates.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	GetPricingProfile(ctx context.Context, venueID string) (*domain.VenuePricingProfile, error)
}

type DiscountRepository interface {
	ListForVenue(ctx context.Context, venueID string) ([]domain.Discount, error)
}

// NotificationSender delivers lifecycle events. Failures never abort the
// operation that triggered them.
type NotificationSender interface {
	BookingCreated(ctx context.Context, ev notification.BookingCreatedEvent) error
	BookingDecided(ctx context.Context, ev notification.BookingDecidedEvent) error
	BookingCancelled(ctx context.Context, ev notification.BookingCancelledEvent) error
}
