package catalog

import (
	"context"
	"time"

	"venuebook/internal/domain"
)

type VenueRepository interface {
	Create(ctx context.Context, v *domain.Venue) error
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	List(ctx context.Context, limit, offset int) ([]domain.Venue, error)
	UpsertPricingProfile(ctx context.Context, p *domain.VenuePricingProfile) error
	GetPricingProfile(ctx context.Context, venueID string) (*domain.VenuePricingProfile, error)
}

type DiscountRepository interface {
	Create(ctx context.Context, d *domain.Discount) error
	ListForVenue(ctx context.Context, venueID string) ([]domain.Discount, error)
	Delete(ctx context.Context, venueID, id string) error
}

type BookingRepository interface {
	RangesForDate(ctx context.Context, venueID string, date time.Time) ([]domain.BookedRange, error)
}
