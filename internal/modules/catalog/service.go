package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/validator"
)

type Service struct {
	venues    VenueRepository
	discounts DiscountRepository
	bookings  BookingRepository
	now       func() time.Time
}

func NewService(venues VenueRepository, discounts DiscountRepository, bookings BookingRepository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		venues:    venues,
		discounts: discounts,
		bookings:  bookings,
		now:       now,
	}
}

func (s *Service) CreateVenue(ctx context.Context, ownerID string, req CreateVenueRequest) (*domain.Venue, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "required")
	}
	now := s.now()
	v := domain.Venue{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Capacity:    req.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if violations := validator.Validate(v); violations != nil {
		for field, tag := range violations {
			return nil, domain.NewValidationError(field, "failed rule: "+tag)
		}
	}
	if err := s.venues.Create(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return v, nil
}

func (s *Service) ListVenues(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.venues.List(ctx, limit, offset)
}

// UpsertPricing replaces the venue's rate configuration. Day keys are parsed
// strictly: an unknown key fails the whole request.
func (s *Service) UpsertPricing(ctx context.Context, venueID, actorID string, req UpsertPricingRequest) (*domain.VenuePricingProfile, error) {
	if _, err := s.getOwned(ctx, venueID, actorID); err != nil {
		return nil, err
	}

	daily, err := parseDayMap(req.DailyPricing, "daily_pricing")
	if err != nil {
		return nil, err
	}
	hourly, err := parseDayMap(req.HourlyRatesByDay, "hourly_rates_by_day")
	if err != nil {
		return nil, err
	}

	profile := domain.VenuePricingProfile{
		VenueID:                   venueID,
		BasePrice:                 req.BasePrice,
		DailyPricing:              daily,
		HourlyRate:                req.HourlyRate,
		HourlyRatesByDay:          hourly,
		CustomerCommissionPercent: req.CustomerCommissionPercent,
		OwnerCommissionPercent:    req.OwnerCommissionPercent,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := s.venues.UpsertPricingProfile(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Service) GetPricing(ctx context.Context, venueID string) (*domain.VenuePricingProfile, error) {
	p, err := s.venues.GetPricingProfile(ctx, venueID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return p, nil
}

// AddDiscount validates the rule at authoring time so the pricing engine only
// ever has to skip records that decayed after the fact.
func (s *Service) AddDiscount(ctx context.Context, venueID, actorID string, req CreateDiscountRequest) (*domain.Discount, error) {
	if _, err := s.getOwned(ctx, venueID, actorID); err != nil {
		return nil, err
	}

	days := make(map[domain.DayOfWeek]bool, len(req.AppliesOnDays))
	for _, raw := range req.AppliesOnDays {
		day, err := domain.ParseDayOfWeek(raw)
		if err != nil {
			return nil, err
		}
		days[day] = true
	}
	if !req.AppliesToDaily && !req.AppliesToHourly {
		return nil, domain.NewValidationError("applies_to", "discount must apply to daily or hourly bookings")
	}

	d := domain.Discount{
		ID:                   uuid.NewString(),
		VenueID:              venueID,
		Percentage:           req.Percentage,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		AppliesOnDays:        days,
		AppliesToDaily:       req.AppliesToDaily,
		AppliesToHourly:      req.AppliesToHourly,
		EligibleSlotIDs:      req.EligibleSlotIDs,
		MinimumBookingAmount: req.MinimumBookingAmount,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.discounts.Create(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) ListDiscounts(ctx context.Context, venueID, actorID string) ([]domain.Discount, error) {
	if _, err := s.getOwned(ctx, venueID, actorID); err != nil {
		return nil, err
	}
	return s.discounts.ListForVenue(ctx, venueID)
}

func (s *Service) DeleteDiscount(ctx context.Context, venueID, discountID, actorID string) error {
	if _, err := s.getOwned(ctx, venueID, actorID); err != nil {
		return err
	}
	return s.discounts.Delete(ctx, venueID, discountID)
}

// GetAvailability returns the busy ranges for a venue and date so clients can
// render what is still bookable. Cancelled bookings are not busy.
func (s *Service) GetAvailability(ctx context.Context, venueID, dateStr string) (*AvailabilityResponse, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}
	if _, err := s.venues.GetByID(ctx, venueID); err != nil {
		return nil, translateNotFound(err)
	}

	ranges, err := s.bookings.RangesForDate(ctx, venueID, date)
	if err != nil {
		return nil, err
	}

	busy := make([]BusyRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Status == domain.BookingCancelled {
			continue
		}
		br := BusyRange{FullDay: r.FullDay, Status: string(r.Status)}
		if !r.FullDay {
			start, end := r.Start, r.End
			br.Start = &start
			br.End = &end
		}
		busy = append(busy, br)
	}
	return &AvailabilityResponse{
		VenueID:    venueID,
		Date:       dateStr,
		BusyRanges: busy,
	}, nil
}

func (s *Service) getOwned(ctx context.Context, venueID, actorID string) (*domain.Venue, error) {
	v, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if v.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return v, nil
}

func parseDayMap(raw map[string]float64, field string) (map[domain.DayOfWeek]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[domain.DayOfWeek]float64, len(raw))
	for k, v := range raw {
		day, err := domain.ParseDayOfWeek(k)
		if err != nil {
			return nil, domain.NewValidationError(field, "unknown day key: "+k)
		}
		out[day] = v
	}
	return out, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
