package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"venuebook/internal/config"
	"venuebook/internal/domain"
	"venuebook/internal/notification"
	"venuebook/internal/pricing"
)

type Service struct {
	bookings  BookingRepository
	venues    VenueRepository
	discounts DiscountRepository
	notifs    NotificationSender
	cfg       *config.PlatformConfig
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	venues VenueRepository,
	discounts DiscountRepository,
	notifs NotificationSender,
	cfg *config.PlatformConfig,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		bookings:  bookings,
		venues:    venues,
		discounts: discounts,
		notifs:    notifs,
		cfg:       cfg,
		now:       now,
	}
}

// Quote prices a request without reserving anything. The same pipeline runs
// again at creation time, so a quote is advisory, not a hold.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	slot, err := buildSlot(req.Type, req.EventDate, req.SlotID, req.SlotStart, req.SlotEnd)
	if err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, req.VenueID, req.EventDate, slot)
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{
		VenueID:   req.VenueID,
		EventDate: req.EventDate,
		Pricing:   quote.Breakdown,
		Plan:      quote.Plan,
	}, nil
}

// CreateBooking prices the request, runs the conflict pre-check and hands the
// final reservation to the repository, which re-checks inside a serializable
// transaction.
func (s *Service) CreateBooking(ctx context.Context, customerID string, req CreateBookingRequest) (*domain.Booking, error) {
	if customerID == "" {
		return nil, domain.NewValidationError("customer_id", "required")
	}
	now := s.now()
	if !req.EventDate.After(now) {
		return nil, domain.NewValidationError("event_date", "must be in the future")
	}

	slot, err := buildSlot(req.Type, req.EventDate, req.SlotID, req.SlotStart, req.SlotEnd)
	if err != nil {
		return nil, err
	}

	venue, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	// Fast pre-check before pricing; the repository repeats it atomically.
	existing, err := s.bookings.RangesForDate(ctx, req.VenueID, req.EventDate)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckConflict(req.VenueID, req.EventDate, slot, existing); err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, req.VenueID, req.EventDate, slot)
	if err != nil {
		return nil, err
	}

	bType := domain.BookingDaily
	if slot != nil {
		bType = domain.BookingHourly
	}
	b := domain.NewBooking(
		uuid.NewString(),
		req.VenueID,
		customerID,
		venue.OwnerID,
		bType,
		req.EventDate,
		slot,
		req.GuestCount,
		quote.Breakdown,
		quote.Plan,
		customerID,
		now,
	)

	if err := s.bookings.CreateIfAvailable(ctx, &b); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.BookingCreated(ctx, notification.BookingCreatedEvent{
			BookingID:  b.ID,
			VenueID:    b.VenueID,
			CustomerID: b.CustomerID,
			OwnerID:    b.OwnerID,
			EventDate:  b.EventDate,
			Total:      b.Pricing.TotalForCustomer,
			OccurredAt: now,
		})
	}
	return &b, nil
}

// Approve is owner-only: the actor must own the venue behind the booking.
func (s *Service) Approve(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	nb, err := b.Approve(actorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, &nb); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.BookingDecided(ctx, notification.BookingDecidedEvent{
			BookingID:  nb.ID,
			CustomerID: nb.CustomerID,
			Approved:   true,
			OccurredAt: nb.UpdatedAt,
		})
	}
	return &nb, nil
}

func (s *Service) Reject(ctx context.Context, bookingID, actorID, reason string) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	nb, err := b.Reject(actorID, reason, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, &nb); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.BookingDecided(ctx, notification.BookingDecidedEvent{
			BookingID:  nb.ID,
			CustomerID: nb.CustomerID,
			Approved:   false,
			Reason:     reason,
			OccurredAt: nb.UpdatedAt,
		})
	}
	return &nb, nil
}

// Cancel may be called by the customer or the venue owner. The policy window
// in the domain layer decides whether the cancellation is still allowed.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID, reason string) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != b.CustomerID && actorID != b.OwnerID {
		return nil, ErrForbidden
	}

	nb, err := b.Cancel(actorID, reason, s.cfg.BookingPolicy, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, &nb); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.BookingCancelled(ctx, notification.BookingCancelledEvent{
			BookingID:  nb.ID,
			VenueID:    nb.VenueID,
			CustomerID: nb.CustomerID,
			Actor:      actorID,
			OccurredAt: nb.UpdatedAt,
		})
	}
	return &nb, nil
}

// SetPaymentStatus routes payment outcomes into the booking lifecycle. It is
// called by the payment service, never by handlers directly.
func (s *Service) SetPaymentStatus(ctx context.Context, bookingID, actor string, status domain.BookingPaymentStatus) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	nb, err := b.UpdatePaymentStatus(actor, status, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, &nb); err != nil {
		return nil, err
	}
	return &nb, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != b.CustomerID && actorID != b.OwnerID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, customerID string, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) GetVenueBookings(ctx context.Context, venueID, actorID string) ([]domain.Booking, error) {
	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if venue.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByVenue(ctx, venueID)
}

// CompleteExpired moves every active booking whose event ended before the
// grace cutoff into the completed state. It returns how many were updated.
func (s *Service) CompleteExpired(ctx context.Context) (int, error) {
	now := s.now()
	rows, err := s.bookings.ListActiveEndedBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range rows {
		b := rows[i]
		if !b.IsExpired(now) {
			continue
		}
		nb, err := b.Complete("system", now)
		if err != nil {
			continue
		}
		if err := s.bookings.Save(ctx, &nb); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func (s *Service) price(ctx context.Context, venueID string, eventDate time.Time, slot *domain.TimeSlot) (*pricing.Quote, error) {
	profile, err := s.venues.GetPricingProfile(ctx, venueID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	discounts, err := s.discounts.ListForVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	commission := s.cfg.DefaultCommission
	if profile.CustomerCommissionPercent > 0 {
		commission.CustomerPercent = profile.CustomerCommissionPercent
	}
	if profile.OwnerCommissionPercent > 0 {
		commission.OwnerPercent = profile.OwnerCommissionPercent
	}

	req := pricing.QuoteRequest{
		EventDate: eventDate,
		FullDay:   slot == nil,
	}
	if slot != nil {
		req.SlotID = slot.SlotID
		req.DurationHours = slot.DurationHours()
	}

	quote, err := pricing.ComputeQuote(*profile, discounts, commission, s.cfg.CommissionBounds, s.cfg.PaymentPlan, req, s.now())
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *Service) get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return b, nil
}

func (s *Service) getOwned(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

// buildSlot validates the slot fields against the declared booking type.
// Daily bookings carry no slot; hourly bookings need a well-formed range
// inside the event date.
func buildSlot(bType string, eventDate time.Time, slotID string, start, end *time.Time) (*domain.TimeSlot, error) {
	if bType == string(domain.BookingDaily) {
		if start != nil || end != nil {
			return nil, domain.NewValidationError("slot", "daily bookings must not carry a time slot")
		}
		return nil, nil
	}

	if start == nil || end == nil {
		return nil, domain.NewValidationError("slot", "hourly bookings require slot_start and slot_end")
	}
	if !end.After(*start) {
		return nil, domain.NewValidationError("slot", "slot_end must be after slot_start")
	}
	sy, sm, sd := start.UTC().Date()
	ey, em, ed := eventDate.UTC().Date()
	if sy != ey || sm != em || sd != ed {
		return nil, domain.NewValidationError("slot", "slot must start on the event date")
	}
	return &domain.TimeSlot{SlotID: slotID, Start: *start, End: *end}, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
