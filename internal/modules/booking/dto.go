package booking

import (
	"time"

	"venuebook/internal/domain"
)

type QuoteRequest struct {
	VenueID   string     `json:"venue_id" binding:"required"`
	Type      string     `json:"type" binding:"required,oneof=daily hourly"`
	EventDate time.Time  `json:"event_date" binding:"required"`
	SlotID    string     `json:"slot_id"`
	SlotStart *time.Time `json:"slot_start"`
	SlotEnd   *time.Time `json:"slot_end"`
}

type QuoteResponse struct {
	VenueID   string                  `json:"venue_id"`
	EventDate time.Time               `json:"event_date"`
	Pricing   domain.PricingBreakdown `json:"pricing"`
	Plan      domain.PaymentPlan      `json:"payment_plan"`
}

type CreateBookingRequest struct {
	VenueID    string     `json:"venue_id" binding:"required"`
	Type       string     `json:"type" binding:"required,oneof=daily hourly"`
	EventDate  time.Time  `json:"event_date" binding:"required"`
	SlotID     string     `json:"slot_id"`
	SlotStart  *time.Time `json:"slot_start"`
	SlotEnd    *time.Time `json:"slot_end"`
	GuestCount int        `json:"guest_count" binding:"gte=0"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}
