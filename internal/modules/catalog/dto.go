package catalog

import "time"

type CreateVenueRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	City        string `json:"city"`
	Capacity    int    `json:"capacity" binding:"gte=0"`
}

// UpsertPricingRequest carries the owner's rate configuration. Day maps are
// keyed by lowercase English day names; unknown keys fail the request.
type UpsertPricingRequest struct {
	BasePrice                 float64            `json:"base_price" binding:"required,gt=0"`
	DailyPricing              map[string]float64 `json:"daily_pricing"`
	HourlyRate                float64            `json:"hourly_rate" binding:"gte=0"`
	HourlyRatesByDay          map[string]float64 `json:"hourly_rates_by_day"`
	CustomerCommissionPercent float64            `json:"customer_commission_percent" binding:"gte=0"`
	OwnerCommissionPercent    float64            `json:"owner_commission_percent" binding:"gte=0"`
}

type CreateDiscountRequest struct {
	Percentage           float64   `json:"percentage" binding:"required,gt=0,lte=100"`
	StartDate            time.Time `json:"start_date" binding:"required"`
	EndDate              time.Time `json:"end_date" binding:"required"`
	AppliesOnDays        []string  `json:"applies_on_days" binding:"required,min=1"`
	AppliesToDaily       bool      `json:"applies_to_daily"`
	AppliesToHourly      bool      `json:"applies_to_hourly"`
	EligibleSlotIDs      []string  `json:"eligible_slot_ids"`
	MinimumBookingAmount float64   `json:"minimum_booking_amount" binding:"gte=0"`
}

type BusyRange struct {
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
	FullDay bool       `json:"full_day"`
	Status  string     `json:"status"`
}

type AvailabilityResponse struct {
	VenueID    string      `json:"venue_id"`
	Date       string      `json:"date"`
	BusyRanges []BusyRange `json:"busy_ranges"`
}
