package domain

import "time"

type Venue struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	City        string    `json:"city,omitempty"`
	Capacity    int       `json:"capacity" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VenuePricingProfile holds the owner-configured rates for a venue.
// Day-keyed overrides take precedence over the flat rates.
type VenuePricingProfile struct {
	VenueID          string                `json:"venue_id"`
	BasePrice        float64               `json:"base_price"`
	DailyPricing     map[DayOfWeek]float64 `json:"daily_pricing,omitempty"`
	HourlyRate       float64               `json:"hourly_rate,omitempty"`
	HourlyRatesByDay map[DayOfWeek]float64 `json:"hourly_rates_by_day,omitempty"`

	// Commission percentages for this venue; zero means "use platform default".
	CustomerCommissionPercent float64 `json:"customer_commission_percent,omitempty"`
	OwnerCommissionPercent    float64 `json:"owner_commission_percent,omitempty"`
}

// Validate enforces the rate invariant: every configured rate must be positive.
func (p VenuePricingProfile) Validate() error {
	if p.BasePrice <= 0 {
		return NewValidationError("base_price", "must be greater than zero")
	}
	for day, price := range p.DailyPricing {
		if !day.Valid() {
			return NewValidationError("daily_pricing", "unknown day key: "+string(day))
		}
		if price <= 0 {
			return NewValidationError("daily_pricing."+string(day), "must be greater than zero")
		}
	}
	if p.HourlyRate < 0 {
		return NewValidationError("hourly_rate", "must not be negative")
	}
	for day, rate := range p.HourlyRatesByDay {
		if !day.Valid() {
			return NewValidationError("hourly_rates_by_day", "unknown day key: "+string(day))
		}
		if rate <= 0 {
			return NewValidationError("hourly_rates_by_day."+string(day), "must be greater than zero")
		}
	}
	return nil
}
