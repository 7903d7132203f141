package domain

import "time"

// Discount is a percentage-off rule authored by the venue owner.
// The pricing engine only reads discounts, it never mutates them.
type Discount struct {
	ID                   string             `json:"id"`
	VenueID              string             `json:"venue_id"`
	Percentage           float64            `json:"percentage"`
	StartDate            time.Time          `json:"start_date"`
	EndDate              time.Time          `json:"end_date"`
	AppliesOnDays        map[DayOfWeek]bool `json:"applies_on_days"`
	AppliesToDaily       bool               `json:"applies_to_daily"`
	AppliesToHourly      bool               `json:"applies_to_hourly"`
	EligibleSlotIDs      []string           `json:"eligible_slot_ids,omitempty"`
	MinimumBookingAmount float64            `json:"minimum_booking_amount,omitempty"`
}

// Validate is applied at authoring time and again by the pricing engine,
// which skips malformed records instead of failing the whole quote.
func (d Discount) Validate() error {
	if d.Percentage < 0 || d.Percentage > 100 {
		return NewValidationError("percentage", "must be within [0,100]")
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return NewValidationError("dates", "start and end dates are required")
	}
	if d.EndDate.Before(d.StartDate) {
		return NewValidationError("end_date", "must not be before start_date")
	}
	for day := range d.AppliesOnDays {
		if !day.Valid() {
			return NewValidationError("applies_on_days", "unknown day key: "+string(day))
		}
	}
	if d.MinimumBookingAmount < 0 {
		return NewValidationError("minimum_booking_amount", "must not be negative")
	}
	return nil
}

// ActiveOn reports whether date falls within [StartDate, EndDate], inclusive
// on both ends. Comparison is by calendar day.
func (d Discount) ActiveOn(date time.Time) bool {
	day := truncateToDay(date)
	return !day.Before(truncateToDay(d.StartDate)) && !day.After(truncateToDay(d.EndDate))
}

func (d Discount) AppliesOn(day DayOfWeek) bool {
	return d.AppliesOnDays[day]
}

// RestrictedToSlots reports whether the discount only applies to named slots.
func (d Discount) RestrictedToSlots() bool {
	return len(d.EligibleSlotIDs) > 0
}

func (d Discount) SlotEligible(slotID string) bool {
	if !d.RestrictedToSlots() {
		return true
	}
	for _, id := range d.EligibleSlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
