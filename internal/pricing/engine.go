// Package pricing turns a raw booking request into an auditable monetary
// breakdown. Every function is pure: "now" is always injected, nothing is
// persisted, and identical inputs produce identical output.
package pricing

import (
	"time"

	"venuebook/internal/domain"
)

const (
	firstPaymentPercentMin = 10
	firstPaymentPercentMax = 90

	// Hours assumed in a rentable day when a venue configures no hourly rate.
	hoursPerDayFallback = 8
)

// QuoteRequest is the pricing-relevant slice of a booking request.
type QuoteRequest struct {
	EventDate     time.Time
	FullDay       bool
	SlotID        string
	DurationHours float64
}

// Quote is the engine's complete output, attached to a booking at creation.
type Quote struct {
	Breakdown domain.PricingBreakdown
	Plan      domain.PaymentPlan
}

// ResolveBasePrice picks the rate for the requested date and booking type.
// Daily bookings use the day-of-week override when present, else the flat
// base price. Hourly bookings require a positive duration and fall back from
// the per-day hourly override, to the flat hourly rate, to dailyPrice/8.
func ResolveBasePrice(profile domain.VenuePricingProfile, date time.Time, fullDay bool, durationHours float64) (float64, error) {
	day := domain.DayOfWeekFromTime(date)

	dailyPrice := profile.BasePrice
	if override, ok := profile.DailyPricing[day]; ok {
		dailyPrice = override
	}

	if fullDay {
		return domain.Round2(dailyPrice), nil
	}

	if durationHours <= 0 {
		return 0, domain.NewValidationError("duration_hours", "hourly booking requires a positive duration")
	}
	rate := dailyPrice / hoursPerDayFallback
	if profile.HourlyRate > 0 {
		rate = profile.HourlyRate
	}
	if override, ok := profile.HourlyRatesByDay[day]; ok {
		rate = override
	}
	return domain.Round2(rate * durationHours), nil
}

// SelectBestDiscount filters the eligible discounts and applies the one with
// the highest percentage. Malformed records are skipped, never fatal. On an
// empty eligible set the base price is returned unchanged with no discount.
// Discounts never stack.
func SelectBestDiscount(basePrice float64, date time.Time, fullDay bool, slotID string, discounts []domain.Discount) (float64, *domain.Discount) {
	day := domain.DayOfWeekFromTime(date)

	var best *domain.Discount
	for i := range discounts {
		d := discounts[i]
		if d.Validate() != nil {
			continue
		}
		if !d.ActiveOn(date) || !d.AppliesOn(day) {
			continue
		}
		if fullDay && !d.AppliesToDaily {
			continue
		}
		if !fullDay && !d.AppliesToHourly {
			continue
		}
		// A full-day request carries no slot id, so a slot-restricted
		// discount can never match it.
		if !d.SlotEligible(slotID) {
			continue
		}
		if d.MinimumBookingAmount > 0 && basePrice < d.MinimumBookingAmount {
			continue
		}
		if best == nil || d.Percentage > best.Percentage {
			best = &discounts[i]
		}
	}
	if best == nil {
		return basePrice, nil
	}
	return domain.Round2(basePrice * (100 - best.Percentage) / 100), best
}

// SplitCommission clamps both percentages into the platform bounds and
// produces the published commission amounts. Rounding is applied once, at
// each published amount, never on intermediate ratios.
func SplitCommission(subtotal, customerPct, ownerPct float64, bounds domain.CommissionBounds) domain.CommissionSplit {
	customerPct = clamp(customerPct, bounds.Min, bounds.Max)
	ownerPct = clamp(ownerPct, bounds.Min, bounds.Max)

	customerCommission := domain.Round2(subtotal * customerPct / 100)
	ownerCommission := domain.Round2(subtotal * ownerPct / 100)
	return domain.CommissionSplit{
		CustomerCommission: customerCommission,
		OwnerCommission:    ownerCommission,
		TotalForCustomer:   domain.Round2(subtotal + customerCommission),
		OwnerEarnings:      domain.Round2(subtotal - ownerCommission),
		PlatformEarnings:   domain.Round2(customerCommission + ownerCommission),
	}
}

// BuildPaymentPlan splits the total into two legs. The final leg is derived
// by subtraction so the two always sum to the total exactly; the final due
// date never lands in the past.
func BuildPaymentPlan(total float64, eventDate time.Time, cfg domain.PaymentPlanConfig, now time.Time) domain.PaymentPlan {
	firstPct := clamp(cfg.FirstPaymentPercent, firstPaymentPercentMin, firstPaymentPercentMax)

	firstAmount := domain.Round2(total * firstPct / 100)
	finalAmount := domain.Round2(domain.Round2(total) - firstAmount)

	finalDue := eventDate.AddDate(0, 0, -cfg.DaysBeforeEventForFinalPayment)
	if finalDue.Before(now) {
		finalDue = now
	}
	return domain.PaymentPlan{
		FirstAmount:     firstAmount,
		FinalAmount:     finalAmount,
		FirstDueDate:    now,
		FinalDueDate:    finalDue,
		DaysBeforeFinal: cfg.DaysBeforeEventForFinalPayment,
	}
}

// ComputeQuote orchestrates the pipeline in fixed order: base price,
// discount, commission split, payment plan.
func ComputeQuote(
	profile domain.VenuePricingProfile,
	discounts []domain.Discount,
	commission domain.CommissionProfile,
	bounds domain.CommissionBounds,
	planCfg domain.PaymentPlanConfig,
	req QuoteRequest,
	now time.Time,
) (Quote, error) {
	if err := profile.Validate(); err != nil {
		return Quote{}, err
	}

	basePrice, err := ResolveBasePrice(profile, req.EventDate, req.FullDay, req.DurationHours)
	if err != nil {
		return Quote{}, err
	}

	subtotal, chosen := SelectBestDiscount(basePrice, req.EventDate, req.FullDay, req.SlotID, discounts)
	split := SplitCommission(subtotal, commission.CustomerPercent, commission.OwnerPercent, bounds)
	plan := BuildPaymentPlan(split.TotalForCustomer, req.EventDate, planCfg, now)

	breakdown := domain.PricingBreakdown{
		BasePrice:                basePrice,
		DiscountedSubtotal:       subtotal,
		CustomerCommissionAmount: split.CustomerCommission,
		OwnerCommissionAmount:    split.OwnerCommission,
		TotalForCustomer:         split.TotalForCustomer,
		OwnerEarnings:            split.OwnerEarnings,
		PlatformEarnings:         split.PlatformEarnings,
	}
	if chosen != nil {
		breakdown.DiscountID = chosen.ID
		breakdown.DiscountPercent = chosen.Percentage
	}
	return Quote{Breakdown: breakdown, Plan: plan}, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
