package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"venuebook/internal/domain"
)

var defaultBounds = domain.CommissionBounds{Min: 1, Max: 15}

func fridayProfile() domain.VenuePricingProfile {
	return domain.VenuePricingProfile{
		VenueID:   "venue-1",
		BasePrice: 100,
		DailyPricing: map[domain.DayOfWeek]float64{
			domain.Friday: 120,
		},
	}
}

// Full pipeline scenario: Friday override, 10% Friday discount, 5%/3%
// commissions, 60% first payment.
func TestComputeQuote_FridayScenario(t *testing.T) {
	now := time.Date(2024, 12, 4, 10, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC) // a Friday, 30 days out

	discounts := []domain.Discount{{
		ID:              "disc-friday",
		VenueID:         "venue-1",
		Percentage:      10,
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		AppliesOnDays:   map[domain.DayOfWeek]bool{domain.Friday: true},
		AppliesToDaily:  true,
		AppliesToHourly: false,
	}}

	quote, err := ComputeQuote(
		fridayProfile(),
		discounts,
		domain.CommissionProfile{CustomerPercent: 5, OwnerPercent: 3},
		defaultBounds,
		domain.PaymentPlanConfig{FirstPaymentPercent: 60, DaysBeforeEventForFinalPayment: 7},
		QuoteRequest{EventDate: eventDate, FullDay: true},
		now,
	)

	assert.NoError(t, err)
	assert.Equal(t, 120.0, quote.Breakdown.BasePrice)
	assert.Equal(t, "disc-friday", quote.Breakdown.DiscountID)
	assert.Equal(t, 108.0, quote.Breakdown.DiscountedSubtotal)
	assert.Equal(t, 5.40, quote.Breakdown.CustomerCommissionAmount)
	assert.Equal(t, 3.24, quote.Breakdown.OwnerCommissionAmount)
	assert.Equal(t, 113.40, quote.Breakdown.TotalForCustomer)
	assert.Equal(t, 104.76, quote.Breakdown.OwnerEarnings)
	assert.Equal(t, 8.64, quote.Breakdown.PlatformEarnings)

	assert.Equal(t, 68.04, quote.Plan.FirstAmount)
	assert.Equal(t, 45.36, quote.Plan.FinalAmount)
	assert.InDelta(t, quote.Breakdown.TotalForCustomer, quote.Plan.FirstAmount+quote.Plan.FinalAmount, 1e-9)
	assert.Equal(t, now, quote.Plan.FirstDueDate)
	assert.Equal(t, eventDate.AddDate(0, 0, -7), quote.Plan.FinalDueDate)
}

func TestComputeQuote_Deterministic(t *testing.T) {
	now := time.Date(2024, 12, 4, 10, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	req := QuoteRequest{EventDate: eventDate, FullDay: true}
	commission := domain.CommissionProfile{CustomerPercent: 5, OwnerPercent: 3}
	planCfg := domain.PaymentPlanConfig{FirstPaymentPercent: 60, DaysBeforeEventForFinalPayment: 7}

	first, err1 := ComputeQuote(fridayProfile(), nil, commission, defaultBounds, planCfg, req, now)
	second, err2 := ComputeQuote(fridayProfile(), nil, commission, defaultBounds, planCfg, req, now)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestResolveBasePrice_DailyOverride(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	price, err := ResolveBasePrice(fridayProfile(), friday, true, 0)
	assert.NoError(t, err)
	assert.Equal(t, 120.0, price)

	price, err = ResolveBasePrice(fridayProfile(), monday, true, 0)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, price)
}

func TestResolveBasePrice_HourlyRequiresDuration(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	_, err := ResolveBasePrice(fridayProfile(), date, false, 0)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestResolveBasePrice_HourlyFallbackChain(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	// No hourly rate configured: daily price / 8.
	price, err := ResolveBasePrice(fridayProfile(), monday, false, 4)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, price) // 100/8 * 4

	// Flat hourly rate takes precedence over the fallback.
	profile := fridayProfile()
	profile.HourlyRate = 20
	price, err = ResolveBasePrice(profile, monday, false, 4)
	assert.NoError(t, err)
	assert.Equal(t, 80.0, price)

	// Per-day override wins over the flat rate.
	profile.HourlyRatesByDay = map[domain.DayOfWeek]float64{domain.Monday: 30}
	price, err = ResolveBasePrice(profile, monday, false, 4)
	assert.NoError(t, err)
	assert.Equal(t, 120.0, price)
}

func TestSelectBestDiscount_PicksHighestPercentage(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	window := func(pct float64, id string) domain.Discount {
		return domain.Discount{
			ID:             id,
			Percentage:     pct,
			StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			AppliesOnDays:  map[domain.DayOfWeek]bool{domain.Friday: true},
			AppliesToDaily: true,
		}
	}
	discounts := []domain.Discount{window(5, "small"), window(20, "big"), window(10, "mid")}

	price, chosen := SelectBestDiscount(100, friday, true, "", discounts)

	assert.Equal(t, 80.0, price)
	assert.Equal(t, "big", chosen.ID)
}

func TestSelectBestDiscount_NoEligible(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	discounts := []domain.Discount{
		{
			// malformed: missing dates
			ID:             "broken",
			Percentage:     50,
			AppliesOnDays:  map[domain.DayOfWeek]bool{domain.Friday: true},
			AppliesToDaily: true,
		},
		{
			// wrong day
			ID:             "monday-only",
			Percentage:     30,
			StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			AppliesOnDays:  map[domain.DayOfWeek]bool{domain.Monday: true},
			AppliesToDaily: true,
		},
		{
			// minimum amount not met
			ID:                   "big-spender",
			Percentage:           25,
			StartDate:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:              time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			AppliesOnDays:        map[domain.DayOfWeek]bool{domain.Friday: true},
			AppliesToDaily:       true,
			MinimumBookingAmount: 500,
		},
	}

	price, chosen := SelectBestDiscount(100, friday, true, "", discounts)

	assert.Equal(t, 100.0, price)
	assert.Nil(t, chosen)
}

func TestSelectBestDiscount_SlotRestriction(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	d := domain.Discount{
		ID:              "morning-only",
		Percentage:      15,
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		AppliesOnDays:   map[domain.DayOfWeek]bool{domain.Friday: true},
		AppliesToHourly: true,
		EligibleSlotIDs: []string{"morning"},
	}

	price, chosen := SelectBestDiscount(100, friday, false, "morning", []domain.Discount{d})
	assert.Equal(t, 85.0, price)
	assert.NotNil(t, chosen)

	price, chosen = SelectBestDiscount(100, friday, false, "evening", []domain.Discount{d})
	assert.Equal(t, 100.0, price)
	assert.Nil(t, chosen)
}

func TestSelectBestDiscount_SlotRestrictedNeverAppliesToFullDay(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	d := domain.Discount{
		ID:              "morning-only",
		Percentage:      15,
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		AppliesOnDays:   map[domain.DayOfWeek]bool{domain.Friday: true},
		AppliesToDaily:  true,
		AppliesToHourly: true,
		EligibleSlotIDs: []string{"morning"},
	}

	price, chosen := SelectBestDiscount(100, friday, true, "", []domain.Discount{d})

	assert.Equal(t, 100.0, price)
	assert.Nil(t, chosen)
}

func TestSelectBestDiscount_NeverAboveBasePrice(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	for _, pct := range []float64{0, 1, 33.3, 50, 99, 100} {
		d := domain.Discount{
			ID:             "d",
			Percentage:     pct,
			StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			AppliesOnDays:  map[domain.DayOfWeek]bool{domain.Friday: true},
			AppliesToDaily: true,
		}
		price, _ := SelectBestDiscount(123.45, friday, true, "", []domain.Discount{d})
		assert.LessOrEqual(t, price, 123.45)
	}
}

func TestSplitCommission_Invariants(t *testing.T) {
	for _, pct := range []float64{1, 2.5, 5, 7.77, 10, 15} {
		split := SplitCommission(987.65, pct, pct, defaultBounds)

		assert.InDelta(t, split.PlatformEarnings, split.CustomerCommission+split.OwnerCommission, 0.01)
		assert.InDelta(t, 987.65, split.OwnerEarnings+split.OwnerCommission, 0.01)
	}
}

func TestSplitCommission_ClampsAtUseTime(t *testing.T) {
	split := SplitCommission(100, 50, 0.1, defaultBounds)

	// 50 clamps down to 15, 0.1 clamps up to 1.
	assert.Equal(t, 15.0, split.CustomerCommission)
	assert.Equal(t, 1.0, split.OwnerCommission)
}

func TestBuildPaymentPlan_ExactSum(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	totals := []float64{113.40, 100, 0.03, 99.99, 1234.56, 7777.77}
	for _, total := range totals {
		for pct := 10.0; pct <= 90; pct += 7 {
			cfg := domain.PaymentPlanConfig{FirstPaymentPercent: pct, DaysBeforeEventForFinalPayment: 7}
			plan := BuildPaymentPlan(total, eventDate, cfg, now)
			assert.InDelta(t, total, plan.FirstAmount+plan.FinalAmount, 1e-9, "total=%v pct=%v", total, pct)
		}
	}
}

func TestBuildPaymentPlan_FinalDueNeverInThePast(t *testing.T) {
	now := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	cfg := domain.PaymentPlanConfig{FirstPaymentPercent: 50, DaysBeforeEventForFinalPayment: 7}
	plan := BuildPaymentPlan(100, eventDate, cfg, now)

	// eventDate-7d is already behind "now", so the final due date snaps to now.
	assert.Equal(t, now, plan.FinalDueDate)
}

func TestBuildPaymentPlan_ClampsFirstPercent(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	plan := BuildPaymentPlan(100, eventDate, domain.PaymentPlanConfig{FirstPaymentPercent: 5}, now)
	assert.Equal(t, 10.0, plan.FirstAmount)

	plan = BuildPaymentPlan(100, eventDate, domain.PaymentPlanConfig{FirstPaymentPercent: 99}, now)
	assert.Equal(t, 90.0, plan.FirstAmount)
}
