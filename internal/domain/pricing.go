package domain

import "time"

// CommissionProfile carries the commission percentages charged to each side.
// Values are clamped into the platform bounds at use time, not at storage time.
type CommissionProfile struct {
	CustomerPercent float64 `json:"customer_percent"`
	OwnerPercent    float64 `json:"owner_percent"`
}

// CommissionBounds is the platform-wide clamp applied to commission percentages.
type CommissionBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PaymentPlanConfig controls how the total is split into two installments.
type PaymentPlanConfig struct {
	FirstPaymentPercent            float64 `json:"first_payment_percent"`
	DaysBeforeEventForFinalPayment int     `json:"days_before_event_for_final_payment"`
}

// CommissionSplit is the published result of applying commissions to a subtotal.
type CommissionSplit struct {
	CustomerCommission float64 `json:"customer_commission"`
	OwnerCommission    float64 `json:"owner_commission"`
	TotalForCustomer   float64 `json:"total_for_customer"`
	OwnerEarnings      float64 `json:"owner_earnings"`
	PlatformEarnings   float64 `json:"platform_earnings"`
}

// PricingBreakdown is produced once per booking at creation time and never
// mutated; a re-quote produces a new value.
type PricingBreakdown struct {
	BasePrice                float64 `json:"base_price"`
	DiscountID               string  `json:"discount_id,omitempty"`
	DiscountPercent          float64 `json:"discount_percent,omitempty"`
	DiscountedSubtotal       float64 `json:"discounted_subtotal"`
	CustomerCommissionAmount float64 `json:"customer_commission_amount"`
	OwnerCommissionAmount    float64 `json:"owner_commission_amount"`
	TotalForCustomer         float64 `json:"total_for_customer"`
	OwnerEarnings            float64 `json:"owner_earnings"`
	PlatformEarnings         float64 `json:"platform_earnings"`
}

// PaymentPlan splits the total into two legs. FirstAmount+FinalAmount always
// equals TotalForCustomer exactly: the final leg is derived by subtraction.
type PaymentPlan struct {
	FirstAmount     float64   `json:"first_amount"`
	FinalAmount     float64   `json:"final_amount"`
	FirstDueDate    time.Time `json:"first_due_date"`
	FinalDueDate    time.Time `json:"final_due_date"`
	DaysBeforeFinal int       `json:"days_before_final"`
}
