package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"venuebook/internal/domain"
)

const (
	defaultCommissionMinPercent      = "1"
	defaultCommissionMaxPercent      = "15"
	defaultCustomerCommissionPercent = "5"
	defaultOwnerCommissionPercent    = "3"
	defaultFirstPaymentPercent       = "50"
	defaultDaysBeforeFinalPayment    = "7"
	defaultMinCancellationHours      = "24"
	defaultMinModificationHours      = "48"
	defaultPaymentTimeoutHours       = "24"
)

// PlatformConfig is the env-driven runtime configuration for the pricing
// engine and the lifecycle policies.
type PlatformConfig struct {
	CommissionBounds    domain.CommissionBounds
	DefaultCommission   domain.CommissionProfile
	PaymentPlan         domain.PaymentPlanConfig
	BookingPolicy       domain.BookingPolicy
	PaymentTimeoutHours int
}

func LoadPlatformConfig() (*PlatformConfig, error) {
	commissionMin, err := floatEnv("COMMISSION_MIN_PERCENT", defaultCommissionMinPercent)
	if err != nil {
		return nil, err
	}
	commissionMax, err := floatEnv("COMMISSION_MAX_PERCENT", defaultCommissionMaxPercent)
	if err != nil {
		return nil, err
	}
	if commissionMin < 0 || commissionMax < commissionMin {
		return nil, fmt.Errorf("commission bounds invalid: [%v,%v]", commissionMin, commissionMax)
	}

	customerPct, err := floatEnv("CUSTOMER_COMMISSION_PERCENT", defaultCustomerCommissionPercent)
	if err != nil {
		return nil, err
	}
	ownerPct, err := floatEnv("OWNER_COMMISSION_PERCENT", defaultOwnerCommissionPercent)
	if err != nil {
		return nil, err
	}

	firstPct, err := floatEnv("FIRST_PAYMENT_PERCENT", defaultFirstPaymentPercent)
	if err != nil {
		return nil, err
	}
	daysBeforeFinal, err := intEnv("DAYS_BEFORE_FINAL_PAYMENT", defaultDaysBeforeFinalPayment)
	if err != nil {
		return nil, err
	}
	if daysBeforeFinal < 0 {
		return nil, fmt.Errorf("DAYS_BEFORE_FINAL_PAYMENT must not be negative")
	}

	minCancelHours, err := intEnv("MIN_CANCELLATION_HOURS", defaultMinCancellationHours)
	if err != nil {
		return nil, err
	}
	minModifyHours, err := intEnv("MIN_MODIFICATION_HOURS", defaultMinModificationHours)
	if err != nil {
		return nil, err
	}
	paymentTimeout, err := intEnv("PAYMENT_TIMEOUT_HOURS", defaultPaymentTimeoutHours)
	if err != nil {
		return nil, err
	}
	if paymentTimeout <= 0 {
		return nil, fmt.Errorf("PAYMENT_TIMEOUT_HOURS must be positive")
	}

	return &PlatformConfig{
		CommissionBounds:  domain.CommissionBounds{Min: commissionMin, Max: commissionMax},
		DefaultCommission: domain.CommissionProfile{CustomerPercent: customerPct, OwnerPercent: ownerPct},
		PaymentPlan: domain.PaymentPlanConfig{
			FirstPaymentPercent:            firstPct,
			DaysBeforeEventForFinalPayment: daysBeforeFinal,
		},
		BookingPolicy: domain.BookingPolicy{
			MinCancellationHours: minCancelHours,
			MinModificationHours: minModifyHours,
		},
		PaymentTimeoutHours: paymentTimeout,
	}, nil
}

func floatEnv(name, def string) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		raw = def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func intEnv(name, def string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		raw = def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
