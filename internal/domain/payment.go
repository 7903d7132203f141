package domain

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentExpired    PaymentStatus = "expired"
)

type PaymentType string

const (
	PaymentFirst  PaymentType = "first"
	PaymentSecond PaymentType = "second"
	PaymentFull   PaymentType = "full"
)

var paymentStatusTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentFailed, PaymentCancelled, PaymentExpired},
	PaymentProcessing: {PaymentCompleted, PaymentFailed, PaymentCancelled},
	PaymentCompleted:  {PaymentRefunded},
	PaymentFailed:     {},
	PaymentCancelled:  {},
	PaymentRefunded:   {},
	PaymentExpired:    {},
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range paymentStatusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return len(paymentStatusTransitions[s]) == 0
}

// Payment is an immutable snapshot of one payment attempt. Transitions return
// a new value with an appended history entry; invalid calls fail with a
// StateError and leave the value unchanged.
type Payment struct {
	ID            string               `json:"id"`
	BookingID     string               `json:"booking_id"`
	Type          PaymentType          `json:"type"`
	Amount        float64              `json:"amount"`
	Status        PaymentStatus        `json:"status"`
	RefundAmount  float64              `json:"refund_amount"`
	ProviderRef   string               `json:"provider_ref,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
	FailureCode   string               `json:"failure_code,omitempty"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func NewPayment(id, bookingID string, pType PaymentType, amount float64, actor string, now time.Time) (Payment, error) {
	switch pType {
	case PaymentFirst, PaymentSecond, PaymentFull:
	default:
		return Payment{}, NewValidationError("type", "unknown payment type: "+string(pType))
	}
	if amount <= 0 {
		return Payment{}, NewValidationError("amount", "must be greater than zero")
	}
	return Payment{
		ID:        id,
		BookingID: bookingID,
		Type:      pType,
		Amount:    Round2(amount),
		Status:    PaymentPending,
		StatusHistory: []StatusHistoryEntry{{
			Status:    string(PaymentPending),
			Timestamp: now,
			Actor:     actor,
			Note:      "payment created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p Payment) withHistory(actor, note string, now time.Time) Payment {
	np := p
	np.UpdatedAt = now
	history := make([]StatusHistoryEntry, len(p.StatusHistory), len(p.StatusHistory)+1)
	copy(history, p.StatusHistory)
	np.StatusHistory = append(history, StatusHistoryEntry{
		Status:    string(np.Status),
		Timestamp: now,
		Actor:     actor,
		Note:      note,
	})
	return np
}

// MarkProcessing records that the gateway accepted the payment attempt.
func (p Payment) MarkProcessing(providerRef, actor string, now time.Time) (Payment, error) {
	if !p.Status.CanTransitionTo(PaymentProcessing) {
		return p, NewStateError("payment", "mark_processing", string(p.Status))
	}
	np := p
	np.Status = PaymentProcessing
	np.ProviderRef = providerRef
	return np.withHistory(actor, "gateway accepted payment", now), nil
}

func (p Payment) Complete(providerRef, actor string, now time.Time) (Payment, error) {
	if !p.Status.CanTransitionTo(PaymentCompleted) {
		return p, NewStateError("payment", "complete", string(p.Status))
	}
	np := p
	np.Status = PaymentCompleted
	if providerRef != "" {
		np.ProviderRef = providerRef
	}
	return np.withHistory(actor, "payment completed", now), nil
}

func (p Payment) Fail(reason, code, actor string, now time.Time) (Payment, error) {
	if !p.Status.CanTransitionTo(PaymentFailed) {
		return p, NewStateError("payment", "fail", string(p.Status))
	}
	np := p
	np.Status = PaymentFailed
	np.FailureReason = reason
	np.FailureCode = code
	return np.withHistory(actor, "payment failed: "+reason, now), nil
}

func (p Payment) Cancel(actor string, now time.Time) (Payment, error) {
	if !p.Status.CanTransitionTo(PaymentCancelled) {
		return p, NewStateError("payment", "cancel", string(p.Status))
	}
	np := p
	np.Status = PaymentCancelled
	return np.withHistory(actor, "payment cancelled", now), nil
}

// Expire times out a pending payment once it has sat longer than timeoutHours.
func (p Payment) Expire(timeoutHours int, now time.Time) (Payment, error) {
	if p.Status != PaymentPending {
		return p, NewStateError("payment", "expire", string(p.Status))
	}
	if now.Sub(p.CreatedAt) <= time.Duration(timeoutHours)*time.Hour {
		return p, NewStateError("payment", "expire", "timeout not reached")
	}
	np := p
	np.Status = PaymentExpired
	return np.withHistory("system", "payment expired", now), nil
}

// ProcessRefund applies a partial or full refund to a completed payment.
// The cumulative refund may never exceed the paid amount; reaching it moves
// the payment to Refunded, otherwise the status stays Completed.
func (p Payment) ProcessRefund(amount float64, reason, actor string, now time.Time) (Payment, error) {
	if p.Status != PaymentCompleted {
		return p, NewStateError("payment", "process_refund", string(p.Status))
	}
	if amount <= 0 {
		return p, NewValidationError("amount", "refund amount must be greater than zero")
	}
	remaining := Round2(p.Amount - p.RefundAmount)
	if amount > remaining+0.005 {
		return p, NewStateError("payment", "process_refund", fmt.Sprintf("refund %.2f exceeds remaining %.2f", amount, remaining))
	}

	np := p
	np.RefundAmount = Round2(p.RefundAmount + amount)
	note := fmt.Sprintf("refunded %.2f: %s", amount, reason)
	if AmountsEqual(np.RefundAmount, np.Amount) {
		np.Status = PaymentRefunded
		note = fmt.Sprintf("fully refunded %.2f: %s", amount, reason)
	}
	return np.withHistory(actor, note, now), nil
}

// RemainingRefundable is the amount still eligible for refund.
func (p Payment) RemainingRefundable() float64 {
	return Round2(p.Amount - p.RefundAmount)
}
