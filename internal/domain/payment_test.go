package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestPayment(t *testing.T, amount float64, now time.Time) Payment {
	t.Helper()
	p, err := NewPayment("pay-1", "bk-1", PaymentFirst, amount, "cust-1", now)
	assert.NoError(t, err)
	return p
}

func TestNewPayment_Validation(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := NewPayment("pay-1", "bk-1", PaymentFirst, 0, "cust-1", now)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = NewPayment("pay-1", "bk-1", PaymentType("installment"), 10, "cust-1", now)
	assert.ErrorAs(t, err, &vErr)
}

func TestPayment_HappyPath(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 68.04, now)

	processing, err := p.MarkProcessing("prov-123", "gateway", now)
	assert.NoError(t, err)
	assert.Equal(t, PaymentProcessing, processing.Status)
	assert.Equal(t, "prov-123", processing.ProviderRef)

	completed, err := processing.Complete("prov-123", "gateway", now)
	assert.NoError(t, err)
	assert.Equal(t, PaymentCompleted, completed.Status)
	assert.Len(t, completed.StatusHistory, 3)

	// Original snapshot untouched.
	assert.Equal(t, PaymentPending, p.Status)
	assert.Len(t, p.StatusHistory, 1)
}

func TestPayment_CompleteRequiresProcessing(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 68.04, now)

	unchanged, err := p.Complete("prov-123", "gateway", now)

	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, p, unchanged)
}

func TestPayment_FailAndCancel(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 68.04, now)

	failed, err := p.Fail("card declined", "051", "gateway", now)
	assert.NoError(t, err)
	assert.Equal(t, PaymentFailed, failed.Status)
	assert.Equal(t, "card declined", failed.FailureReason)
	assert.Equal(t, "051", failed.FailureCode)

	// Terminal: nothing else is allowed.
	_, err = failed.Cancel("cust-1", now)
	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)

	cancelled, err := p.Cancel("cust-1", now)
	assert.NoError(t, err)
	assert.Equal(t, PaymentCancelled, cancelled.Status)
}

func TestPayment_Expire(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 68.04, now)

	// Timeout not reached yet.
	_, err := p.Expire(24, now.Add(23*time.Hour))
	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)

	expired, err := p.Expire(24, now.Add(25*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, PaymentExpired, expired.Status)

	// Only pending payments expire.
	processing, err := p.MarkProcessing("prov-1", "gateway", now)
	assert.NoError(t, err)
	_, err = processing.Expire(24, now.Add(48*time.Hour))
	assert.ErrorAs(t, err, &stateErr)
}

func TestPayment_PartialThenFullRefund(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 100, now)
	processing, _ := p.MarkProcessing("prov-1", "gateway", now)
	completed, _ := processing.Complete("prov-1", "gateway", now)

	partial, err := completed.ProcessRefund(30, "damaged equipment", "owner-1", now)
	assert.NoError(t, err)
	assert.Equal(t, PaymentCompleted, partial.Status)
	assert.Equal(t, 30.0, partial.RefundAmount)
	assert.Equal(t, 70.0, partial.RemainingRefundable())

	full, err := partial.ProcessRefund(70, "cancelled event", "owner-1", now)
	assert.NoError(t, err)
	assert.Equal(t, PaymentRefunded, full.Status)
	assert.Equal(t, 100.0, full.RefundAmount)
}

func TestPayment_RefundOverRemaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 100, now)
	processing, _ := p.MarkProcessing("prov-1", "gateway", now)
	completed, _ := processing.Complete("prov-1", "gateway", now)
	partial, _ := completed.ProcessRefund(80, "partial", "owner-1", now)

	unchanged, err := partial.ProcessRefund(30, "too much", "owner-1", now)

	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, partial, unchanged)
	assert.Len(t, unchanged.StatusHistory, 4)
}

func TestPayment_RefundRequiresCompleted(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := newTestPayment(t, 100, now)

	_, err := p.ProcessRefund(10, "nope", "owner-1", now)

	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)
}
