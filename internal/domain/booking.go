package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending        BookingStatus = "pending"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingPaymentPending BookingStatus = "payment_pending"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
)

type BookingPaymentStatus string

const (
	BookingPaymentUnpaid    BookingPaymentStatus = "pending"
	BookingPaymentFirstPaid BookingPaymentStatus = "first_paid"
	BookingPaymentFullyPaid BookingPaymentStatus = "fully_paid"
	BookingPaymentFailed    BookingPaymentStatus = "failed"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type BookingType string

const (
	BookingDaily  BookingType = "daily"
	BookingHourly BookingType = "hourly"
)

// bookingStatusTransitions is the allowed-transition table for the status
// axis. Completed and Cancelled are terminal.
var bookingStatusTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:        {BookingConfirmed, BookingPaymentPending, BookingCancelled, BookingCompleted},
	BookingPaymentPending: {BookingConfirmed, BookingCancelled, BookingCompleted},
	BookingConfirmed:      {BookingCompleted, BookingCancelled},
	BookingCompleted:      {},
	BookingCancelled:      {},
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingStatusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingStatusTransitions[s]) == 0
}

// StatusHistoryEntry is one item of an append-only audit trail.
type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
}

// TimeSlot is a named time range within a day, used for hourly bookings.
type TimeSlot struct {
	SlotID string    `json:"slot_id,omitempty"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (ts TimeSlot) DurationHours() float64 {
	return ts.End.Sub(ts.Start).Hours()
}

// BookingPolicy carries the time thresholds applied by lifecycle preconditions.
type BookingPolicy struct {
	MinCancellationHours int
	MinModificationHours int
}

// Booking is an immutable snapshot. Lifecycle operations return a new value
// with one appended history entry; a failed operation returns the receiver
// unchanged and appends nothing.
type Booking struct {
	ID                 string               `json:"id"`
	VenueID            string               `json:"venue_id"`
	CustomerID         string               `json:"customer_id"`
	OwnerID            string               `json:"owner_id"`
	Type               BookingType          `json:"type"`
	EventDate          time.Time            `json:"event_date"`
	Slot               *TimeSlot            `json:"slot,omitempty"`
	GuestCount         int                  `json:"guest_count"`
	Pricing            PricingBreakdown     `json:"pricing"`
	PaymentPlan        PaymentPlan          `json:"payment_plan"`
	Status             BookingStatus        `json:"status"`
	PaymentStatus      BookingPaymentStatus `json:"payment_status"`
	ApprovalStatus     ApprovalStatus       `json:"approval_status"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	StatusHistory      []StatusHistoryEntry `json:"status_history"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// NewBooking builds the initial snapshot: {Pending, Pending, Pending} with a
// single seed history entry.
func NewBooking(id, venueID, customerID, ownerID string, bType BookingType, eventDate time.Time, slot *TimeSlot, guestCount int, pricing PricingBreakdown, plan PaymentPlan, actor string, now time.Time) Booking {
	return Booking{
		ID:             id,
		VenueID:        venueID,
		CustomerID:     customerID,
		OwnerID:        ownerID,
		Type:           bType,
		EventDate:      eventDate,
		Slot:           slot,
		GuestCount:     guestCount,
		Pricing:        pricing,
		PaymentPlan:    plan,
		Status:         BookingPending,
		PaymentStatus:  BookingPaymentUnpaid,
		ApprovalStatus: ApprovalPending,
		StatusHistory: []StatusHistoryEntry{{
			Status:    string(BookingPending),
			Timestamp: now,
			Actor:     actor,
			Note:      "booking created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// withHistory copies the snapshot and appends one entry. The history slice is
// copied so the prior snapshot is never aliased.
func (b Booking) withHistory(actor, note string, now time.Time) Booking {
	nb := b
	nb.UpdatedAt = now
	history := make([]StatusHistoryEntry, len(b.StatusHistory), len(b.StatusHistory)+1)
	copy(history, b.StatusHistory)
	nb.StatusHistory = append(history, StatusHistoryEntry{
		Status:    string(nb.Status),
		Timestamp: now,
		Actor:     actor,
		Note:      note,
	})
	return nb
}

// Approve records the owner's acceptance and confirms the booking.
func (b Booking) Approve(actor string, now time.Time) (Booking, error) {
	if b.ApprovalStatus != ApprovalPending {
		return b, NewStateError("booking", "approve", string(b.ApprovalStatus))
	}
	if !b.Status.CanTransitionTo(BookingConfirmed) {
		return b, NewStateError("booking", "approve", string(b.Status))
	}
	nb := b
	nb.ApprovalStatus = ApprovalApproved
	nb.Status = BookingConfirmed
	return nb.withHistory(actor, "approved by owner", now), nil
}

// Reject records the owner's refusal and cancels the booking.
func (b Booking) Reject(actor, reason string, now time.Time) (Booking, error) {
	if b.ApprovalStatus != ApprovalPending {
		return b, NewStateError("booking", "reject", string(b.ApprovalStatus))
	}
	if !b.Status.CanTransitionTo(BookingCancelled) {
		return b, NewStateError("booking", "reject", string(b.Status))
	}
	nb := b
	nb.ApprovalStatus = ApprovalRejected
	nb.Status = BookingCancelled
	nb.CancellationReason = reason
	return nb.withHistory(actor, "rejected by owner: "+reason, now), nil
}

// UpdatePaymentStatus is the only route for changing the payment-status axis.
// It applies the cross-axis coupling: a first payment moves a pending booking
// to payment-pending, and full payment confirms the booking.
func (b Booking) UpdatePaymentStatus(actor string, status BookingPaymentStatus, now time.Time) (Booking, error) {
	switch status {
	case BookingPaymentUnpaid, BookingPaymentFirstPaid, BookingPaymentFullyPaid, BookingPaymentFailed:
	default:
		return b, NewValidationError("payment_status", "unknown value: "+string(status))
	}

	nb := b
	nb.PaymentStatus = status
	switch {
	case status == BookingPaymentFirstPaid && b.Status == BookingPending:
		nb.Status = BookingPaymentPending
	case status == BookingPaymentFullyPaid && b.Status.CanTransitionTo(BookingConfirmed):
		nb.Status = BookingConfirmed
	}
	note := fmt.Sprintf("payment status set to %s", status)
	return nb.withHistory(actor, note, now), nil
}

// Cancel applies the customer/owner cancellation policy.
func (b Booking) Cancel(actor, reason string, policy BookingPolicy, now time.Time) (Booking, error) {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return b, NewStateError("booking", "cancel", string(b.Status))
	}
	if b.PaymentStatus == BookingPaymentFullyPaid {
		return b, NewStateError("booking", "cancel", string(b.PaymentStatus))
	}
	if b.HoursUntilEvent(now) < float64(policy.MinCancellationHours) {
		return b, NewStateError("booking", "cancel", "within cancellation window")
	}
	nb := b
	nb.Status = BookingCancelled
	nb.CancellationReason = reason
	return nb.withHistory(actor, "cancelled: "+reason, now), nil
}

// Complete is invoked post-event by an external trigger.
func (b Booking) Complete(actor string, now time.Time) (Booking, error) {
	if !b.Status.CanTransitionTo(BookingCompleted) {
		return b, NewStateError("booking", "complete", string(b.Status))
	}
	nb := b
	nb.Status = BookingCompleted
	return nb.withHistory(actor, "event completed", now), nil
}

// EventStart is what the time-threshold predicates measure against: the slot
// start for hourly bookings, the event date for full-day bookings.
func (b Booking) EventStart() time.Time {
	if b.Slot != nil {
		return b.Slot.Start
	}
	return b.EventDate
}

func (b Booking) HoursUntilEvent(now time.Time) float64 {
	return b.EventStart().Sub(now).Hours()
}

func (b Booking) daysUntilEvent(now time.Time) float64 {
	return b.EventStart().Sub(now).Hours() / 24
}

// CanBeModified reports whether the customer may still edit the request.
func (b Booking) CanBeModified(policy BookingPolicy, now time.Time) bool {
	return b.Status == BookingPending &&
		b.ApprovalStatus == ApprovalPending &&
		b.HoursUntilEvent(now) >= float64(policy.MinModificationHours)
}

// IsSecondPaymentDue reports whether the final installment window has opened.
func (b Booking) IsSecondPaymentDue(now time.Time) bool {
	return b.PaymentStatus == BookingPaymentFirstPaid &&
		b.daysUntilEvent(now) <= float64(b.PaymentPlan.DaysBeforeFinal)
}

// IsSecondPaymentOverdue allows one grace day past the final due date.
func (b Booking) IsSecondPaymentOverdue(now time.Time) bool {
	return b.IsSecondPaymentDue(now) &&
		now.After(b.PaymentPlan.FinalDueDate.Add(24*time.Hour))
}

func (b Booking) IsExpired(now time.Time) bool {
	return now.After(b.EventDate.Add(24 * time.Hour))
}
