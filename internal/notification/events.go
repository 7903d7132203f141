package notification

import "time"

// Queue names. One durable queue per event kind, routed via the default
// exchange so consumers can bind without extra topology.
const (
	QueueBookingCreated   = "booking.created"
	QueueBookingDecided   = "booking.decided"
	QueueBookingCancelled = "booking.cancelled"
	QueuePaymentSettled   = "payment.settled"
	QueuePaymentDue       = "payment.due"
)

type BookingCreatedEvent struct {
	BookingID  string    `json:"booking_id"`
	VenueID    string    `json:"venue_id"`
	CustomerID string    `json:"customer_id"`
	OwnerID    string    `json:"owner_id"`
	EventDate  time.Time `json:"event_date"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is emitted when the owner approves or rejects.
type BookingDecidedEvent struct {
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	Approved   bool      `json:"approved"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BookingCancelledEvent struct {
	BookingID  string    `json:"booking_id"`
	VenueID    string    `json:"venue_id"`
	CustomerID string    `json:"customer_id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentSettledEvent covers both successful and failed gateway outcomes.
type PaymentSettledEvent struct {
	PaymentID  string    `json:"payment_id"`
	BookingID  string    `json:"booking_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentDueEvent reminds the customer that the final installment is payable.
type PaymentDueEvent struct {
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	Amount     float64   `json:"amount"`
	DueDate    time.Time `json:"due_date"`
	Overdue    bool      `json:"overdue"`
	OccurredAt time.Time `json:"occurred_at"`
}
