package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	VenueID            string     `gorm:"column:venue_id;index:idx_bookings_venue_date"`
	EventDate          time.Time  `gorm:"column:event_date;index:idx_bookings_venue_date"`
	CustomerID         string     `gorm:"column:customer_id;index"`
	OwnerID            string     `gorm:"column:owner_id;index"`
	Type               string     `gorm:"column:type"`
	SlotID             *string    `gorm:"column:slot_id"`
	SlotStart          *time.Time `gorm:"column:slot_start"`
	SlotEnd            *time.Time `gorm:"column:slot_end"`
	GuestCount         int        `gorm:"column:guest_count"`
	Pricing            []byte     `gorm:"column:pricing;type:jsonb"`
	PaymentPlan        []byte     `gorm:"column:payment_plan;type:jsonb"`
	Status             string     `gorm:"column:status;index"`
	PaymentStatus      string     `gorm:"column:payment_status"`
	ApprovalStatus     string     `gorm:"column:approval_status"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	StatusHistory      []byte     `gorm:"column:status_history;type:jsonb"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toBookingModel(b domain.Booking) (bookingModel, error) {
	pricing, err := json.Marshal(b.Pricing)
	if err != nil {
		return bookingModel{}, err
	}
	plan, err := json.Marshal(b.PaymentPlan)
	if err != nil {
		return bookingModel{}, err
	}
	history, err := json.Marshal(b.StatusHistory)
	if err != nil {
		return bookingModel{}, err
	}

	m := bookingModel{
		ID:             b.ID,
		VenueID:        b.VenueID,
		EventDate:      dateOnly(b.EventDate),
		CustomerID:     b.CustomerID,
		OwnerID:        b.OwnerID,
		Type:           string(b.Type),
		GuestCount:     b.GuestCount,
		Pricing:        pricing,
		PaymentPlan:    plan,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		ApprovalStatus: string(b.ApprovalStatus),
		StatusHistory:  history,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.Slot != nil {
		slotID := b.Slot.SlotID
		start := b.Slot.Start
		end := b.Slot.End
		m.SlotID = &slotID
		m.SlotStart = &start
		m.SlotEnd = &end
	}
	if b.CancellationReason != "" {
		reason := b.CancellationReason
		m.CancellationReason = &reason
	}
	return m, nil
}

func toDomainBooking(m bookingModel) (domain.Booking, error) {
	b := domain.Booking{
		ID:             m.ID,
		VenueID:        m.VenueID,
		CustomerID:     m.CustomerID,
		OwnerID:        m.OwnerID,
		Type:           domain.BookingType(m.Type),
		EventDate:      m.EventDate,
		GuestCount:     m.GuestCount,
		Status:         domain.BookingStatus(m.Status),
		PaymentStatus:  domain.BookingPaymentStatus(m.PaymentStatus),
		ApprovalStatus: domain.ApprovalStatus(m.ApprovalStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if err := json.Unmarshal(m.Pricing, &b.Pricing); err != nil {
		return domain.Booking{}, err
	}
	if err := json.Unmarshal(m.PaymentPlan, &b.PaymentPlan); err != nil {
		return domain.Booking{}, err
	}
	if err := json.Unmarshal(m.StatusHistory, &b.StatusHistory); err != nil {
		return domain.Booking{}, err
	}
	if m.SlotStart != nil && m.SlotEnd != nil {
		slot := &domain.TimeSlot{Start: *m.SlotStart, End: *m.SlotEnd}
		if m.SlotID != nil {
			slot.SlotID = *m.SlotID
		}
		b.Slot = slot
	}
	if m.CancellationReason != nil {
		b.CancellationReason = *m.CancellationReason
	}
	return b, nil
}

// CreateIfAvailable runs the conflict check and the insert as one atomic
// operation: a serializable transaction re-reads the authoritative ranges
// before writing. On Postgres the bookings exclusion constraint is the last
// line of defence; its violation maps to the same ConflictError.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := rangesForDate(tx, b.VenueID, b.EventDate)
		if err != nil {
			return err
		}
		candidate := b.Slot
		if b.Type == domain.BookingDaily {
			candidate = nil
		}
		if err := domain.CheckConflict(b.VenueID, b.EventDate, candidate, existing); err != nil {
			return err
		}

		m, err := toBookingModel(*b)
		if err != nil {
			return err
		}
		return tx.Create(&m).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23P01") && pgErr.ConstraintName == "idx_no_double_booking" {
		return &domain.ConflictError{
			VenueID: b.VenueID,
			Date:    b.EventDate.Format("2006-01-02"),
		}
	}
	return err
}

// RangesForDate returns the authoritative comparison set for a venue/date.
func (r *BookingRepository) RangesForDate(ctx context.Context, venueID string, date time.Time) ([]domain.BookedRange, error) {
	return rangesForDate(r.db.WithContext(ctx), venueID, date)
}

func rangesForDate(tx *gorm.DB, venueID string, date time.Time) ([]domain.BookedRange, error) {
	var rows []bookingModel
	err := tx.
		Where("venue_id = ? AND event_date = ?", venueID, dateOnly(date)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.BookedRange, 0, len(rows))
	for _, m := range rows {
		br := domain.BookedRange{
			BookingID: m.ID,
			Status:    domain.BookingStatus(m.Status),
			FullDay:   m.Type == string(domain.BookingDaily),
		}
		if m.SlotStart != nil && m.SlotEnd != nil {
			br.Start = *m.SlotStart
			br.End = *m.SlotEnd
		}
		out = append(out, br)
	}
	return out, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	b, err := toDomainBooking(m)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Save persists a new lifecycle snapshot over the stored row.
func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(*b)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", m.ID).Select("*").Updates(m).Error
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("event_date desc").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows)
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("event_date desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows)
}

// ListActiveEndedBefore feeds the expiry sweep: non-terminal bookings whose
// event date already passed the cutoff.
func (r *BookingRepository) ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("status NOT IN ? AND event_date < ?",
			[]string{string(domain.BookingCompleted), string(domain.BookingCancelled)},
			dateOnly(cutoff)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows)
}

func toDomainBookings(rows []bookingModel) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
