package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	BookingID     string    `gorm:"column:booking_id;index"`
	Type          string    `gorm:"column:type"`
	Amount        float64   `gorm:"column:amount"`
	Status        string    `gorm:"column:status;index"`
	RefundAmount  float64   `gorm:"column:refund_amount"`
	ProviderRef   *string   `gorm:"column:provider_ref"`
	FailureReason *string   `gorm:"column:failure_reason"`
	FailureCode   *string   `gorm:"column:failure_code"`
	StatusHistory []byte    `gorm:"column:status_history;type:jsonb"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toPaymentModel(p domain.Payment) (paymentModel, error) {
	history, err := json.Marshal(p.StatusHistory)
	if err != nil {
		return paymentModel{}, err
	}
	m := paymentModel{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Type:          string(p.Type),
		Amount:        p.Amount,
		Status:        string(p.Status),
		RefundAmount:  p.RefundAmount,
		StatusHistory: history,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	m.ProviderRef = optional(p.ProviderRef)
	m.FailureReason = optional(p.FailureReason)
	m.FailureCode = optional(p.FailureCode)
	return m, nil
}

func toDomainPayment(m paymentModel) (domain.Payment, error) {
	p := domain.Payment{
		ID:           m.ID,
		BookingID:    m.BookingID,
		Type:         domain.PaymentType(m.Type),
		Amount:       m.Amount,
		Status:       domain.PaymentStatus(m.Status),
		RefundAmount: m.RefundAmount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if err := json.Unmarshal(m.StatusHistory, &p.StatusHistory); err != nil {
		return domain.Payment{}, err
	}
	if m.ProviderRef != nil {
		p.ProviderRef = *m.ProviderRef
	}
	if m.FailureReason != nil {
		p.FailureReason = *m.FailureReason
	}
	if m.FailureCode != nil {
		p.FailureCode = *m.FailureCode
	}
	return p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m, err := toPaymentModel(*p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	var m paymentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	p, err := toDomainPayment(m)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save persists a new lifecycle snapshot over the stored row.
func (r *PaymentRepository) Save(ctx context.Context, p *domain.Payment) error {
	m, err := toPaymentModel(*p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&paymentModel{}).Where("id = ?", m.ID).Select("*").Updates(m).Error
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	var rows []paymentModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		p, err := toDomainPayment(m)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ListPendingCreatedBefore feeds the expiry sweep.
func (r *PaymentRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	var rows []paymentModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.PaymentPending), cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		p, err := toDomainPayment(m)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
