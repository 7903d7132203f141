package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

type discountModel struct {
	ID                   string    `gorm:"column:id;primaryKey"`
	VenueID              string    `gorm:"column:venue_id;index"`
	Percentage           float64   `gorm:"column:percentage"`
	StartDate            time.Time `gorm:"column:start_date"`
	EndDate              time.Time `gorm:"column:end_date"`
	AppliesOnDays        []byte    `gorm:"column:applies_on_days;type:jsonb"`
	AppliesToDaily       bool      `gorm:"column:applies_to_daily"`
	AppliesToHourly      bool      `gorm:"column:applies_to_hourly"`
	EligibleSlotIDs      []byte    `gorm:"column:eligible_slot_ids;type:jsonb"`
	MinimumBookingAmount float64   `gorm:"column:minimum_booking_amount"`
	CreatedAt            time.Time `gorm:"column:created_at"`
}

func (discountModel) TableName() string { return "discounts" }

func toDiscountModel(d *domain.Discount) (discountModel, error) {
	days := []byte("{}")
	if len(d.AppliesOnDays) > 0 {
		b, err := json.Marshal(d.AppliesOnDays)
		if err != nil {
			return discountModel{}, err
		}
		days = b
	}
	slots := []byte("[]")
	if len(d.EligibleSlotIDs) > 0 {
		b, err := json.Marshal(d.EligibleSlotIDs)
		if err != nil {
			return discountModel{}, err
		}
		slots = b
	}
	return discountModel{
		ID:                   d.ID,
		VenueID:              d.VenueID,
		Percentage:           d.Percentage,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		AppliesOnDays:        days,
		AppliesToDaily:       d.AppliesToDaily,
		AppliesToHourly:      d.AppliesToHourly,
		EligibleSlotIDs:      slots,
		MinimumBookingAmount: d.MinimumBookingAmount,
	}, nil
}

func toDomainDiscount(m discountModel) (domain.Discount, error) {
	d := domain.Discount{
		ID:                   m.ID,
		VenueID:              m.VenueID,
		Percentage:           m.Percentage,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		AppliesToDaily:       m.AppliesToDaily,
		AppliesToHourly:      m.AppliesToHourly,
		MinimumBookingAmount: m.MinimumBookingAmount,
	}
	if len(m.AppliesOnDays) > 0 {
		var byKey map[string]bool
		if err := json.Unmarshal(m.AppliesOnDays, &byKey); err != nil {
			return domain.Discount{}, err
		}
		if len(byKey) > 0 {
			d.AppliesOnDays = make(map[domain.DayOfWeek]bool, len(byKey))
			for k, v := range byKey {
				day, err := domain.ParseDayOfWeek(k)
				if err != nil {
					return domain.Discount{}, err
				}
				d.AppliesOnDays[day] = v
			}
		}
	}
	if len(m.EligibleSlotIDs) > 0 {
		if err := json.Unmarshal(m.EligibleSlotIDs, &d.EligibleSlotIDs); err != nil {
			return domain.Discount{}, err
		}
	}
	return d, nil
}

func (r *DiscountRepository) Create(ctx context.Context, d *domain.Discount) error {
	m, err := toDiscountModel(d)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListForVenue returns the venue's discounts. Rows that no longer decode
// cleanly are skipped so a single bad record cannot break quoting.
func (r *DiscountRepository) ListForVenue(ctx context.Context, venueID string) ([]domain.Discount, error) {
	var rows []discountModel
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Discount, 0, len(rows))
	for _, m := range rows {
		d, err := toDomainDiscount(m)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *DiscountRepository) Delete(ctx context.Context, venueID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND venue_id = ?", id, venueID).
		Delete(&discountModel{}).Error
}
