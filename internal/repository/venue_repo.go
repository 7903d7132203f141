package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

type venueModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	OwnerID     string    `gorm:"column:owner_id;index"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	City        *string   `gorm:"column:city;index"`
	Capacity    int       `gorm:"column:capacity"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (venueModel) TableName() string { return "venues" }

type pricingProfileModel struct {
	VenueID                   string    `gorm:"column:venue_id;primaryKey"`
	BasePrice                 float64   `gorm:"column:base_price"`
	DailyPricing              []byte    `gorm:"column:daily_pricing;type:jsonb"`
	HourlyRate                float64   `gorm:"column:hourly_rate"`
	HourlyRatesByDay          []byte    `gorm:"column:hourly_rates_by_day;type:jsonb"`
	CustomerCommissionPercent float64   `gorm:"column:customer_commission_percent"`
	OwnerCommissionPercent    float64   `gorm:"column:owner_commission_percent"`
	UpdatedAt                 time.Time `gorm:"column:updated_at"`
}

func (pricingProfileModel) TableName() string { return "venue_pricing_profiles" }

func toDomainVenue(m venueModel) domain.Venue {
	v := domain.Venue{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Capacity:  m.Capacity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Description != nil {
		v.Description = *m.Description
	}
	if m.City != nil {
		v.City = *m.City
	}
	return v
}

func (r *VenueRepository) Create(ctx context.Context, v *domain.Venue) error {
	m := venueModel{
		ID:        v.ID,
		OwnerID:   v.OwnerID,
		Name:      v.Name,
		Capacity:  v.Capacity,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	m.Description = optional(v.Description)
	m.City = optional(v.City)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	var m venueModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	v := toDomainVenue(m)
	return &v, nil
}

func (r *VenueRepository) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	var rows []venueModel
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Venue, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainVenue(m))
	}
	return out, nil
}

// UpsertPricingProfile stores the owner-configured rates. Day maps are kept
// as JSON keyed by the day enum.
func (r *VenueRepository) UpsertPricingProfile(ctx context.Context, p *domain.VenuePricingProfile) error {
	daily, err := marshalDayMap(p.DailyPricing)
	if err != nil {
		return err
	}
	hourly, err := marshalDayMap(p.HourlyRatesByDay)
	if err != nil {
		return err
	}
	m := pricingProfileModel{
		VenueID:                   p.VenueID,
		BasePrice:                 p.BasePrice,
		DailyPricing:              daily,
		HourlyRate:                p.HourlyRate,
		HourlyRatesByDay:          hourly,
		CustomerCommissionPercent: p.CustomerCommissionPercent,
		OwnerCommissionPercent:    p.OwnerCommissionPercent,
	}

	err = r.db.WithContext(ctx).Model(&pricingProfileModel{}).
		Where("venue_id = ?", p.VenueID).
		Select("*").Omit("venue_id").Updates(m).Error
	if err != nil {
		return err
	}
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&pricingProfileModel{}).Where("venue_id = ?", p.VenueID).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return r.db.WithContext(ctx).Create(&m).Error
	}
	return nil
}

func (r *VenueRepository) GetPricingProfile(ctx context.Context, venueID string) (*domain.VenuePricingProfile, error) {
	var m pricingProfileModel
	if err := r.db.WithContext(ctx).First(&m, "venue_id = ?", venueID).Error; err != nil {
		return nil, err
	}

	daily, err := unmarshalDayMap(m.DailyPricing)
	if err != nil {
		return nil, err
	}
	hourly, err := unmarshalDayMap(m.HourlyRatesByDay)
	if err != nil {
		return nil, err
	}
	return &domain.VenuePricingProfile{
		VenueID:                   m.VenueID,
		BasePrice:                 m.BasePrice,
		DailyPricing:              daily,
		HourlyRate:                m.HourlyRate,
		HourlyRatesByDay:          hourly,
		CustomerCommissionPercent: m.CustomerCommissionPercent,
		OwnerCommissionPercent:    m.OwnerCommissionPercent,
	}, nil
}

func marshalDayMap(m map[domain.DayOfWeek]float64) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// unmarshalDayMap rejects unknown day keys instead of silently ignoring them.
func unmarshalDayMap(raw []byte) (map[domain.DayOfWeek]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var byKey map[string]float64
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, err
	}
	if len(byKey) == 0 {
		return nil, nil
	}
	out := make(map[domain.DayOfWeek]float64, len(byKey))
	for k, v := range byKey {
		day, err := domain.ParseDayOfWeek(k)
		if err != nil {
			return nil, err
		}
		out[day] = v
	}
	return out, nil
}
