// Command seed fills a development database with a few venues, pricing
// profiles and discounts so the API is usable right after checkout.
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"venuebook/internal/database"
	"venuebook/internal/domain"
	"venuebook/internal/pkg/logger"
	"venuebook/internal/repository"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "venuebook.db"
	}

	db, err := database.Connect(dsn, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := repository.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	log.Info("cleaning old data")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM discounts")
	db.Exec("DELETE FROM venue_pricing_profiles")
	db.Exec("DELETE FROM venues")

	venueRepo := repository.NewVenueRepository(db)
	discountRepo := repository.NewDiscountRepository(db)

	ctx := context.Background()
	now := time.Now().UTC()

	venues := []struct {
		name     string
		city     string
		capacity int
		base     float64
		hourly   float64
		weekend  float64
	}{
		{"Riverside Loft", "Almaty", 120, 400, 60, 520},
		{"Garden Pavilion", "Astana", 250, 900, 0, 1200},
		{"Atrium Hall", "Almaty", 80, 300, 45, 360},
	}

	for i, spec := range venues {
		v := domain.Venue{
			ID:        uuid.NewString(),
			OwnerID:   "owner-demo",
			Name:      spec.name,
			City:      spec.city,
			Capacity:  spec.capacity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := venueRepo.Create(ctx, &v); err != nil {
			log.WithError(err).Fatal("seeding venue failed")
		}

		profile := domain.VenuePricingProfile{
			VenueID:    v.ID,
			BasePrice:  spec.base,
			HourlyRate: spec.hourly,
			DailyPricing: map[domain.DayOfWeek]float64{
				domain.Saturday: spec.weekend,
				domain.Sunday:   spec.weekend,
			},
		}
		if err := venueRepo.UpsertPricingProfile(ctx, &profile); err != nil {
			log.WithError(err).Fatal("seeding pricing profile failed")
		}

		// Midweek promotion on the first two venues.
		if i < 2 {
			d := domain.Discount{
				ID:         uuid.NewString(),
				VenueID:    v.ID,
				Percentage: 10,
				StartDate:  now,
				EndDate:    now.AddDate(0, 3, 0),
				AppliesOnDays: map[domain.DayOfWeek]bool{
					domain.Tuesday:   true,
					domain.Wednesday: true,
					domain.Thursday:  true,
				},
				AppliesToDaily:  true,
				AppliesToHourly: true,
			}
			if err := discountRepo.Create(ctx, &d); err != nil {
				log.WithError(err).Fatal("seeding discount failed")
			}
		}

		log.WithField("venue", spec.name).Info("seeded venue")
	}

	log.Info("seed completed")
}
