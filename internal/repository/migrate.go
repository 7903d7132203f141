package repository

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates all tables. On Postgres it additionally
// installs an exclusion constraint so two hourly bookings can never hold
// overlapping time ranges on the same venue, even across connections.
func AutoMigrate(db *gorm.DB, log *logrus.Logger) error {
	if err := db.AutoMigrate(
		&venueModel{},
		&pricingProfileModel{},
		&discountModel{},
		&bookingModel{},
		&paymentModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// Best effort: btree_gist may be unavailable to the role, in which case
	// the serializable reserve transaction remains the only guard.
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT idx_no_double_booking
				EXCLUDE USING gist (
					venue_id WITH =,
					tstzrange(slot_start, slot_end, '[)') WITH &&
				)
				WHERE (status <> 'cancelled' AND slot_start IS NOT NULL);
		EXCEPTION WHEN duplicate_object OR duplicate_table THEN NULL;
		END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.WithError(err).Warn("skipping booking exclusion constraint")
			return nil
		}
	}
	return nil
}
