// Command expiry runs the periodic lifecycle sweep: it expires stale pending
// payments, completes bookings whose event has passed, and reminds customers
// whose final installment is due. Intended to run from cron.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/payment"
	"venuebook/internal/notification"
	"venuebook/internal/pkg/logger"
	"venuebook/internal/repository"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	cfg, err := config.LoadPlatformConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid platform configuration")
	}

	db, err := database.Connect(dsn, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	venueRepo := repository.NewVenueRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	notifs := notification.NewPublisher(os.Getenv("RABBITMQ_URL"), log)

	bookingService := booking.NewService(bookingRepo, venueRepo, discountRepo, notifs, cfg, nil)
	paymentService := payment.NewService(paymentRepo, bookingRepo, notifs, cfg, log, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expired, err := paymentService.ExpirePending(ctx)
	if err != nil {
		log.WithError(err).Fatal("payment expiry sweep failed")
	}

	completed, err := bookingService.CompleteExpired(ctx)
	if err != nil {
		log.WithError(err).Fatal("booking completion sweep failed")
	}

	// Candidates for the final-installment reminder: anything whose event has
	// not ended yet, checked against the due window by the payment service.
	upcoming, err := bookingRepo.ListActiveEndedBefore(ctx, time.Now().AddDate(0, 0, cfg.PaymentPlan.DaysBeforeEventForFinalPayment+1))
	if err != nil {
		log.WithError(err).Fatal("listing due-reminder candidates failed")
	}
	reminded := paymentService.NotifySecondPaymentsDue(ctx, upcoming)

	log.WithFields(map[string]interface{}{
		"payments_expired":   expired,
		"bookings_completed": completed,
		"reminders_sent":     reminded,
	}).Info("expiry sweep completed")
}
