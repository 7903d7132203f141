package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/middleware"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/catalog"
	"venuebook/internal/modules/payment"
	"venuebook/internal/notification"
	jwtsvc "venuebook/internal/pkg/jwt"
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
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	cfg, err := config.LoadPlatformConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid platform configuration")
	}

	db, err := database.Connect(dsn, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := repository.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	venueRepo := repository.NewVenueRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	notifs := notification.NewPublisher(os.Getenv("RABBITMQ_URL"), log)
	j := jwtsvc.New(secret, 24*time.Hour)

	catalogService := catalog.NewService(venueRepo, discountRepo, bookingRepo, nil)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, venueRepo, discountRepo, notifs, cfg, nil)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(paymentRepo, bookingRepo, notifs, cfg, log, nil)
	paymentHandler := payment.NewHandler(paymentService)

	gin.SetMode(ginMode())
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	quoteLimiter, err := middleware.RateLimit("30-M")
	if err != nil {
		log.WithError(err).Fatal("rate limiter setup failed")
	}

	v1 := r.Group("/api/v1")
	{
		// public
		public := v1.Group("/")
		public.Use(quoteLimiter)
		{
			catalogHandler.RegisterPublicRoutes(public)
			bookingHandler.RegisterPublicRoutes(public)
		}

		// authenticated
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)

			owner := protected.Group("/")
			owner.Use(middleware.RequireRole("owner"))
			{
				catalogHandler.RegisterRoutes(owner)
			}
		}

		// provider callbacks and scheduler triggers
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth())
		{
			paymentHandler.RegisterCallbackRoutes(internal)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.WithField("addr", addr).Info("starting api server")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func ginMode() string {
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		return mode
	}
	return gin.ReleaseMode
}
