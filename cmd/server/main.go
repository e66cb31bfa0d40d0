package main // Entry point package

import (
	"context"
	"time"

	"github.com/joho/godotenv"     // loads .env files in development
	"github.com/labstack/echo/v4"  // Echo web framework
	"github.com/sirupsen/logrus"   // structured logging

	"github.com/cinetix/booking-backend/internal/config"
	"github.com/cinetix/booking-backend/internal/database"
	"github.com/cinetix/booking-backend/internal/handler"
	"github.com/cinetix/booking-backend/internal/middleware"
	"github.com/cinetix/booking-backend/internal/queue"
	"github.com/cinetix/booking-backend/internal/repository"
	"github.com/cinetix/booking-backend/internal/router"
	"github.com/cinetix/booking-backend/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load() // required env vars; exits with a fatal log when one is missing
	if cfg.Env == "dev" {
		log.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.WithError(err).Fatal("schema migration failed")
	}
	if cfg.Env == "dev" {
		if err := database.Seed(ctx, db); err != nil {
			log.WithError(err).Warn("dev seed failed")
		}
	}
	cancel()

	// Redis backs the response cache and the rate limiter. A nil client
	// simply disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	theaterRepo := repository.NewTheaterRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	screeningRepo := repository.NewScreeningRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	publisher := queue.NewPublisher(log)
	go queue.StartBookingConsumer(log) // in-process notification worker

	bookingSvc := service.NewBookingService(
		db, userRepo, screeningRepo, theaterRepo, seatRepo, reservationRepo, paymentRepo,
		publisher, log,
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo), cfg.JWTSecret)
	router.RegisterBrowse(e, handler.NewBrowseHandler(genreRepo, theaterRepo, seatRepo, screeningRepo), config.LoadCacheConfig(), rdb)
	router.RegisterBooking(e, handler.NewBookingHandler(bookingSvc, reservationRepo), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
