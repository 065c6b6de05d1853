package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/carwash-slot-booking/internal/booking"
	"github.com/iliyamo/carwash-slot-booking/internal/config"
	"github.com/iliyamo/carwash-slot-booking/internal/database"
	"github.com/iliyamo/carwash-slot-booking/internal/handler"
	"github.com/iliyamo/carwash-slot-booking/internal/middleware"
	"github.com/iliyamo/carwash-slot-booking/internal/queue"
	"github.com/iliyamo/carwash-slot-booking/internal/repository"
	"github.com/iliyamo/carwash-slot-booking/internal/router"
	queue_publisher "github.com/iliyamo/carwash-slot-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	store := repository.NewSQLStore(db)
	coord := booking.NewCoordinator(store)
	driver := booking.NewRetryDriver(coord, cfg.ReserveMaxAttempts, cfg.ReserveBackoffBase, cfg.ReserveBackoffCap)

	// Background consumer builds the audit trail from confirmed events.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting falls back to in-process buckets")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterReservation(e,
		handler.NewReservationHandler(driver, store, queue_publisher.PublishBookingConfirmed),
		cfg.JWTSecret, limiter)
	router.RegisterOperator(e,
		handler.NewOperatorHandler(store, store, driver),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
