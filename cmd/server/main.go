package main // Entry point package

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework for the ops endpoints

	"github.com/iliyamo/bus-seat-reservation/internal/config"
	"github.com/iliyamo/bus-seat-reservation/internal/engine"
	"github.com/iliyamo/bus-seat-reservation/internal/handler"
	"github.com/iliyamo/bus-seat-reservation/internal/model"
	"github.com/iliyamo/bus-seat-reservation/internal/queue"
	"github.com/iliyamo/bus-seat-reservation/internal/ratelimit"
	"github.com/iliyamo/bus-seat-reservation/internal/registry"
	"github.com/iliyamo/bus-seat-reservation/internal/repository"
	"github.com/iliyamo/bus-seat-reservation/internal/router"
	"github.com/iliyamo/bus-seat-reservation/internal/server"
	queue_publisher "github.com/iliyamo/bus-seat-reservation/internal/service"
	"github.com/iliyamo/bus-seat-reservation/internal/validator"
)

func main() {
	_ = godotenv.Load() // best effort; env vars win over .env
	cfg := config.Load()

	// Trip catalog: the built-in routes unless TRIPS overrides them.
	reg := registry.Default()
	if cfg.Trips != "" {
		trips, err := registry.ParseCatalog(cfg.Trips)
		if err != nil {
			log.Fatal(err)
		}
		if reg, err = registry.New(trips); err != nil {
			log.Fatal(err)
		}
	}
	logCatalog(reg.List())

	store := repository.New(reg, validator.Name, validator.Phone)
	eng := engine.New(store, queue_publisher.Publisher{})

	// Redis-backed per-session rate limiting; nil limiter = pass-through.
	lim := ratelimit.New(config.LoadRateLimitConfig(), config.NewRedisClient())
	if lim == nil {
		log.Printf("rate limiting disabled")
	}

	// Optional in-process consumer writing logs/booking.log.
	if cfg.ConsumerEnabled {
		go func() {
			if err := queue.StartSeatBookedConsumer(queue_publisher.BrokerURL()); err != nil {
				log.Printf("booking-consumer: %v", err)
			}
		}()
	}

	// Ops HTTP server (health check, availability view).
	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, handler.NewTripsHandler(store))
	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil {
			log.Printf("ops http server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("starting (env=%s)", cfg.Env)
	srv := server.New(eng, lim)
	if err := srv.ListenAndServe(ctx, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
	log.Printf("shut down")
}

func logCatalog(trips []model.Trip) {
	for _, t := range trips {
		log.Printf("trip %q with %d seats", t.ID, t.TotalSeats)
	}
}
