package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/router"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
	"github.com/iliyamo/movie-ticket-booking/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	theaterRepo := repository.NewTheaterRepo(db)
	showRepo := repository.NewShowRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	pricingRepo := repository.NewPricingRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	bookedSeatRepo := repository.NewBookedSeatRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	ticketRepo := repository.NewTicketRepo(db)

	pendingTTL := time.Duration(cfg.PendingTTLMin) * time.Minute
	publisher := service.NewPublisher(cfg.RabbitURL)

	handlers := &router.Handlers{
		Browse:  handler.NewBrowseHandler(theaterRepo, showRepo, seatRepo),
		Booking: handler.NewBookingHandler(showRepo, seatRepo, pricingRepo, bookingRepo, bookedSeatRepo, theaterRepo, pendingTTL),
		Payment: handler.NewPaymentHandler(bookingRepo, paymentRepo, ticketRepo, seatRepo, bookedSeatRepo, showRepo, publisher),
		Ticket:  handler.NewTicketHandler(ticketRepo),
		Pricing: handler.NewPricingHandler(theaterRepo, pricingRepo),
	}

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting, caching and the expiry sweep are disabled")
	} else {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handlers.Browse, cacheMW)
	router.RegisterCustomer(e, handlers, cfg.JWTSecret)
	router.RegisterOwner(e, handlers, cfg.JWTSecret)

	if rdb != nil {
		opts := config.RedisOptions()
		redisOpt := asynq.RedisClientOpt{
			Addr:      opts.Addr,
			Password:  opts.Password,
			DB:        opts.DB,
			TLSConfig: opts.TLSConfig,
		}
		sweeper := worker.NewSweeper(bookingRepo)
		go func() {
			if err := worker.Run(redisOpt, sweeper, pendingTTL, cfg.SweepBatch); err != nil {
				log.Printf("expiry-worker: %v", err)
			}
		}()
	}

	go func() {
		if err := queue.StartBookingConsumer(cfg.RabbitURL); err != nil {
			log.Printf("booking-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
