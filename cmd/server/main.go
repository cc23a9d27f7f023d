package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/notaio/notaio-backend/internal/config"
	"github.com/notaio/notaio-backend/internal/database"
	"github.com/notaio/notaio-backend/internal/handler"
	"github.com/notaio/notaio-backend/internal/middleware"
	"github.com/notaio/notaio-backend/internal/queue"
	"github.com/notaio/notaio-backend/internal/repository"
	"github.com/notaio/notaio-backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	patients := repository.NewPatientRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	availability := repository.NewAvailabilityRepo(db)

	// Redis is optional: without it the limiter and cache pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	authn := middleware.Authenticate(cfg.JWTSecret, users)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, profiles), authn, limit)
	router.RegisterPublic(e, handler.NewPublicHandler(profiles, availability), cache)
	router.RegisterPractice(e,
		handler.NewProfileHandler(users, profiles),
		handler.NewPatientHandler(patients),
		handler.NewAppointmentHandler(appointments),
		handler.NewAvailabilityHandler(availability),
		authn,
	)

	// Background consumer owns its broker connection and reconnects on
	// its own; it never stops the API.
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
