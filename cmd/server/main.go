package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"massage-booking-api/internal/config"
	"massage-booking-api/internal/handler"
	"massage-booking-api/internal/middleware"
	"massage-booking-api/internal/notify"
	"massage-booking-api/internal/planning"
	"massage-booking-api/internal/router"
	"massage-booking-api/internal/store"
)

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("service", "massage-booking-api").Logger()
	}
	return zerolog.New(os.Stdout).
		With().Timestamp().Str("service", "massage-booking-api").Logger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}
	log := newLogger(cfg.Env)

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping")
	}
	log.Info().Msg("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Warn().Err(err).Msg("migration file not found, skipping")
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		log.Warn().Err(err).Msg("migration warning")
	} else {
		log.Info().Msg("migration applied")
	}

	st := store.New(pool)
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, st, log)
	svc := planning.NewService(st, st, st, mailer, log)
	h := handler.New(st, svc, cfg.JWTSecret, cfg.UploadDir, log)

	rl := middleware.NewRateLimiter(cfg.LoginRPS, cfg.LoginBurst)
	r := router.New(h, st, cfg.JWTSecret, rl)

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Recover(log, middleware.RequestLogger(log, middleware.SecurityHeaders(c.Handler(r)))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
