package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard-service/cmd/controllers"
	"jobboard-service/cmd/routes"
	"jobboard-service/internal/accounts"
	"jobboard-service/internal/auth"
	"jobboard-service/internal/configs"
	"jobboard-service/internal/jobs"
	"jobboard-service/internal/mailer"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	setupLogging(cfg)

	log.Info().Msg("Starting server...")
	ctx := context.Background()

	db, closeDB, err := configs.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}

	mail, closeMail := newMailer(cfg)
	denylist := newDenylist(ctx, cfg)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTEmailSecret, cfg.SessionTTL, cfg.VerificationTTL)
	gate := auth.NewGate(db, tokens, denylist)
	accountService := accounts.NewService(db, tokens, auth.NewHasher(cfg.BcryptCost), mail, cfg.PublicBaseURL)
	jobService := jobs.NewService(db)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := controllers.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go limiter.Sweep(sweepCtx, time.Minute, 5*time.Minute)

	router := routes.NewRouter(routes.Handlers{
		Auth:    controllers.NewAuthController(accountService, gate, cfg.SessionTTL, cfg.Production(), cfg.FrontendURL),
		Jobs:    controllers.NewJobController(jobService),
		Gate:    gate,
		Health:  controllers.Health(db),
		Limiter: limiter,
	}, cfg.CORSOrigins, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Error starting server on port " + cfg.Port)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	stopSweep()
	if err := mail.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Gave up waiting for pending emails")
	}
	if err := closeMail(); err != nil {
		log.Error().Err(err).Msg("Error closing mailer")
	}
	if err := closeDB(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
}

func setupLogging(cfg configs.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newMailer picks the delivery backend and wraps it so sends never block a request.
func newMailer(cfg configs.Config) (*mailer.Async, func() error) {
	noop := func() error { return nil }
	switch cfg.MailDriver {
	case "brevo":
		return mailer.NewAsync(mailer.NewBrevoMailer(cfg.BrevoAPIKey, cfg.MailFrom, cfg.MailFromName), cfg.MailTimeout), noop
	case "kafka":
		k := mailer.NewKafkaMailer(cfg.KafkaBrokers, cfg.KafkaTopic)
		return mailer.NewAsync(k, cfg.MailTimeout), k.Close
	default:
		return mailer.NewAsync(mailer.LogMailer{}, cfg.MailTimeout), noop
	}
}

func newDenylist(ctx context.Context, cfg configs.Config) auth.Denylist {
	if cfg.RedisAddr == "" {
		log.Info().Msg("No REDIS_ADDR set, logout will not revoke sessions server-side")
		return auth.NoopDenylist{}
	}
	rdb, err := auth.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to redis")
	}
	return auth.NewRedisDenylist(rdb)
}
