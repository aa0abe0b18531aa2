// Command api runs the MediFirst HTTP API.
//
// @title                       MediFirst API
// @version                     1.0
// @description                 First-aid guides, medical profiles and account recovery for the MediFirst app.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medifirst/medifirst-api/internal/api"
	"github.com/medifirst/medifirst-api/internal/api/handler"
	"github.com/medifirst/medifirst-api/internal/api/metrics"
	"github.com/medifirst/medifirst-api/internal/core/ports"
	"github.com/medifirst/medifirst-api/internal/core/service"
	mongodb "github.com/medifirst/medifirst-api/internal/infrastructure/db/mongo"
	redisdb "github.com/medifirst/medifirst-api/internal/infrastructure/db/redis"
	"github.com/medifirst/medifirst-api/internal/infrastructure/mail"
	"github.com/medifirst/medifirst-api/internal/infrastructure/queue"
	"github.com/medifirst/medifirst-api/internal/pkg/config"
	"github.com/medifirst/medifirst-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "medifirst-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "medifirst-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	guideRepo := mongodb.NewGuideRepository(db)
	auditRepo := mongodb.NewResetAuditRepository(db)
	throttle := redisdb.NewResetThrottle(rdb, cfg.Reset.ThrottleLimit, cfg.Reset.ThrottleWindow)

	// --- Background workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	views := queue.NewViewRecorder(cfg.ViewWorkers, guideRepo, log)
	views.Start(workerCtx)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, cfg.Auth.BcryptCost, log)
	resetService := service.NewPasswordResetService(userRepo, notifier, throttle, auditRepo, service.PasswordResetConfig{
		PublicURL:   cfg.PublicURL,
		TokenTTL:    cfg.Reset.TokenTTL,
		SendTimeout: cfg.Mail.Timeout,
		BcryptCost:  cfg.Auth.BcryptCost,
	}, log)
	profileService := service.NewProfileService(userRepo, log)
	guideService := service.NewGuideService(guideRepo, views, log)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		PasswordReset: resetService,
		Profile:       profileService,
		Guides:        guideService,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		JWTSecret: cfg.Auth.JWTSecret,
		Logger:    log,
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("mail_driver", cfg.MailDriver()).
			Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received interruption signal, shutting down")
	case err := <-srvErr:
		stopWorkers()
		views.Wait()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Flush pending view counts after the last request is served.
	stopWorkers()
	views.Wait()
	return nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) (ports.Notifier, error) {
	switch cfg.MailDriver() {
	case config.MailDriverSMTP:
		n, err := mail.NewSMTPNotifier(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			TLS:      cfg.Mail.TLS,
			Timeout:  cfg.Mail.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return metrics.InstrumentNotifier(n), nil
	default:
		return metrics.InstrumentNotifier(mail.NewLogNotifier(log.With().Str("component", "mail").Logger())), nil
	}
}
