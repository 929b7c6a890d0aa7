package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exam-manager/exam-system/internal/api"
	"github.com/exam-manager/exam-system/internal/core/ports"
	"github.com/exam-manager/exam-system/internal/infrastructure/config"
	"github.com/exam-manager/exam-system/internal/infrastructure/crypto"
	mongodb "github.com/exam-manager/exam-system/internal/infrastructure/db/mongo"
	redisdb "github.com/exam-manager/exam-system/internal/infrastructure/db/redis"
	"github.com/exam-manager/exam-system/internal/infrastructure/notify"
	"github.com/exam-manager/exam-system/internal/infrastructure/storage"
	"github.com/exam-manager/exam-system/pkg/logger"
)

const (
	mailWorkers     = 4
	resendPerMinute = 6
	shutdownTimeout = 10 * time.Second
)

// @title        Exam Manager API
// @version      1.0
// @description  Backend for exam candidate registration and actor profile management.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.Auth.AppKey == "" {
		log.Fatal().Msg("APP_KEY must be set")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect mongodb")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}()

	files, err := storage.NewLocalStore(cfg.Storage.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare upload storage")
	}

	var sender ports.Notifier
	if cfg.SMTP.Addr != "" {
		sender = notify.NewSMTPNotifier(cfg.SMTP.Addr, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass)
	} else {
		log.Warn().Msg("SMTP_ADDR not set, mail is logged instead of delivered")
		sender = notify.NewLogNotifier(log)
	}
	dispatcher := notify.NewDispatcher(mailWorkers, sender, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Mongo:    db,
		Redis:    rdb,
		Tokens:   mongodb.NewTokenRepository(db),
		OTPs:     redisdb.NewOTPStore(rdb, cfg.Auth.OTPTTL),
		Hasher:   crypto.NewBcryptHasher(),
		Notifier: dispatcher,
		Links:    crypto.NewLinkSigner(cfg.Auth.AppKey, cfg.BaseURL),
		Resets:   crypto.NewResetTokenIssuer(cfg.Auth.AppKey, cfg.Auth.ResetTTL),
		Throttle: redisdb.NewThrottle(rdb, resendPerMinute, time.Minute),
		Files:    files,
		BaseURL:  cfg.BaseURL,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}
