// Command api runs the account service HTTP server.
//
// @title        Account Service API
// @version      1.0
// @description  Account registration, verification, login and role management.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/examplecore/account-service/internal/api"
	"github.com/examplecore/account-service/internal/infrastructure/config"
	mongostore "github.com/examplecore/account-service/internal/infrastructure/db/mongo"
	redisstore "github.com/examplecore/account-service/internal/infrastructure/db/redis"
	"github.com/examplecore/account-service/internal/infrastructure/email"
	"github.com/examplecore/account-service/internal/infrastructure/queue"
	"github.com/examplecore/account-service/pkg/logger"
)

const mailWorkers = 4

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Secret material is checked once, loudly, at startup. Requests that hit
	// the gap anyway answer with an opaque 500.
	if cfg.Security.Pepper == "" {
		log.Error().Msg("AUTHENTICATION MISCONFIGURATION: SECURITY_PEPPER is not set")
	}
	if cfg.JWT.Key == "" {
		log.Error().Msg("AUTHENTICATION MISCONFIGURATION: JWT_KEY is not set")
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mailer := email.NewSMTPMailer(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := queue.NewMailDispatcher(mailWorkers, mailer, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Config: cfg,
		Mongo:  db,
		Redis:  rdb,
		Mail:   dispatcher,
		Log:    log,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = e.Shutdown(context.Background())
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting account service")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Info().Err(err).Msg("server stopped")
	}
}
