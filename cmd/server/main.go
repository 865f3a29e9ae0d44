package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/giftcard_vault/internal/audit"
	"github.com/Skotchmaster/giftcard_vault/internal/config"
	"github.com/Skotchmaster/giftcard_vault/internal/events"
	"github.com/Skotchmaster/giftcard_vault/internal/httpserver"
	"github.com/Skotchmaster/giftcard_vault/internal/identity"
	"github.com/Skotchmaster/giftcard_vault/internal/images"
	"github.com/Skotchmaster/giftcard_vault/internal/logging"
	authmw "github.com/Skotchmaster/giftcard_vault/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/giftcard_vault/internal/middleware/logging"
	"github.com/Skotchmaster/giftcard_vault/internal/repo"
	"github.com/Skotchmaster/giftcard_vault/internal/service"
	"github.com/Skotchmaster/giftcard_vault/internal/tokens"
)

const startupTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := config.InitDB(startCtx, cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	store := repo.New(db)

	issuer, err := tokens.NewIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}
	verifier, err := tokens.NewVerifier(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}

	var cache identity.UserCache
	if cfg.RedisAddr != "" {
		rdb, err := identity.NewRedisClient(startCtx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		cache = identity.NewRedisCache(rdb)
	}

	var (
		producer  *events.Producer
		publisher []events.Publisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(startCtx, cfg.KafkaBrokers[0], service.TopicUserEvents, service.TopicGiftcardEvents); err != nil {
			logger.Warn("kafka_topics_not_created", "error", err)
		}
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = append(publisher, producer)
	}
	if cfg.ESURL != "" {
		esClient, err := audit.NewClient(startCtx, audit.ClientConfig{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		publisher = append(publisher, audit.NewLog(esClient, cfg.ESAuditIndex))
	}
	pub := events.Combine(publisher...)

	var imageStore images.Store
	if cfg.MinioEndpoint != "" {
		imageStore, err = images.NewMinioStore(startCtx, images.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	} else {
		imageStore, err = images.NewDiskStore(cfg.ImageDir)
	}
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	authSvc := &service.AuthService{
		Users:    store,
		Issuer:   issuer,
		Verifier: verifier,
		Resolver: identity.NewResolver(store, cache),
		Events:   pub,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc},
		GiftcardHandler: &httpserver.GiftcardHTTP{Svc: service.NewGiftcardService(store, pub)},
		ImageHandler:    &httpserver.ImageHTTP{Store: imageStore},
		TokenAuth:       authmw.NewTokenAuth(authSvc),
		DB:              store,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	log.Println("shutdown complete")
}
