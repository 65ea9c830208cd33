package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mahmoudabdel098/ClientProjectTracker/internal/app"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/auth"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/authpw"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/blob"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/config"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/session"
	"github.com/mahmoudabdel098/ClientProjectTracker/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	var dataStore store.Storage
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("database connection failed")
		}
		defer db.Close()

		if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
		dataStore = store.NewPostgresStore(db)
		log.Info("using PostgreSQL storage")
	} else {
		dataStore = store.NewMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var blobs blob.Store
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		minioStore, err := blob.NewMinioStore(ctx, blob.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			MaxSize:   cfg.MaxUploadBytes,
		})
		if err != nil {
			log.WithError(err).Fatal("minio connection failed")
		}
		blobs = minioStore
		log.WithField("bucket", cfg.MinioBucket).Info("using MinIO blob storage")
	} else {
		diskStore, err := blob.NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes)
		if err != nil {
			log.WithError(err).Fatal("upload dir setup failed")
		}
		blobs = diskStore
		log.WithField("dir", cfg.UploadDir).Info("using disk blob storage")
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	accounts := authpw.NewService(dataStore)

	var service *app.Service
	if strings.TrimSpace(cfg.RedisURL) != "" {
		sessions, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer sessions.Close()
		service = app.NewWithSessionStore(dataStore, sessions, blobs, tokens, accounts, cfg.RefreshTTL, log)
		log.Info("using Redis for refresh sessions")
	} else {
		service = app.New(dataStore, blobs, tokens, accounts, cfg.RefreshTTL, log)
		log.Info("using primary storage for refresh sessions")
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, cfg.MaxUploadBytes, log)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown error")
	}
}
