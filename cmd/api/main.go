package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/inventory-backend/internal/api"
	"github.com/baharkarakas/inventory-backend/internal/api/handlers"
	"github.com/baharkarakas/inventory-backend/internal/auth"
	"github.com/baharkarakas/inventory-backend/internal/config"
	"github.com/baharkarakas/inventory-backend/internal/db"
	"github.com/baharkarakas/inventory-backend/internal/logger"
	"github.com/baharkarakas/inventory-backend/internal/metrics"
	"github.com/baharkarakas/inventory-backend/internal/middleware"
	"github.com/baharkarakas/inventory-backend/internal/notify"
	"github.com/baharkarakas/inventory-backend/internal/repository/postgres"
	"github.com/baharkarakas/inventory-backend/internal/services"
	"github.com/baharkarakas/inventory-backend/internal/storage"
	"github.com/baharkarakas/inventory-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if shared := cfg.SharedSecrets(); len(shared) > 0 {
		log.Warn("token purposes share a signing secret", "pairs", shared)
	}

	if cfg.Migrate {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4, 100)
	defer wp.Stop()

	mailer, err := newMailer(cfg, log, wp)
	if err != nil {
		log.Error("mailer", "err", err)
		os.Exit(1)
	}
	images, err := newImageStore(ctx, cfg)
	if err != nil {
		log.Error("image store", "err", err)
		os.Exit(1)
	}
	uploader := storage.NewUploader(images, cfg.UploadMaxBytes)

	tm := auth.NewTokenManager(auth.TokenConfig{
		Issuer:           cfg.JWTIssuer,
		SessionSecret:    cfg.JWTSecret,
		ActivationSecret: cfg.JWTActivationSecret,
		ResetSecret:      cfg.JWTResetSecret,
		SessionTTL:       cfg.SessionTTL,
		ActivationTTL:    cfg.ActivationTTL,
		ResetTTL:         cfg.ResetTTL,
	})
	notifier := notify.NewNotifier(notify.NotifierConfig{
		ShopName:    cfg.MailFromName,
		PublicHost:  cfg.PublicHost,
		FrontendURL: cfg.FrontendURL,
	}, mailer)

	authSvc := services.NewAuthService(repos.Users, tm, auth.NewPasswordHasher(cfg.BcryptCost), notifier, log)
	userSvc := services.NewUserService(repos.Users)
	invSvc := services.NewInventoryService(repos.Items)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Auth:        handlers.NewAuthHandler(authSvc, log),
		Users:       handlers.NewUserHandler(userSvc, uploader),
		Inventory:   handlers.NewInventoryHandler(invSvc, uploader),
		Gate:        middleware.NewAuthMiddleware(tm, repos.Users),
		Images:      images,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "uploads", cfg.UploadBackend, "mail_async", cfg.MailAsync)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// newMailer falls back to logging mails when no SMTP host is configured.
func newMailer(cfg config.Config, log *slog.Logger, wp *worker.Pool) (notify.Mailer, error) {
	var m notify.Mailer
	if cfg.MailHost == "" {
		log.Warn("EMAIL_SERVICE_HOST not set, mails are only logged")
		m = notify.LogMailer{Log: log}
	} else {
		smtp, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUser,
			Password: cfg.MailPass,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		})
		if err != nil {
			return nil, err
		}
		m = smtp
	}
	if cfg.MailAsync {
		m = notify.NewAsyncMailer(m, wp, log)
	}
	return m, nil
}

func newImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	switch cfg.UploadBackend {
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    "uploads/",
		})
	case "disk", "":
		return storage.NewDiskStore(cfg.UploadDir)
	default:
		return nil, errors.New("UPLOAD_BACKEND must be disk or s3")
	}
}
