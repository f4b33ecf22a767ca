// @title EduEvent Hub API
// @version 1.0
// @description Campus event registration with seat tracking, volunteers, finance, hostel and canteen services.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eduevent/config"
	_ "eduevent/docs"
	"eduevent/internal/adapters/auth"
	"eduevent/internal/adapters/email"
	"eduevent/internal/adapters/queue"
	"eduevent/internal/adapters/storage"
	deliveryhttp "eduevent/internal/delivery/http"
	"eduevent/internal/delivery/http/controllers"
	"eduevent/internal/delivery/http/middleware"
	"eduevent/internal/domain"
	"eduevent/internal/repository/memory"
	"eduevent/internal/repository/postgres"
	"eduevent/internal/services"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	users         domain.UserRepository
	events        domain.EventRepository
	registrations domain.RegistrationRepository
	volunteers    domain.VolunteerRepository
	hostel        domain.HostelRepository
	canteen       domain.CanteenRepository
}

func postgresStores(db *sql.DB) stores {
	return stores{
		users:         postgres.NewUserRepository(db),
		events:        postgres.NewEventRepository(db),
		registrations: postgres.NewRegistrationRepository(db),
		volunteers:    postgres.NewVolunteerRepository(db),
		hostel:        postgres.NewHostelRepository(db),
		canteen:       postgres.NewCanteenRepository(db),
	}
}

func memoryStores() stores {
	return stores{
		users:         memory.NewUserRepository(),
		events:        memory.NewEventRepository(),
		registrations: memory.NewRegistrationRepository(),
		volunteers:    memory.NewVolunteerRepository(),
		hostel: memory.NewHostelRepository(
			&domain.HostelRoom{RoomNumber: "101", Block: "A", Capacity: 2},
			&domain.HostelRoom{RoomNumber: "102", Block: "A", Capacity: 2},
			&domain.HostelRoom{RoomNumber: "201", Block: "B", Capacity: 3},
		),
		canteen: memory.NewCanteenRepository(),
	}
}

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos stores
	if cfg.DBUrl != "" {
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()
		repos = postgresStores(db)
		logger.Info("using postgres stores")
	} else {
		repos = memoryStores()
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.AWS.Region,
			AccessKeyID:        cfg.AWS.AccessKeyID,
			SecretAccessKey:    cfg.AWS.SecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	notifier := services.NewRegistrationNotifier(repos.users, services.NewEmailService(logger, mailer, renderer))

	var publisher domain.RegistrationPublisher = queue.NewInlinePublisher(notifier)
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := queue.NewPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			return err
		}
		defer func() { _ = amqpPublisher.Close() }()
		publisher = amqpPublisher

		consumer := queue.NewConsumer(cfg.RabbitMQURL, notifier, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("registration consumer stopped", "err", err)
			}
		}()
	}

	var documents domain.DocumentStore = storage.NewMemoryStore()
	if cfg.Documents.Bucket != "" {
		s3Store, err := storage.NewS3Store(storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.Documents.Bucket,
			Endpoint:        cfg.Documents.Endpoint,
		})
		if err != nil {
			return err
		}
		documents = s3Store
	}

	rateLimit := middleware.RateLimit(cfg.RateLimit, nil, logger)
	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, registration rate limiting disabled", "err", err)
	} else if rdb != nil {
		defer func() { _ = rdb.Close() }()
		rateLimit = middleware.RateLimit(cfg.RateLimit, rdb, logger)
	}

	jwt := auth.NewJWT(cfg.JWTSecret)
	c := deliveryhttp.Controllers{
		Auth: controllers.NewAuthController(logger,
			services.NewAuthService(repos.users, auth.NewBcryptHasher(bcrypt.DefaultCost), jwt, cfg.JWTExpiry)),
		Event: controllers.NewEventController(logger, services.NewEventService(repos.events, cfg.RequestTimeout)),
		Registration: controllers.NewRegistrationController(logger,
			services.NewRegistrationService(logger, repos.events, repos.registrations, services.NewTokenGenerator(), publisher)),
		Certificate: controllers.NewCertificateController(logger,
			services.NewCertificateService(repos.events, repos.registrations, repos.users)),
		Document:  controllers.NewDocumentController(logger, services.NewDocumentService(documents)),
		Volunteer: controllers.NewVolunteerController(logger, services.NewVolunteerService(repos.volunteers, repos.events)),
		Finance:   controllers.NewFinanceController(logger, services.NewFinanceService(repos.events)),
		Hostel:    controllers.NewHostelController(logger, services.NewHostelService(repos.hostel)),
		Canteen:   controllers.NewCanteenController(logger, services.NewCanteenService(repos.canteen)),
	}
	mux := deliveryhttp.NewRouter(c, jwt, rateLimit, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(mux, cfg.CORSAllowedOrigins, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
