package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/afyahms/hms-api/internal/config"
	"github.com/afyahms/hms-api/internal/email"
	admissionHandler "github.com/afyahms/hms-api/internal/handler/admission"
	appointmentHandler "github.com/afyahms/hms-api/internal/handler/appointment"
	authHandler "github.com/afyahms/hms-api/internal/handler/auth"
	billingHandler "github.com/afyahms/hms-api/internal/handler/billing"
	departmentHandler "github.com/afyahms/hms-api/internal/handler/department"
	healthHandler "github.com/afyahms/hms-api/internal/handler/health"
	labHandler "github.com/afyahms/hms-api/internal/handler/lab"
	morgueHandler "github.com/afyahms/hms-api/internal/handler/morgue"
	patientHandler "github.com/afyahms/hms-api/internal/handler/patient"
	pharmacyHandler "github.com/afyahms/hms-api/internal/handler/pharmacy"
	reportHandler "github.com/afyahms/hms-api/internal/handler/report"
	staffHandler "github.com/afyahms/hms-api/internal/handler/staff"
	wardHandler "github.com/afyahms/hms-api/internal/handler/ward"
	"github.com/afyahms/hms-api/internal/middleware"
	"github.com/afyahms/hms-api/internal/repository/postgres"
	"github.com/afyahms/hms-api/internal/router"
	admissionService "github.com/afyahms/hms-api/internal/service/admission"
	appointmentService "github.com/afyahms/hms-api/internal/service/appointment"
	authService "github.com/afyahms/hms-api/internal/service/auth"
	billingService "github.com/afyahms/hms-api/internal/service/billing"
	departmentService "github.com/afyahms/hms-api/internal/service/department"
	labService "github.com/afyahms/hms-api/internal/service/lab"
	medicalService "github.com/afyahms/hms-api/internal/service/medical"
	morgueService "github.com/afyahms/hms-api/internal/service/morgue"
	patientService "github.com/afyahms/hms-api/internal/service/patient"
	pharmacyService "github.com/afyahms/hms-api/internal/service/pharmacy"
	reportService "github.com/afyahms/hms-api/internal/service/report"
	staffService "github.com/afyahms/hms-api/internal/service/staff"
	wardService "github.com/afyahms/hms-api/internal/service/ward"
	pkgauth "github.com/afyahms/hms-api/pkg/auth"
	"github.com/afyahms/hms-api/pkg/logger"
	"github.com/afyahms/hms-api/pkg/messaging/redis"
	"github.com/afyahms/hms-api/pkg/metrics"
	"github.com/afyahms/hms-api/pkg/security"
	"github.com/afyahms/hms-api/pkg/worker"
)

const metricsNamespace = "hms"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Logging)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	geoRepo := postgres.NewGeoRepository(db)
	wardRepo := postgres.NewWardRepository(db)
	admissionRepo := postgres.NewAdmissionRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	medicalRecordRepo := postgres.NewMedicalRecordRepository(db)
	morgueRepo := postgres.NewMorgueRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	labRepo := postgres.NewLabRepository(db)
	billRepo := postgres.NewBillRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(security.DefaultBcryptCost)
	mailer := email.NewService(cfg.Email, log.Logger)

	// Services
	authSvc := authService.NewService(userRepo, jwtSvc, hasher)
	staffSvc := staffService.NewService(userRepo, departmentRepo, hasher)
	patientSvc := patientService.NewService(patientRepo, outboxRepo)
	medicalSvc := medicalService.NewService(medicalRecordRepo, patientRepo)
	departmentSvc := departmentService.NewService(departmentRepo, geoRepo)
	wardSvc := wardService.NewService(wardRepo, departmentRepo)
	admissionSvc := admissionService.NewService(admissionRepo, patientRepo, wardRepo, userRepo, outboxRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, userRepo, outboxRepo, mailer)
	morgueSvc := morgueService.NewService(morgueRepo, patientRepo, admissionRepo)
	pharmacySvc := pharmacyService.NewService(medicineRepo, prescriptionRepo, patientRepo, outboxRepo)
	labSvc := labService.NewService(labRepo, patientRepo)
	billingSvc := billingService.NewService(billRepo, patientRepo)
	reportSvc := reportService.NewService(reportRepo, userRepo, billRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	handlers := router.Handlers{
		Health:      healthHandler.NewHandler(db),
		Auth:        authHandler.NewHandler(authSvc),
		Patient:     patientHandler.NewHandler(patientSvc, medicalSvc),
		Staff:       staffHandler.NewHandler(staffSvc),
		Department:  departmentHandler.NewHandler(departmentSvc),
		Ward:        wardHandler.NewHandler(wardSvc),
		Admission:   admissionHandler.NewHandler(admissionSvc),
		Appointment: appointmentHandler.NewHandler(appointmentSvc),
		Morgue:      morgueHandler.NewHandler(morgueSvc, cfg.Morgue.DailyStorageRate),
		Pharmacy:    pharmacyHandler.NewHandler(pharmacySvc),
		Lab:         labHandler.NewHandler(labSvc),
		Billing:     billingHandler.NewHandler(billingSvc),
		Report:      reportHandler.NewHandler(reportSvc),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.Security.AllowedHeaders
	}

	r := router.NewRouter(authMiddleware, handlers, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit: middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		},
		CORS:             corsConfig,
		RequestTimeout:   cfg.Server.RequestTimeout,
		MetricsNamespace: metricsNamespace,
	})
	r.Setup()

	appMetrics := metrics.New(metricsNamespace)

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, logger.NewLogger(nil), appMetrics)
	go outboxProcessor.Start(workerCtx)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize watcher logger")
	}
	defer zapLogger.Sync()

	reorderWatcher := worker.NewReorderWatcher(
		medicineRepo,
		mailer,
		cfg.Pharmacy.ReorderCheckInterval,
		zapLogger,
		appMetrics,
	)
	go reorderWatcher.Start(workerCtx)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
