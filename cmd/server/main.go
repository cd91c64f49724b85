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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/FleetPro/service-dashboard/internal/application"
	"github.com/FleetPro/service-dashboard/internal/config"
	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
	"github.com/FleetPro/service-dashboard/internal/domain/session"
	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
	fleetEvents "github.com/FleetPro/service-dashboard/internal/events"
	"github.com/FleetPro/service-dashboard/internal/handler"
	"github.com/FleetPro/service-dashboard/internal/platform/auth"
	"github.com/FleetPro/service-dashboard/internal/platform/database"
	"github.com/FleetPro/service-dashboard/internal/platform/health"
	"github.com/FleetPro/service-dashboard/internal/platform/kafka"
	"github.com/FleetPro/service-dashboard/internal/platform/logger"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/repository"
)

const (
	serviceName          = "service-dashboard"
	sessionSweepInterval = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageDriver),
		zap.String("sessions", cfg.SessionConfig.Store),
		zap.Bool("kafka", cfg.KafkaConfig.Enabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Route catalog is fixed at start-up
	catalog, err := routeDomain.NewSeedCatalog()
	if err != nil {
		log.Fatal("failed to build route catalog", zap.Error(err))
	}

	// Initialize repositories
	db, employeeRepo, rideRepo, sosRepo := openRepositories(cfg, log)
	if err := repository.SeedIfEmpty(ctx, employeeRepo, rideRepo, sosRepo, log); err != nil {
		log.Fatal("failed to seed repositories", zap.Error(err))
	}

	healthHandler := health.NewHandler(db, serviceName)

	// Initialize session store
	var sessionStore session.Store
	switch cfg.SessionConfig.Store {
	case "redis":
		redisStore, err := repository.NewRedisSessionStore(repository.RedisSessionConfig{
			Addr:     cfg.SessionConfig.RedisAddr,
			Password: cfg.SessionConfig.RedisPassword,
			DB:       cfg.SessionConfig.RedisDB,
			Prefix:   cfg.SessionConfig.KeyPrefix,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisStore.Close() }()
		healthHandler.AddChecker("redis", redisStore)
		sessionStore = redisStore
	default:
		sessionStore = repository.NewMemorySessionStore()
	}

	// Initialize auth
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)
	mockAuth := application.NewMockAuthProvider(jwtManager, sessionStore, log)
	var authProvider application.SessionProvider = mockAuth

	// Initialize Kafka producer
	var publisher kafka.Publisher = kafka.NoopPublisher{}
	if cfg.KafkaConfig.Enabled {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}
	eventPublisher := application.NewEventPublisher(publisher, cfg.KafkaConfig.EventsTopic, log)

	// Initialize application services
	routeService := application.NewRouteService(catalog, log)
	assistantService := application.NewAssistantService(catalog, cfg.Assistant.ResolveDelay, cfg.Assistant.ChatDelay, log)
	mockAuth.OnLogout(assistantService.DropSession)
	// No token outlives its access TTL, so a session idle that long has expired.
	go assistantService.RunSweeper(ctx, sessionSweepInterval, cfg.JWTConfig.AccessTTL)
	employeeService := application.NewEmployeeService(employeeRepo, eventPublisher, log)
	rideService := application.NewRideService(rideRepo, eventPublisher, log)
	sosService := application.NewSOSService(sosRepo, eventPublisher, log)
	analyticsService := application.NewAnalyticsService(catalog, employeeRepo, rideRepo, sosRepo)

	// Initialize and start SOS event consumer in a goroutine
	if cfg.KafkaConfig.Enabled {
		groupID := cfg.KafkaConfig.GroupPrefix + "dashboard-service"
		sosConsumer := fleetEvents.NewSOSEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			cfg.KafkaConfig.SOSTopic,
			sosService,
			log,
		)
		defer func() { _ = sosConsumer.Close() }()

		go func() {
			log.Info("starting sos event consumer", zap.String("topic", cfg.KafkaConfig.SOSTopic))
			if err := sosConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("sos event consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler.RegisterRoutes(router)

	// Register routes
	api := &router.RouterGroup
	handler.NewAuthHandler(authProvider).RegisterRoutes(api)
	handler.NewRouteHandler(routeService).RegisterRoutes(api, authProvider)
	handler.NewAssistantHandler(assistantService).RegisterRoutes(api, authProvider)
	handler.NewEmployeeHandler(employeeService).RegisterRoutes(api, authProvider)
	handler.NewRideHandler(rideService).RegisterRoutes(api, authProvider)
	handler.NewSOSHandler(sosService).RegisterRoutes(api, authProvider)
	handler.NewAdminHandler(analyticsService).RegisterRoutes(api, authProvider)

	// Create HTTP server. The write timeout leaves room for long-polling
	// route queries and the simulated chat delay.
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

// openRepositories returns the storage selected by storage.driver. db is nil
// for the in-memory driver.
func openRepositories(cfg *config.ServiceConfig, log *zap.Logger) (
	*gorm.DB,
	employeeDomain.EmployeeRepository,
	rideDomain.RequestRepository,
	sosDomain.AlertRepository,
) {
	if cfg.StorageDriver != "postgres" {
		log.Info("using in-memory storage")
		return nil,
			repository.NewMemoryEmployeeRepository(),
			repository.NewMemoryRideRequestRepository(),
			repository.NewMemorySOSAlertRepository()
	}

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.EmployeeModel{}, &repository.RideRequestModel{}, &repository.SOSAlertModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	return db,
		repository.NewGormEmployeeRepository(db),
		repository.NewGormRideRequestRepository(db),
		repository.NewGormSOSAlertRepository(db)
}
