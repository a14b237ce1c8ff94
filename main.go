// Package main provides the main entry point for the CallDesk CRM backend
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calldesk-crm/calldesk/app/handlers"
	"github.com/calldesk-crm/calldesk/app/middleware"
	"github.com/calldesk-crm/calldesk/app/router"
	"github.com/calldesk-crm/calldesk/app/scheduler"
	"github.com/calldesk-crm/calldesk/app/services"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/calldesk-crm/calldesk/config"
	_ "github.com/calldesk-crm/calldesk/docs"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting CallDesk application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService selects the SMS provider based on configuration
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	var provider services.SMSProvider
	if cfg.SMS.APIURL == "" {
		provider = services.NewMockSMSProvider()
	} else {
		provider = services.NewHTTPSMSProvider(cfg.SMS.APIURL, cfg.SMS.APIKey, cfg.SMS.SourceNumber)
	}
	return services.NewNotificationService(provider)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	requestRepo := repository.NewRequestRepository(db)
	campaignRepo := repository.NewAdvertisingCampaignRepository(db)
	masterRepo := repository.NewMasterRepository(db)
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewCashTransactionRepository(db)

	// Initialize services
	notificationService := initializeNotificationService(cfg)

	captchaSvc, err := services.NewCaptchaServiceRotate(
		cfg.Security.CaptchaTTL,
		cfg.Security.CaptchaPadding,
		cfg.Security.CaptchaImgSize,
	)
	if err != nil {
		return nil, err
	}

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Per-phone locks guarding webhook request creation
	var lockCache redis.Cmdable
	if rc != nil {
		lockCache = rc
	}
	phoneLocks := businessflow.NewPhoneLockManager(lockCache, utils.WebhookLockTTL)

	// Initialize flows
	callEventFlow := businessflow.NewCallEventFlow(
		requestRepo,
		campaignRepo,
		phoneLocks,
		notificationService,
		cfg.Admin,
		db,
		cfg.Mango.DedupWindow,
		log.Default(),
	)

	loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, captchaSvc)
	requestFlow := businessflow.NewRequestFlow(requestRepo, masterRepo)
	attachmentFlow := businessflow.NewAttachmentFlow(requestRepo, cfg.Uploads.Dir)
	transactionFlow := businessflow.NewTransactionFlow(transactionRepo, requestRepo, masterRepo)
	reportFlow := businessflow.NewReportFlow(requestRepo, transactionRepo)
	masterFlow := businessflow.NewMasterFlow(masterRepo)
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo)

	// Recording fetcher with its own rotating log
	fetcherLogger := utils.NewComponentLogger(
		"recording-fetcher",
		cfg.Logging.FetcherLogPath,
		cfg.Logging.MaxSize,
		cfg.Logging.MaxBackups,
		cfg.Logging.MaxAge,
		cfg.Logging.Compress,
	)
	linkFlow := businessflow.NewRecordingLinkFlow(requestRepo, cfg.Recordings.LinkTolerance, fetcherLogger)

	var mailClient services.MailClient
	if cfg.Mail.IMAPAddr != "" {
		mailClient = services.NewIMAPMailClient(cfg.Mail.IMAPAddr, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.Folder)
	}

	// The fetcher is constructed stopped; polling begins only when an
	// admin hits the start endpoint. Stop on shutdown is a no-op when
	// the service was never started.
	fetcher := scheduler.NewRecordingFetcher(mailClient, linkFlow, cfg.Recordings.MediaDir, cfg.Recordings.PollInterval, fetcherLogger)
	stopFuncs = append(stopFuncs, fetcher.Stop)
	if mailClient == nil {
		log.Println("Mailbox not configured, manual polls will fail until MAIL_IMAP_ADDR is set")
	}

	// Initialize handlers
	h := router.Handlers{
		Auth:        handlers.NewAuthHandler(loginFlow),
		Webhook:     handlers.NewWebhookHandler(callEventFlow, cfg.Mango.WebhookToken),
		Request:     handlers.NewRequestHandler(requestFlow, attachmentFlow),
		Recording:   handlers.NewRecordingHandler(fetcher),
		Transaction: handlers.NewTransactionHandler(transactionFlow),
		Report:      handlers.NewReportHandler(reportFlow),
		Master:      handlers.NewMasterHandler(masterFlow),
		Campaign:    handlers.NewCampaignHandler(campaignFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, h, authMiddleware)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
