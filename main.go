package main

import (
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"phishguard/config"
	"phishguard/directory"
	"phishguard/middleware"
	"phishguard/routes"
	"phishguard/store"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "SERVER: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Error reporting, enabled only when a DSN is configured
	if config.AppConfig.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize Sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize storage backend
	var (
		dataStore store.Store
		err       error
	)
	switch config.AppConfig.StoreDriver {
	case config.StoreDriverPostgres:
		dataStore, err = store.NewPostgresStore(config.AppConfig.DSN(), store.PoolConfig{
			MaxIdleConns: config.AppConfig.DBMaxIdleConns,
			MaxOpenConns: config.AppConfig.DBMaxOpenConns,
		})
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
	default:
		dataStore = store.NewMemoryStore()
	}

	// Directory client for enrollment sync
	ldapClient := directory.NewLDAPClient(config.AppConfig.LDAP)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Add CORS middleware
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   config.AppConfig.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		MaxAge:           3600,
	}))

	// Setup routes
	routes.Setup(app, dataStore, ldapClient)

	// Start server
	logger.Printf("Server starting on port %s (store: %s)",
		config.AppConfig.ServerPort, config.AppConfig.StoreDriver)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
