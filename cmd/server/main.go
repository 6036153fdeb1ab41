package main

import (
	"context"
	"log"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/migrations"
	"storefront/internal/models"
	"storefront/internal/redis"
	"storefront/internal/repository"
	"storefront/internal/services"
	"storefront/pkg/whatsapp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "storefront API server",
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}
	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		seedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update database tables",
		Run: func(cmd *cobra.Command, args []string) {
			db, _ := connect(loadConfig())
			if err := migrations.RunMigrations(db); err != nil {
				log.Fatal("Failed to migrate database:", err)
			}
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "migrate and create the admin user and default districts",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			db, store := connect(cfg)
			if err := migrations.RunMigrations(db); err != nil {
				log.Fatal("Failed to migrate database:", err)
			}

			auth := services.NewAuthService(store.AdminUsers(), cfg.JWTSecret, adminTokenTTL(cfg))
			if err := migrations.Seed(context.Background(), store, auth, cfg.AdminEmail, cfg.AdminPassword); err != nil {
				log.Fatal("Failed to seed database:", err)
			}
			log.Printf("Admin login: %s", cfg.AdminEmail)
		},
	}
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	return cfg
}

func connect(cfg *config.Config) (*gorm.DB, repository.Store) {
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DatabaseLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	return db, repository.NewStore(db)
}

func adminTokenTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.AdminTokenTTL) * time.Second
}

func serve() {
	cfg := loadConfig()
	gin.SetMode(cfg.GinMode)

	db, store := connect(cfg)
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	redisClient, err := redis.Initialize(cfg.RedisURL, time.Duration(cfg.CartTTL)*time.Second)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		if err != nil {
			log.Fatal("Failed to connect to Kafka:", err)
		}
		log.Printf("Publishing order events to %s", cfg.OrderEventsTopic)
	} else {
		publisher = events.NewLogPublisher()
	}
	defer publisher.Close()

	var whatsappClient *whatsapp.Client
	notifier := services.NewNoopNotifier()
	if cfg.WhatsAppAPIURL != "" {
		whatsappClient = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		notifier = services.NewWhatsAppNotifier(whatsappClient)
	}

	// Initialize services
	authService := services.NewAuthService(store.AdminUsers(), cfg.JWTSecret, adminTokenTTL(cfg))
	cartService := services.NewCartService(redisClient, store.Products())
	orderService := services.NewOrderService(store, cartService, publisher, notifier)
	catalogService := services.NewCatalogService(store, models.CategoryDeletePolicy(cfg.CategoryDeletePolicy))
	districtService := services.NewDistrictService(store.Districts())
	customerService := services.NewCustomerService(store)
	displayService := services.NewDisplayService(store.Sliders(), store.Features())

	// Initialize handlers
	routes := handlers.Router{
		Storefront: handlers.NewStorefrontHandler(catalogService, districtService, displayService),
		Cart:       handlers.NewCartHandler(cartService),
		Orders:     handlers.NewOrderHandler(orderService),
		Admin:      handlers.NewAdminHandler(authService, catalogService, districtService, customerService, displayService),
		Auth:       authService,
	}
	if whatsappClient != nil {
		routes.WhatsApp = handlers.NewWhatsAppHandler(orderService, whatsappClient)
	}
	router := handlers.NewRouter(routes)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
