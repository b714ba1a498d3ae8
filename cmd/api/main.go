package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"ecofinds/internal/adapter/api"
	"ecofinds/internal/adapter/api/handler"
	apimiddleware "ecofinds/internal/adapter/api/middleware"
	"ecofinds/internal/adapter/api/router"
	"ecofinds/internal/adapter/repository"
	"ecofinds/internal/adapter/repository/memory"
	domainrepo "ecofinds/internal/domain/repository"
	"ecofinds/internal/infrastructure/auth"
	"ecofinds/internal/infrastructure/database"
	"ecofinds/internal/infrastructure/ratelimit"
	"ecofinds/internal/infrastructure/storage"
	"ecofinds/internal/infrastructure/websocket"
	"ecofinds/internal/usecase"
	"ecofinds/pkg/config"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/response"
)

type repositories struct {
	tx           domainrepo.Transactor
	users        domainrepo.UserRepository
	categories   domainrepo.CategoryRepository
	products     domainrepo.ProductRepository
	cart         domainrepo.CartRepository
	orders       domainrepo.OrderRepository
	chat         domainrepo.ChatRepository
	notification domainrepo.NotificationRepository
}

func gormRepositories(db *gorm.DB) repositories {
	return repositories{
		tx:           repository.NewGormTransactor(db),
		users:        repository.NewGormUserRepository(db),
		categories:   repository.NewGormCategoryRepository(db),
		products:     repository.NewGormProductRepository(db),
		cart:         repository.NewGormCartRepository(db),
		orders:       repository.NewGormOrderRepository(db),
		chat:         repository.NewGormChatRepository(db),
		notification: repository.NewGormNotificationRepository(db),
	}
}

func memoryRepositories() repositories {
	store := memory.NewStore()
	return repositories{
		tx:           memory.NewTransactor(store),
		users:        memory.NewUserRepository(store),
		categories:   memory.NewCategoryRepository(store),
		products:     memory.NewProductRepository(store),
		cart:         memory.NewCartRepository(store),
		orders:       memory.NewOrderRepository(store),
		chat:         memory.NewChatRepository(store),
		notification: memory.NewNotificationRepository(store),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var (
		repos repositories
		db    *gorm.DB
		ping  handler.PingFunc
	)
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on restart")
		repos = memoryRepositories()
	default:
		db, err = database.Open(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		repos = gormRepositories(db)
		ping = func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}
	}

	if err := database.SeedCategories(ctx, repos.categories); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	var imageStore usecase.ImageStore
	var storageClient *storage.CloudStorageClient
	if cfg.StorageBucket != "" {
		storageClient, err = storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.GCPProject, cfg.CredentialsPath, cfg.CORSAllowOrigins)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		imageStore = storageClient
	} else {
		logger.Warn("STORAGE_BUCKET not set; image upload is disabled")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	rateLimiter := ratelimit.NewRateLimiter(nil)
	rateLimiter.StartCleanupRoutine(10 * time.Minute)

	wsManager := websocket.NewManager()

	authUseCase := usecase.NewAuthUseCase(repos.users, jwtManager, hasher)
	categoryUseCase := usecase.NewCategoryUseCase(repos.categories)
	productUseCase := usecase.NewProductUseCase(repos.products, repos.categories)
	cartUseCase := usecase.NewCartUseCase(repos.cart, repos.products)
	orderUseCase := usecase.NewOrderUseCase(repos.tx, repos.cart, repos.products, repos.orders, repos.notification, repos.users, wsManager)
	chatUseCase := usecase.NewChatUseCase(repos.tx, repos.chat, repos.users, repos.products, repos.notification, wsManager, rateLimiter)
	notificationUseCase := usecase.NewNotificationUseCase(repos.notification)
	imageUseCase := usecase.NewImageUseCase(imageStore)

	wsManager.SetChatService(chatUseCase)

	handler.Setup(authUseCase, categoryUseCase, productUseCase, cartUseCase, orderUseCase, chatUseCase, notificationUseCase, imageUseCase)
	handler.SetupHealthHandler(ping)

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.IsDevelopment()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("30M"))
	e.Use(middleware.Secure())

	authMiddleware := apimiddleware.NewAuthMiddleware(jwtManager)
	wsHandler := handler.NewWebSocketHandler(wsManager, jwtManager, repos.users, cfg.CORSAllowOrigins)

	router.Setup(e, authMiddleware, rateLimiter, wsHandler)

	go func() {
		logger.Info("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsManager.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
	rateLimiter.Stop()
	if storageClient != nil {
		if err := storageClient.Close(); err != nil {
			logger.Error("Failed to close storage client: %v", err)
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database: %v", err)
		}
	}

	logger.Info("Server exited")
}
