package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookshelf/database"
	"bookshelf/internal/api/handler"
	"bookshelf/internal/api/middleware"
	"bookshelf/internal/api/repository"
	"bookshelf/internal/api/service"
	"bookshelf/internal/cache"
	"bookshelf/internal/config"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// Connect to the database and run migrations
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Redis book cache; an empty REDIS_URL disables it
	bookCache, err := cache.NewBookCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer bookCache.Close()
	if bookCache.Enabled() {
		logger.Info("Connected to Redis book cache")
	} else {
		logger.Info("Book cache disabled, no REDIS_URL configured")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	bookService := service.NewBookService(bookRepo, bookCache, logger)
	collectionService := service.NewCollectionService(collectionRepo, bookRepo, bookCache, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.CookieSecure)
	bookHandler := handler.NewBookHandler(bookService)
	collectionHandler := handler.NewCollectionHandler(collectionService)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true, // cookies carry the session
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	session := middleware.SessionMiddleware(authService)
	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(authLimiter.Middleware())
	authHandler.RegisterRoutes(authGroup, session)

	bookHandler.RegisterRoutes(api.Group("/books"), session)

	myBooks := api.Group("/mybooks")
	myBooks.Use(session)
	collectionHandler.RegisterRoutes(myBooks)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("Server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
