package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shopcore/internal/config"
	"shopcore/internal/media"
	custommiddleware "shopcore/internal/middleware"
	"shopcore/internal/repository"
	"shopcore/internal/service"
	"shopcore/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, uploader media.Uploader) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	imageRepo := repository.NewImageRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	imageService := service.NewImageService(imageRepo, userRepo, productRepo, categoryRepo, uploader)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	imageHandler := transport.NewImageHandler(imageService, logger)

	// Rate limit uploads; the limiter fails open if redis is unavailable
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	uploadRateLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		KeyPrefix:         "upload_rate_limit",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)
	imageHandler.RegisterRoutes(router, uploadRateLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
