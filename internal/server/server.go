package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/promptclash/backend/internal/cache"
	"github.com/promptclash/backend/internal/config"
	"github.com/promptclash/backend/internal/database"
	"github.com/promptclash/backend/internal/handlers"
	"github.com/promptclash/backend/internal/judge"
	custommiddleware "github.com/promptclash/backend/internal/middleware"
	"github.com/promptclash/backend/internal/services"
	"github.com/promptclash/backend/internal/storage"
)

type Server struct {
	config             *config.Config
	db                 *database.DB     // nil when running memory-only
	redisClient        *redis.Client    // nil when no cache is configured
	store              storage.Store
	judgeProvider      judge.Provider
	userService        *services.UserService
	battleService      *services.BattleService
	leaderboardService *services.LeaderboardService
	apiRateLimiter     *custommiddleware.RateLimiter
	submitRateLimiter  *custommiddleware.RateLimiter
	server             *http.Server
}

func NewServer() (*Server, error) {
	// Load configuration
	cfg := config.Load()

	// Setup storage: durable store behind the volatile fallback when a
	// database is configured, memory-only otherwise. A connection failure
	// at boot also degrades to memory instead of refusing to start.
	var db *database.DB
	var store storage.Store
	if cfg.GetDatabaseURL() != "" {
		conn, err := database.NewConnection(cfg)
		if err != nil {
			slog.Warn("Database unavailable, running on volatile storage", "error", err)
			store = storage.NewMemoryStore()
		} else if err := conn.AutoMigrate(); err != nil {
			slog.Warn("Database migration failed, running on volatile storage", "error", err)
			_ = conn.Close()
			store = storage.NewMemoryStore()
		} else {
			db = conn
			store = storage.NewFallbackStore(storage.NewGormStore(conn))
		}
	} else {
		slog.Info("No database configured, running on volatile storage")
		store = storage.NewMemoryStore()
	}

	// Setup optional Redis leaderboard cache
	var redisClient *redis.Client
	var leaderboardCache *cache.LeaderboardCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Warn("Invalid Redis URL, leaderboard cache disabled", "error", err)
		} else {
			client := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := client.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				slog.Warn("Redis unreachable, leaderboard cache disabled", "error", err)
				_ = client.Close()
			} else {
				redisClient = client
				leaderboardCache = cache.NewLeaderboardCache(client)
				slog.Info("Leaderboard cache enabled")
			}
		}
	}

	// Setup judge provider from configuration
	judgeProvider := judge.New(cfg)

	// Setup services
	userService := services.NewUserService(store)
	leaderboardService := services.NewLeaderboardService(store, leaderboardCache)
	battleService := services.NewBattleService(store, judgeProvider, userService, leaderboardService)

	return &Server{
		config:             cfg,
		db:                 db,
		redisClient:        redisClient,
		store:              store,
		judgeProvider:      judgeProvider,
		userService:        userService,
		battleService:      battleService,
		leaderboardService: leaderboardService,
		apiRateLimiter:     custommiddleware.NewAPIRateLimiter(),
		submitRateLimiter:  custommiddleware.NewSubmitRateLimiter(),
	}, nil
}

func (s *Server) Start() error {
	// Setup router
	router := s.setupRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting battle server", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}

	// Close Redis client
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}

	// Close rate limiters
	s.apiRateLimiter.Close()
	s.submitRateLimiter.Close()

	slog.Info("Server shutdown complete")
	return nil
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.apiRateLimiter.RateLimit)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure properly for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	userHandler := handlers.NewUserHandler(s.userService)
	battleHandler := handlers.NewBattleHandler(s.battleService)
	leaderboardHandler := handlers.NewLeaderboardHandler(s.leaderboardService)

	r.Mount("/users", userHandler.Routes())
	r.Mount("/battles", battleHandler.Routes(s.submitRateLimiter))
	r.Mount("/leaderboard", leaderboardHandler.Routes())

	return r
}
