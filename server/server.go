package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptodash/cache"
	"cryptodash/config"
	"cryptodash/core/auth"
	"cryptodash/core/dashboard"
	"cryptodash/core/provider"
	"cryptodash/db"
	"cryptodash/logger"
	"cryptodash/model"
	"cryptodash/repository"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if err := db.AutoMigrateModels(&model.Feedback{}); err != nil {
		logger.Fatal("Failed to migrate feedback model", logger.ErrorField(err))
	}

	// Redis is optional: the provider cache degrades to pass-through.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, provider caching disabled", logger.ErrorField(err))
		db.RedisClient = nil
	} else {
		defer db.CloseRedis()
		logger.Info("Successfully connected to Redis")
	}

	providerCache := cache.NewProviderCache(db.RedisClient)

	userRepo := repository.NewMySQLUserRepository(db.DB)
	feedbackRepo := repository.NewGormFeedbackRepository(db.GormDB)

	coinGecko := provider.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, nil, providerCache)
	cryptoPanic := provider.NewCryptoPanicClient(cfg.CryptoPanicBaseURL, cfg.CryptoPanicAPIKey, nil, providerCache)
	insights := provider.NewInsightClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.AIModel, nil)
	memes := provider.NewMemeClient(cfg.MemeFeedBaseURL, cfg.MemesFile, nil)
	defer memes.Close()

	aggregator := dashboard.NewAggregator(userRepo, coinGecko, cryptoPanic, insights, memes)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	apiHandler := NewAPIHandler(userRepo, feedbackRepo, aggregator, tokens, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestIDMiddleware)

	// Public endpoints
	router.HandleFunc("/health", apiHandler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Protected endpoints
	router.HandleFunc("/auth/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)
	router.HandleFunc("/preferences", apiHandler.AuthMiddleware(apiHandler.GetPreferencesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/preferences", apiHandler.AuthMiddleware(apiHandler.SavePreferencesHandler)).Methods(http.MethodPost)
	router.HandleFunc("/dashboard", apiHandler.AuthMiddleware(apiHandler.DashboardHandler)).Methods(http.MethodGet)
	router.HandleFunc("/feedback", apiHandler.AuthMiddleware(apiHandler.SubmitFeedbackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/feedback", apiHandler.AuthMiddleware(apiHandler.GetFeedbackHandler)).Methods(http.MethodGet)

	httpServer.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

// corsMiddleware allows browser clients from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger.Debug("request received",
			logger.String("requestId", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path))

		next.ServeHTTP(w, r)
	})
}
