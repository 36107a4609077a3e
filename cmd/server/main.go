package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/guilhermeviannac/credpix/internal/config"
	"github.com/guilhermeviannac/credpix/internal/handler"
	"github.com/guilhermeviannac/credpix/internal/logging"
	"github.com/guilhermeviannac/credpix/internal/repository"
	"github.com/guilhermeviannac/credpix/internal/service"
	"github.com/guilhermeviannac/credpix/pkg/auth"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	db, err := initDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	clientRepo := repository.NewClientRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.GetTokenTTL())
	authService := service.NewAuthService(userRepo, tokens, logger)
	lendingService := service.NewLendingService(loanRepo, clientRepo, logger)
	ledgerService := service.NewLedgerService(loanRepo, paymentRepo, logger)
	directoryService := service.NewDirectoryService(clientRepo, regionRepo, userRepo, logger)
	dashboardService := service.NewDashboardService(
		clientRepo, loanRepo, regionRepo, userRepo,
		redisClient, cfg.GetCacheTTL(), logger,
	)

	// Handlers
	userHandler := handler.NewUserHandler(authService)
	lendingHandler := handler.NewLendingHandler(lendingService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(
		tokens,
		userHandler,
		lendingHandler,
		ledgerHandler,
		directoryHandler,
		dashboardHandler,
		healthHandler,
	)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	tokens *auth.TokenManager,
	userHandler *handler.UserHandler,
	lendingHandler *handler.LendingHandler,
	ledgerHandler *handler.LedgerHandler,
	directoryHandler *handler.DirectoryHandler,
	dashboardHandler *handler.DashboardHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health and login are the only unauthenticated routes
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.HandleFunc("/api/v1/login", userHandler.Login).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.AuthMiddleware(tokens))

	// Users
	api.HandleFunc("/users", handler.RequireAdmin(userHandler.RegisterUser)).Methods("POST")
	api.HandleFunc("/users", handler.RequireAdmin(userHandler.ListUsers)).Methods("GET")
	api.HandleFunc("/users/collectors", userHandler.ListCollectors).Methods("GET")
	api.HandleFunc("/users/{userId}", handler.RequireAdmin(userHandler.DeleteCollector)).Methods("DELETE")

	// Regions
	api.HandleFunc("/regions", handler.RequireAdmin(directoryHandler.RegisterRegion)).Methods("POST")
	api.HandleFunc("/regions", directoryHandler.ListRegions).Methods("GET")
	api.HandleFunc("/regions/{regionId}", handler.RequireAdmin(directoryHandler.DeleteRegion)).Methods("DELETE")

	// Clients
	api.HandleFunc("/clients", handler.RequireAdmin(directoryHandler.RegisterClient)).Methods("POST")
	api.HandleFunc("/clients", directoryHandler.ListClients).Methods("GET")
	api.HandleFunc("/clients/{clientId}", directoryHandler.UpdateClient).Methods("PUT")
	api.HandleFunc("/clients/{clientId}", handler.RequireAdmin(directoryHandler.DeleteClient)).Methods("DELETE")

	// Loans
	api.HandleFunc("/loans", handler.RequireAdmin(lendingHandler.CreateLoan)).Methods("POST")
	api.HandleFunc("/loans/{loanId}", lendingHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}", handler.RequireAdmin(lendingHandler.EditLoan)).Methods("PUT")
	api.HandleFunc("/loans/{loanId}", handler.RequireAdmin(lendingHandler.DeleteLoan)).Methods("DELETE")
	api.HandleFunc("/loans/{loanId}/payments", ledgerHandler.ListPayments).Methods("GET")

	// Payments
	api.HandleFunc("/installments/{installmentId}/payments", ledgerHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/payments/{paymentId}", ledgerHandler.EditPayment).Methods("PUT")
	api.HandleFunc("/payments/{paymentId}", ledgerHandler.CancelPayment).Methods("DELETE")

	// Dashboards
	api.HandleFunc("/dashboard/admin", dashboardHandler.Admin).Methods("GET")
	api.HandleFunc("/dashboard/collector", dashboardHandler.Collector).Methods("GET")

	return router
}
