package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/guilhermeviannac/credpix/internal/config"
	"github.com/guilhermeviannac/credpix/internal/logging"
	"github.com/guilhermeviannac/credpix/internal/repository"
	"github.com/guilhermeviannac/credpix/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	logger.Info("starting collection scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	dashboardService := service.NewDashboardService(
		repository.NewClientRepository(db),
		repository.NewLoanRepository(db),
		repository.NewRegionRepository(db),
		repository.NewUserRepository(db),
		redisClient,
		cfg.GetCacheTTL(),
		logger,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Warn("invalid scheduler timezone, using local", "timezone", cfg.Scheduler.Timezone)
		location = time.Local
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Snapshot each region's collections for the day before the routes start
	_, err = c.AddFunc(cfg.Scheduler.SnapshotSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := dashboardService.SnapshotDailyCollections(ctx, time.Now().In(location)); err != nil {
			logger.Error("daily collection snapshot failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("failed to schedule snapshot job", "error", err)
		os.Exit(1)
	}

	c.Start()
	logger.Info("scheduler started", "spec", cfg.Scheduler.SnapshotSpec, "timezone", location.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	c.Stop()
	logger.Info("scheduler stopped")
}
