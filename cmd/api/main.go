package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/workforce-api/internal/cache"
	"github.com/workforce-api/internal/config"
	"github.com/workforce-api/internal/handler"
	"github.com/workforce-api/internal/middleware"
	"github.com/workforce-api/internal/repository"
	"github.com/workforce-api/internal/rowstore"
	"github.com/workforce-api/internal/service"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func main() {
	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)
	slog.SetDefault(logger)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open row store", slog.String("backend", cfg.RowStore.Backend), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	cached := cache.New(store, cfg.Cache.TTL)
	pageSize := cfg.RowStore.PageSize

	empRepo := repository.NewEmployeeRepository(cached, pageSize, logger)
	areaRepo := repository.NewAreaRepository(cached, pageSize, logger)
	activityRepo := repository.NewActivityRepository(cached, pageSize, logger)
	distRepo := repository.NewDistributionRepository(cached, pageSize, logger)
	ownerRepo := repository.NewCostCenterOwnerRepository(cached, pageSize, logger)
	userRepo := repository.NewUserRepository(cached, logger)

	deps := service.Deps{
		Employees: empRepo,
		Areas:     areaRepo,
		Locale:    cfg.LocaleTag(),
		Logger:    logger,
	}
	accessService := service.NewAccessService(userRepo, deps)
	hierarchyService := service.NewHierarchyService(ownerRepo, deps)
	distributionService := service.NewDistributionService(distRepo, activityRepo, deps)
	activityService := service.NewActivityService(activityRepo, distRepo, deps)

	h := handler.NewHandler(hierarchyService, distributionService, activityService, logger)
	router := handler.NewRouter(h, handler.RouterConfig{
		Authenticate:   middleware.Authenticate(cfg.Auth.JWTSecret, accessService, logger),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Store:          store,
	}, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting",
		slog.String("port", cfg.Server.Port),
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.RowStore.Backend),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// openStore builds the configured row store. The returned func releases it.
func openStore(cfg *config.Config, logger *slog.Logger) (rowstore.Store, func(), error) {
	switch cfg.RowStore.Backend {
	case config.BackendPostgREST:
		logger.Info("using postgrest row store", slog.String("url", cfg.RowStore.PostgRESTURL))
		s := rowstore.NewPostgRESTStore(cfg.RowStore.PostgRESTURL, cfg.RowStore.PostgRESTKey, cfg.RowStore.PostgRESTTimeout)
		return s, func() {}, nil

	case config.BackendSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.Database.SQLitePath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := repository.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return withClose(db, logger)

	default:
		db, err := connectDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := runMigrations(sqlDB); err != nil {
			return nil, nil, err
		}
		return withClose(db, logger)
	}
}

func withClose(db *gorm.DB, logger *slog.Logger) (rowstore.Store, func(), error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	return rowstore.NewGormStore(db), closeFn, nil
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for range 30 {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			sqlDB, _ := db.DB()
			if sqlDB.Ping() == nil {
				return db, nil
			}
		}
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
