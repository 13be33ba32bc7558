package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/auth"
	"github.com/JonnyWalker81/formcraft/backend/internal/config"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/ratelimit"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
	"github.com/JonnyWalker81/formcraft/backend/internal/router"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port        string
	skipMigrate bool
)

const (
	dbConnectAttempts = 5
	shutdownTimeout   = 10 * time.Second
	sweepInterval     = time.Minute
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply the schema on startup")
}

// openDatabase connects to Postgres, retrying while the database starts up.
func openDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == dbConnectAttempts {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
		}

		log.Warn("database not ready, retrying",
			logger.Int("attempt", attempt),
			logger.Err(err),
		)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
}

// rateLimitStore uses Redis when configured so limits hold across replicas.
func rateLimitStore(ctx context.Context, cfg *config.Config, log logger.Logger) (ratelimit.Store, error) {
	if cfg.Redis.URL != "" {
		store, err := ratelimit.NewRedisStoreFromURL(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("rate limits stored in redis")
		return store, nil
	}

	store := ratelimit.NewMemoryStore()
	go store.RunSweeper(ctx, sweepInterval, time.Now)
	log.Info("rate limits stored in memory")
	return store, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting FormCraft API server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize tokens: %w", err)
	}

	store, err := rateLimitStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	formRepo := repository.NewFormRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	services := router.Services{
		Auth:      service.NewAuthService(userRepo, tokens),
		Forms:     service.NewFormService(formRepo),
		Trash:     service.NewTrashService(formRepo),
		Responses: service.NewResponseService(formRepo, responseRepo),
		Analytics: service.NewAnalyticsService(formRepo, responseRepo, service.ParseFieldWindow(cfg.Analytics.FieldWindow)),
		QRCode:    service.NewQRCodeService(cfg.Server.PublicBaseURL),
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(services, router.Options{
		Env:            cfg.Server.Env,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Tokens:         tokens,
		SubmitLimiter:  ratelimit.New(store, cfg.RateLimit.SubmitLimit, cfg.RateLimit.SubmitWindow, "submit"),
		AuthLimiter:    ratelimit.New(store, cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow, "auth"),
		Idempotency:    idempotencyRepo,
		DB:             db,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
