package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"print-order-backend/internal/auth"
	"print-order-backend/internal/config"
	"print-order-backend/internal/database"
	"print-order-backend/internal/handlers"
	"print-order-backend/internal/models"
	"print-order-backend/internal/payment"
	"print-order-backend/internal/services"
	"print-order-backend/internal/storage"
	"print-order-backend/internal/supabase"
)

const (
	shutdownTimeout = 15 * time.Second
	webhookDedupTTL = 72 * time.Hour
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Print order backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Apply migrations and start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context())
			},
		},
		newCreateAdminCmd(),
	)

	return root
}

func newCreateAdminCmd() *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createAdmin(cmd.Context(), req)
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(handler).With("app", cfg.AppName))
	return cfg, nil
}

// openDatabase connects and applies any pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.NewMigrator(db).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("migrations completed successfully")
	return db, nil
}

func migrate(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("migrate failed", "error", err)
		return err
	}
	return db.Close()
}

func createAdmin(ctx context.Context, req models.RegisterRequest) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	users := services.NewUserService(supabase.NewDatabaseClient(db), auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenExpires))
	user, err := users.CreateAdmin(ctx, req)
	if err != nil {
		slog.Error("failed to create admin", "username", req.Username, "error", err)
		return err
	}
	slog.Info("admin created", "user_id", user.ID, "username", user.Username)
	return nil
}

// newContentStore prefers Supabase Storage and falls back to the local
// upload folder.
func newContentStore(cfg *config.Config) (services.ContentStore, error) {
	if cfg.SupabaseURL == "" {
		slog.Info("storing uploads on local disk", "folder", cfg.UploadFolder)
		return storage.NewLocalStore(cfg.UploadFolder)
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		return nil, err
	}
	slog.Info("storing uploads in supabase storage", "bucket", cfg.SupabaseStorageBucket)
	return client.Storage(cfg.SupabaseStorageBucket), nil
}

// newDeduplicator returns nil without Redis; payment confirmation is
// idempotent either way.
func newDeduplicator(ctx context.Context, cfg *config.Config) (*payment.RedisDeduplicator, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	dedup, err := payment.NewRedisDeduplicator(cfg.RedisURL, webhookDedupTTL)
	if err != nil {
		return nil, err
	}
	if err := dedup.Ping(ctx); err != nil {
		dedup.Close()
		return nil, fmt.Errorf("redis unavailable: %w", err)
	}
	return dedup, nil
}

func serve(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	dbClient := supabase.NewDatabaseClient(db)
	defer dbClient.Close()

	content, err := newContentStore(cfg)
	if err != nil {
		slog.Error("failed to initialize content store", "error", err)
		return err
	}

	var dedup services.EventDeduplicator
	redisDedup, err := newDeduplicator(ctx, cfg)
	if err != nil {
		slog.Warn("webhook de-duplication disabled", "error", err)
	} else if redisDedup != nil {
		defer redisDedup.Close()
		dedup = redisDedup
	}

	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.StripeCurrency,
		FrontendURL:   cfg.FrontendURL,
	})

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenExpires)
	orderService := services.NewOrderService(dbClient)
	userService := services.NewUserService(dbClient, tokens)
	paymentService := services.NewPaymentService(orderService, gateway, dedup)
	fileService := services.NewFileService(content, cfg.MaxContentLength)

	h := &handlers.Handlers{
		Health:   handlers.NewHealthHandler(cfg.AppName, cfg.Environment),
		Auth:     handlers.NewAuthHandler(userService),
		Users:    handlers.NewUsersHandler(userService),
		Orders:   handlers.NewOrdersHandler(orderService, cfg.Location()),
		Files:    handlers.NewFilesHandler(fileService, cfg.MaxContentLength),
		Payments: handlers.NewPaymentsHandler(paymentService),
		Webhook:  handlers.NewWebhookHandler(paymentService),
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	h.Register(router, cfg.APIPrefix, userService)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
