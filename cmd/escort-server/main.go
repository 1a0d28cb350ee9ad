package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/escort/escort/internal/config"
	"github.com/escort/escort/internal/domain/catalog"
	"github.com/escort/escort/internal/domain/identity"
	"github.com/escort/escort/internal/domain/marketing"
	"github.com/escort/escort/internal/domain/order"
	"github.com/escort/escort/internal/domain/patient"
	"github.com/escort/escort/internal/domain/payment"
	"github.com/escort/escort/internal/platform/auth"
	"github.com/escort/escort/internal/platform/db"
	"github.com/escort/escort/internal/platform/middleware"
	"github.com/escort/escort/internal/platform/passport"
	paygw "github.com/escort/escort/internal/platform/payment"
	"github.com/escort/escort/pkg/envelope"
)

// devJWTSecret keeps local development working without a .env file. Config
// validation refuses to start production with an empty JWT_SECRET.
const devJWTSecret = "escort-dev-secret-do-not-use-in-production"

func main() {
	rootCmd := &cobra.Command{
		Use:   "escort-server",
		Short: "Medical escort booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = devJWTSecret
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = envelope.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutS) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Tokens and platform clients
	tokenIssuer := auth.NewTokenIssuer(jwtSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	passportClient := passport.NewClient(passport.Config{
		BaseURL:   cfg.AuthAPIBase,
		AppID:     cfg.AuthAppID,
		AppSecret: cfg.AuthAppSecret,
	})
	gatewayClient := paygw.NewClient(paygw.Config{
		BaseURL:    cfg.PayGatewayURL,
		MerchantID: cfg.PayMerchantID,
		APIKey:     cfg.PayAPIKey,
		NotifyURL:  cfg.PayNotifyURL,
	})

	// Route groups. Login and the payment callback carry no token; everything
	// under /api/v1 requires a user session; /admin additionally requires the
	// admin role.
	public := e.Group("/api/v1")
	public.Use(middleware.RateLimit(rateLimitCfg))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(auth.Middleware(tokenIssuer))

	admin := e.Group("/admin")
	admin.Use(middleware.RateLimit(rateLimitCfg))
	admin.Use(auth.Middleware(tokenIssuer))
	admin.Use(auth.RequireRole(auth.RoleAdmin))

	// -- Domain wiring --

	// Catalog
	catalogSvc := catalog.NewService(
		catalog.NewServiceRepoPG(pool),
		catalog.NewHospitalRepoPG(pool),
		catalog.NewDepartmentRepoPG(pool),
		catalog.NewEscortRepoPG(pool),
	)
	catalog.NewHandler(catalogSvc).RegisterRoutes(apiV1, admin)

	// Identity
	identitySvc := identity.NewService(identity.NewUserRepoPG(pool), passportClient, tokenIssuer)
	identity.NewHandler(identitySvc).RegisterRoutes(public, apiV1, admin)

	// Patients
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	// Orders
	orderSvc := order.NewService(order.NewRepoPG(pool), catalogSvc, patientSvc, identitySvc)
	order.NewHandler(orderSvc).RegisterRoutes(apiV1, admin)

	// Payment
	paymentSvc := payment.NewService(orderSvc, identitySvc, gatewayClient)
	payment.NewHandler(paymentSvc).RegisterRoutes(public, apiV1)

	// Marketing
	marketingSvc := marketing.NewService(
		marketing.NewCampaignRepoPG(pool),
		marketing.NewSeckillRepoPG(pool),
		catalogSvc,
	)
	marketing.NewHandler(marketingSvc).RegisterRoutes(apiV1, admin)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
