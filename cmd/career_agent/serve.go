package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/db"
	"github.com/jonathan/career-assistant/internal/logging"
	"github.com/jonathan/career-assistant/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the ATS, coding, interview and email endpoints. Results are stored when DATABASE_URL is set.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger, flush := logging.Init(cfg.LogLevel)
	defer flush()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var store db.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		store = database
	} else {
		logger.Warn("DATABASE_URL not set; results will not be stored")
	}

	srv := server.New(server.Config{
		Port:            cfg.Port,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		RequestTimeout:  time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}, a.services, store, logger)

	logger.Info("starting career assistant",
		zap.Int("port", cfg.Port),
		zap.Bool("storage", store != nil),
		zap.Strings("trusted_domains", cfg.TrustedDomains))
	return srv.Start(ctx)
}
