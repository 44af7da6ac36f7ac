package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wisptel/netbill/adapters/clock"
	"github.com/wisptel/netbill/adapters/idgen"
	"github.com/wisptel/netbill/adapters/metrics"
	"github.com/wisptel/netbill/adapters/random"
	"github.com/wisptel/netbill/adapters/sqlite"
	"github.com/wisptel/netbill/app"
	"github.com/wisptel/netbill/config"
	"github.com/wisptel/netbill/domain/settings"
	"github.com/wisptel/netbill/web"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the billing API server",
	Long: `Start the NetBill API server.

The server will:
  - Load configuration from netbill.yaml (or --config)
  - Or load configuration from NETBILL_* environment variables
  - Open the database and run migrations
  - Serve the billing API for the portal front ends

Environment variables (for Docker deployments):
  NETBILL_SERVER_PORT          - Server port (default: 8080)
  NETBILL_DATABASE_PATH        - Database path (default: netbill.db)
  NETBILL_COMPANY_STATE_CODE   - Company GST state code
  NETBILL_LOG_LEVEL            - Log level: debug, info, warn, error

Examples:
  netbill serve
  netbill serve --config /etc/netbill/config.yaml
  netbill serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, holder, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if holder != nil {
		defer holder.Stop()
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	collector := metrics.New()
	if holder != nil {
		holder.OnChange(func(*config.Config) { collector.ConfigReloads.Inc() })
		holder.OnError(func(error) { collector.ConfigReloadErrors.Inc() })
	}

	settingsSvc := app.NewSettingsService(sqlite.NewSettingsStore(db), logger)
	if err := settingsSvc.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := seedSettings(cmd.Context(), settingsSvc, cfg); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	plans := sqlite.NewPlanStore(db)
	bills := sqlite.NewBillStore(db)
	billingSvc := app.NewBillingService(app.BillingDeps{
		Plans:     plans,
		Customers: sqlite.NewCustomerStore(db),
		Bills:     bills,
		Payments:  sqlite.NewPaymentStore(db),
		Settings:  settingsSvc,
		Clock:     clock.Real{},
		Random:    random.Real{},
		IDs:       idgen.UUID{},
		Metrics:   collector,
		Logger:    logger,
	})

	handler := web.New(web.Deps{
		Billing:  billingSvc,
		Settings: settingsSvc,
		Plans:    plans,
		Bills:    bills,
		Metrics:  collector,
		Logger:   logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("billing API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadConfig loads configuration from file (with optional hot reload) or
// from environment variables alone.
func loadConfig() (*config.Config, *config.Holder, zerolog.Logger, error) {
	logger := newLogger("info", "json")

	if _, err := os.Stat(cfgFile); err == nil {
		if hotReload {
			holder, err := config.NewHolder(cfgFile, logger)
			if err != nil {
				return nil, nil, logger, err
			}
			if err := holder.Watch(); err != nil {
				return nil, nil, logger, err
			}
			cfg := holder.Get()
			return cfg, holder, newLogger(cfg.Logging.Level, cfg.Logging.Format), nil
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, nil, logger, err
		}
		return cfg, nil, newLogger(cfg.Logging.Level, cfg.Logging.Format), nil
	}

	if !config.HasEnvConfig() {
		return nil, nil, logger, fmt.Errorf("no configuration found: create %s or set NETBILL_* environment variables", cfgFile)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, logger, err
	}
	return cfg, nil, newLogger(cfg.Logging.Level, cfg.Logging.Format), nil
}

// seedSettings copies first-run billing settings from the config file
// into the settings store without overwriting operator edits.
func seedSettings(ctx context.Context, svc *app.SettingsService, cfg *config.Config) error {
	if cfg.Billing.CompanyStateCode != "" && svc.CompanyStateCode() == "" {
		if err := svc.Set(ctx, settings.KeyCompanyStateCode, cfg.Billing.CompanyStateCode); err != nil {
			return err
		}
	}
	if cfg.Billing.LegacyPeriodRule && !svc.LegacyPeriodRule() {
		return svc.Set(ctx, settings.KeyBillingLegacyPeriodRule, "true")
	}
	return nil
}

// newLogger builds a zerolog logger for the configured level and format.
func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}
