package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devraj-k/bytekv/internal/config"
	"github.com/devraj-k/bytekv/internal/engine"
	"github.com/devraj-k/bytekv/internal/server"
	"github.com/devraj-k/bytekv/internal/telemetry/logger"
)

var (
	// version is set via -ldflags at build time.
	version = "dev"

	configPath   string
	flagHost     string
	flagPort     int
	flagCapMB    int
	flagLogLevel string
	flagLogFile  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "bytekvd",
		Short:   "bytekvd is an in-memory LRU+TTL cache server",
		Version: version,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the cache server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&flagHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().IntVar(&flagCapMB, "capacity-mb", 0, "cache capacity in MB (overrides config)")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	serveCmd.Flags().StringVar(&flagLogFile, "log-file", "", "path to a rotated log file (overrides config)")

	root.AddCommand(serveCmd)
	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLogger, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBacks,
		MaxAgeDays: cfg.LogMaxAge,
	})
	if err != nil {
		return err
	}
	defer closeLogger()

	log.Info("starting bytekvd",
		zap.String("version", version),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("capacity_mb", cfg.CapacityMB),
	)

	cache := engine.New(
		engine.WithCapacityBytes(cfg.CapacityBytes()),
		engine.WithLogger(log),
	)

	hostCfg := server.DefaultConfig()
	hostCfg.Host = cfg.Host
	hostCfg.Port = cfg.Port
	hostCfg.Backlog = cfg.Backlog

	h := server.New(hostCfg, cache, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := h.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("bytekvd shut down cleanly")
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagCapMB != 0 {
		cfg.CapacityMB = flagCapMB
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
}
