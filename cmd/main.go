package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"snookerviz/internal/configuration"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// prepareLogger configures the global slog logger: JSON records on os.Stdout
// and, when cfg.File is set, also in a rotating file.
// An unknown level falls back to Info. The returned func releases the file.
func prepareLogger(cfg configuration.LoggerConfig) func() error {
	var logLevel slog.Level

	switch strings.ToLower(cfg.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	closer := func() error { return nil }
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file.Close
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return closer
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		config     *configuration.AppConfig
		logCloser  func() error
	)

	rootCmd := &cobra.Command{
		Use:           "snookerviz",
		Short:         "Snooker ball proportion dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = configuration.LoadConfig(configPath)
			if err != nil {
				return err
			}
			logCloser = prepareLogger(config.Logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (defaults apply when empty)")

	cfg := func() *configuration.AppConfig { return config }
	rootCmd.AddCommand(
		newServeCmd(cfg),
		newCompareCmd(cfg),
		newMatchupsCmd(cfg),
		newPlayersCmd(cfg),
	)
	return rootCmd
}

// The application exits with code 1 on configuration, workbook or startup errors.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("snookerviz failed", "error", err)
		os.Exit(1)
	}
}
