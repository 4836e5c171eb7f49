// Package cmd contains the seo-automator CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seo-automator/internal/config"
	"seo-automator/internal/logging"
)

var (
	envFile  string
	logLevel string
	cfg      *config.Config
	logger   = zap.NewNop()
	version  = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "seo-automator",
	Short: "Generate and publish SEO blog content",
	Long: `seo-automator generates blog topics with Gemini, writes an article for each one,
illustrates it with a generated image, keeps a local markdown copy and publishes it to
Basehub. After the articles it builds pillar pages that link to them.

Example usage:
  seo-automator run                      # Full batch with TOPIC_COUNT topics
  seo-automator run --topics 10          # Smaller batch
  seo-automator topics --count 5         # Print topic ideas only
  seo-automator article "Pricing Pages"  # One article, kept locally
  seo-automator runs                     # Recent runs from the report database`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's context, which
// stops a batch after the current item.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logger.Sync() }()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string reported by the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
}

// initConfig loads the environment and builds the logger. Settings that only some
// commands need are validated by those commands.
func initConfig() error {
	if err := config.LoadDotenv(envFile); err != nil {
		return err
	}
	cfg = config.FromEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	l, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l

	logger.Debug("configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("topic_count", cfg.TopicCount),
		zap.Bool("images", cfg.ImagesEnabled()),
		zap.Bool("storage", cfg.StorageEnabled()),
		zap.Bool("publish", cfg.PublishEnabled()),
		zap.Bool("report_database", cfg.ReportDatabaseURL != ""),
	)
	return nil
}
