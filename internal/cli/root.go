// Package cli implements the vecrag command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/app"
	"github.com/kailas-cloud/vecrag/internal/config"
	"github.com/kailas-cloud/vecrag/internal/logger"
)

var (
	cfgFile string
	envName string
	cfg     config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vecrag",
	Short: "Vector retrieval and answering over a Redis search index",
	Long: `vecrag stores documents with their embeddings in a Redis hash index,
retrieves the nearest ones for a query and answers questions grounded in them.

Example usage:
  vecrag ingest --samples              # Load the demo corpus
  vecrag ingest --dir ./notes          # Load .txt and .md files
  vecrag search -q "bike suspension"   # Nearest documents
  vecrag ask -q "which bike for kids?" # Grounded answer
  vecrag serve                         # HTTP API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if envName == "" {
			envName = config.GetEnv()
		}

		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load(envName)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = logger.NewLogger(envName, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment: local, dev, prod (default is $ENV or local)")
}

// openApp connects to the store and builds services for a single command.
func openApp(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return a, nil
}
