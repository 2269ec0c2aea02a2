package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rohankatakam/hetgraph/internal/config"
	"github.com/rohankatakam/hetgraph/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
	slogger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hetgraph",
	Short: "Assemble heterogeneous transaction graphs from Neo4j",
	Long: `hetgraph fetches transactions, users and accounts from a graph database
and assembles them into per-type feature matrices and edge-index lists,
with a key-value feature cache alongside.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			logger.WithError(err).Warn("Unknown log level, using info")
		}
		if verbose {
			level = slog.LevelDebug
		}
		slogger, err = logging.NewLogger(logging.Config{
			Level:      level,
			OutputFile: cfg.Log.File,
			JSONFormat: cfg.Log.JSON,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		slogger.Install()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if slogger != nil {
			slogger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .hetgraph/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`hetgraph {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(configCmd)
}
