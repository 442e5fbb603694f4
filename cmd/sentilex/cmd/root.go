package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spacesedan/sentilex/config"
	"github.com/spacesedan/sentilex/internal/logging"
	"github.com/spacesedan/sentilex/internal/monitoring"
	"github.com/spf13/cobra"
)

var (
	loader    = config.NewLoader()
	appConfig *config.Config
	cfgFile   string
)

var rootCmd = &cobra.Command{
	Use:   "sentilex",
	Short: "Lexicon-based sentiment analysis for Indonesian text",
	Long: `sentilex detects whether text is Indonesian and scores its sentiment by counting
positive and negative lexicon terms. Every analysis is appended to a CSV log.

Examples:
  sentilex serve --addr :8501
  sentilex analyze "Pelayanan sangat baik dan memuaskan"
  sentilex batch --file reviews.csv --column review`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv(config.AppEnv())

		cfg, err := loader.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		logging.InitLogger(logOutput(cmd), cfg.LogLevel)
		return nil
	},
}

// logOutput keeps stdout free for command results; only the server logs there.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd.Name() == serveCmd.Name() {
		return os.Stdout
	}
	return os.Stderr
}

// Execute runs the root command and exits with status 1 on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var missing *monitoring.MissingCapabilityError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "Startup check failed: %q is not available. Check the installation and configuration.\n", missing.Name)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is sentilex.yaml in . or ./config)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", config.DefaultLogFile, "CSV file analyses are appended to")

	v := loader.Viper()
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("analysis.log_file", flags.Lookup("log-file"))

	rootCmd.AddCommand(serveCmd, analyzeCmd, batchCmd)
}
