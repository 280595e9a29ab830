package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greyhaven-ai/doccov/pkg/gate"
	"github.com/greyhaven-ai/doccov/pkg/logger"
	"github.com/greyhaven-ai/doccov/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("DOCCOV")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.doccov")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "doccov",
	Short: "Documentation coverage scanner for TypeScript and Python projects",
	Long: `doccov scans a source tree, extracts the publicly exported declarations,
and reports how many of them carry real documentation. It can gate CI on a
coverage threshold and validate plugin skill and manifest files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))

		shutdown, err := initTracing(cmd.Context())
		if err != nil {
			logger.L.WithError(err).Warn("failed to initialize tracing")
			return nil
		}
		tracingShutdown = shutdown
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// exitCodeError carries an explicit process exit code through cobra.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(withTracing(scanCmd))
	rootCmd.AddCommand(withTracing(skillsCmd))
	rootCmd.AddCommand(withTracing(manifestCmd))
	rootCmd.AddCommand(versionCmd)

	err := rootCmd.ExecuteContext(ctx)

	if tracingShutdown != nil {
		_ = tracingShutdown(context.Background())
	}

	if err == nil {
		os.Exit(gate.ExitPass)
	}
	if exitErr, ok := err.(*exitCodeError); ok {
		presenter.Error(exitErr.err, "")
		os.Exit(exitErr.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(gate.ExitError)
}
