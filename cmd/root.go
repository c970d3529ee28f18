// Package cmd implements the parselinks CLI using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/parselinks/internal/config"
	"github.com/gaurav-prasanna/parselinks/internal/logging"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string

	appConfig *config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "parselinks",
	Short: "parselinks — convert web pages into clean Markdown",
	Long: `parselinks fetches web pages, isolates the main article and converts it
to Markdown, falling back to a plain paragraph/code linearization when the
article is missing or too short.

Usage:
  parselinks convert <url>... [flags]
  parselinks serve [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
}

// loadConfig resolves configuration and the logger before any subcommand runs.
// Flags beat environment, which beats the config file and the defaults.
func loadConfig(cmd *cobra.Command, _ []string) error {
	v := config.New()

	bindings := map[string]string{
		"log.level":   "log-level",
		"log.format":  "log-format",
		"server.port": "port",
	}
	for key, name := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v, flagConfig)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	appConfig, logger = cfg, log
	return nil
}

// Execute runs the root command until it finishes or an interrupt arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
