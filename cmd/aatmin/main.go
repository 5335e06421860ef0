// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the aatmin CLI. With no subcommand
// it scans test.log in the working directory and prints the smallest L1
// average access time it reports.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/aatmin/internal/aat"
	"github.com/pdiddy/aatmin/internal/logging"
	"github.com/pdiddy/aatmin/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the aatmin CLI.
var rootCmd = &cobra.Command{
	Use:   "aatmin",
	Short: "Report the smallest L1 average access time in test.log",
	Long: `aatmin scans test.log in the working directory for lines of the form

  L1 average access time (AAT): <number>

and prints the smallest value found, or None if no such line exists.
A labelled line whose value is not a number aborts the scan.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := loadConfig()
		return runScan(cmd.Context(), cfg, aat.DefaultLogPath, cmd.OutOrStdout())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./aatmin.yaml or ~/.config/aatmin/aatmin.yaml)")
	rootCmd.PersistentFlags().String("log-level", types.DefaultLogLevel, "diagnostic log level on stderr: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("log.level", types.DefaultLogLevel)
	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.path", types.DefaultHistoryPath)
	viper.SetDefault("history.limit", types.DefaultHistoryLimit)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("aatmin")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "aatmin"))
		}
	}

	viper.SetEnvPrefix("AATMIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// loadConfig decodes the merged viper settings. Fields that fail to decode
// keep their defaults; the error is returned so the caller can report it.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Log:     types.LoggingConfig{Level: types.DefaultLogLevel},
		History: types.HistoryConfig{Path: types.DefaultHistoryPath, Limit: types.DefaultHistoryLimit},
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// setupLogging initialises the global logger, stores it in the command's
// context, and reports config problems now that there is somewhere to
// report them.
func setupLogging(cmd *cobra.Command) {
	cfg, cfgErr := loadConfig()
	logging.Init(cfg.Log)

	log := logging.Get(context.Background())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithContext(ctx, log))

	if f := viper.ConfigFileUsed(); f != "" {
		log.Infow("using config file", "path", f)
	}
	if cfgErr != nil {
		log.Warnw("ignoring invalid config values", "error", cfgErr)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
