package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/cliffcrown/internal/config"
	"github.com/muurk/cliffcrown/internal/greetd"
	"github.com/muurk/cliffcrown/internal/greeter"
	"github.com/muurk/cliffcrown/internal/logging"
	"github.com/muurk/cliffcrown/internal/ui"
)

// Greeter flags
var (
	configPath     string
	restrictedUser string
	background     string
	logLevel       string
	logFile        string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "C", config.DefaultPath, "Path to the config file (TOML, or YAML by extension)")
	rootCmd.PersistentFlags().StringVarP(&restrictedUser, "user", "u", "", "Only allow this user to log in and skip the username prompt")
	rootCmd.PersistentFlags().StringVarP(&background, "bg", "b", "", "Background color for the login screen (#rrggbb)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when empty")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(configCmd)
}

// configCmd prints the configuration the greeter would run with
var configCmd = &cobra.Command{
	Use:   "config [command...]",
	Short: "Print the resolved configuration",
	Long: `Resolve the configuration from the config file, the environment and
flags, and print it in config file format.

Useful to check what a greetd default_session line will actually do.`,
	Example: `  # Show the effective settings
  cliffcrown config

  # Check an alternative file
  cliffcrown config -C ./cliffcrown.yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: runConfig,
}

func loadConfig(args []string) (*config.Config, error) {
	cfg, notices, err := config.Load(config.Flags{
		ConfigPath:     configPath,
		RestrictedUser: restrictedUser,
		Background:     background,
		Command:        args,
		LogLevel:       logLevel,
		LogFile:        logFile,
	})
	if err != nil {
		return nil, err
	}

	if err := logging.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	for _, notice := range notices {
		logging.Warn(notice)
	}
	return cfg, nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	defer logging.Sync()

	return cfg.WriteTOML(cmd.OutOrStdout())
}

func runGreeter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Starting greeter",
		zap.String("socket", cfg.Socket),
		zap.String("restricted_user", cfg.RestrictedUser),
		zap.Strings("command", cfg.Command),
	)

	client, err := greetd.Connect(ctx, cfg.Socket)
	if err != nil {
		return err
	}

	err = ui.Run(ctx, client, ui.Options{
		Settings: greeter.Settings{
			RestrictedUser: cfg.RestrictedUser,
			Command:        cfg.Command,
		},
		Environment: cfg.Environment,
		Background:  cfg.Background,
	})
	if err != nil {
		logging.Error("Greeter stopped", zap.Error(err))
		return err
	}

	logging.Info("Session started", zap.Strings("command", cfg.Command))
	return nil
}
