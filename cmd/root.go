// Package cmd provides the command-line interface for the wakeup application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/connorhough/wakeup/internal/config"
	"github.com/connorhough/wakeup/internal/logging"
	"github.com/connorhough/wakeup/internal/version"
	"github.com/connorhough/wakeup/internal/wakeup"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	rootCmd  *cobra.Command
)

// newRunner builds the orchestrator for a run. Tests swap it for one with
// fake collaborators.
var newRunner = func(out, errOut io.Writer) *wakeup.Runner {
	return wakeup.New(out, errOut)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.go. It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if rootCmd == nil {
		rootCmd = NewRootCmd()
	}
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates and returns the root command for wakeup
func NewRootCmd() *cobra.Command {
	var (
		absolute   bool
		suspendCmd string
		eventCmd   string
	)

	rootCmd := &cobra.Command{
		Use:   "wakeup [flags] <timespec>...",
		Short: "Suspend the system and wake it up later",
		Long: `Program the RTC wake alarm, suspend the system, and optionally run a
command as the invoking user once the system wakes up.

timespec can be any combination of hours, minutes, and seconds
specified by hH, mM, and sS, respectively. Setting the wake alarm
requires root.`,
		Example: `  wakeup 1h 20m 42S                   # 1 hour, 20 minutes, 42 seconds
  wakeup 1h20M 2h                     # 3 hours, 20 minutes
  wakeup -a $(date -d tomorrow +%s)   # 24 hours
  wakeup -e 'mpc play' 7h             # music in 7 hours`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &wakeup.StageError{
					Stage: wakeup.StageUsage,
					Err:   errors.New("no timespec specified (use -h for help)"),
				}
			}

			cfg := config.Resolve()
			cfg.ApplyFlags(suspendCmd, eventCmd)

			runner := newRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return runner.Run(cmd.Context(), wakeup.Options{
				Tokens:         args,
				Absolute:       absolute,
				SuspendCommand: cfg.SuspendCommand,
				EventCommand:   cfg.EventCommand,
			})
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default locations: $XDG_CONFIG_HOME/wakeup/config.yaml, ~/.config/wakeup/config.yaml, or ~/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.Flags().BoolVarP(&absolute, "at", "a", false, "treat the timespec as an absolute time in seconds from epoch")
	rootCmd.Flags().StringVarP(&suspendCmd, "command", "c", "", "suspend with CMD instead of the configured command (default pm-suspend)")
	rootCmd.Flags().StringVarP(&eventCmd, "event", "e", "", "execute CMD as the invoking user after wakeup (alias --execute)")
	rootCmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "execute" {
			name = "event"
		}
		return pflag.NormalizedName(name)
	})

	// Add subcommands
	rootCmd.AddCommand(newConfigCmd())

	// PersistentPreRun handles configuration initialization
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return &wakeup.StageError{Stage: wakeup.StageUsage, Err: err}
		}
		level := viper.GetString(config.KeyLogLevel)
		if logLevel != "" {
			level = logLevel
		}
		if err := logging.Setup(level, cmd.ErrOrStderr()); err != nil {
			return &wakeup.StageError{Stage: wakeup.StageUsage, Err: err}
		}
		return nil
	}

	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	config.SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find config file in standard locations
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "wakeup"))
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %w", err)
			}
			viper.AddConfigPath(filepath.Join(home, ".config", "wakeup"))
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("WAKEUP")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; ignore error if desired
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}
