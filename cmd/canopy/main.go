package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/canopy/internal/config"
	"github.com/phanxgames/canopy/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "dev"

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "canopy: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "Drive a canopy scene from a declarative scene file",
		Long: `canopy mounts the component tree declared in a YAML scene file onto a
scene, keeps it reconciled, and shows it in a window or steps it headless.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "console or json (overrides config)")

	rootCmd.AddCommand(
		runCmd(&flags),
		inspectCmd(&flags),
		schemasCmd(),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the config and builds the logger shared by every command.
func setup(flags *globalFlags) (config.Config, zerolog.Logger, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return config.Config{}, zerolog.Nop(), err
		}
		cfg = loaded
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	log, err := logging.New(logging.Options{
		Profile: logging.Profile(cfg.LogFormat),
		Level:   cfg.LogLevel,
		App:     "canopy",
	}, os.Stderr)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// scenePath picks the scene file from the arguments or the config.
func scenePath(cfg config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Scene
}
