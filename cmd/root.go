package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gantry/internal/config"
	"github.com/zjrosen/gantry/internal/log"
	"github.com/zjrosen/gantry/internal/tracing"
)

var (
	version    = "dev"
	cfgFile    string
	debugLog   bool
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "gantry",
	Short: "Maintenance CLI for pick-and-place machine configurations",
	Long: `Gantry loads, validates and rewrites the YAML documents describing a
pick-and-place machine: the machine itself, its package and part
catalogs, and the boards and jobs built on them.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"settings file (default: ~/.config/gantry/config.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "d", "",
		"machine configuration directory (default: config_dir setting or ~/.gantry)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false,
		"write debug logs to gantry.log")

	// Bind flags to viper
	_ = viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("config_dir", defaults.ConfigDir)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Settings lookup order:
		// 1. .gantry/config.yaml (current directory)
		// 2. ~/.config/gantry/config.yaml (user settings)
		if _, err := os.Stat(".gantry/config.yaml"); err == nil {
			viper.SetConfigFile(".gantry/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "gantry"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No settings file anywhere - run with defaults. 'gantry init'
		// writes one.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: reading settings: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debugLog || os.Getenv("GANTRY_DEBUG") != "" {
		if cleanup, err := log.Init("gantry.log"); err == nil {
			logCleanup = cleanup
			log.Info(log.CatCLI, "debug logging enabled")
		}
	}
}

// resolveConfigDir returns the machine configuration directory for this
// invocation: the --dir flag wins over the config_dir setting, which
// wins over ~/.gantry.
func resolveConfigDir() string {
	if cfg.ConfigDir != "" {
		return cfg.ConfigDir
	}
	return config.DefaultConfigDir()
}

// newTracerProvider validates the settings and builds the tracing
// provider from them. The returned cleanup flushes pending spans.
func newTracerProvider() (*tracing.Provider, func(), error) {
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid settings: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing.TracerConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}
	return provider, cleanup, nil
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
