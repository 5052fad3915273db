package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/steviee/mcghosts/internal/state"
)

var (
	// Global flags
	cfgFile string
	jsonOut bool
	quiet   bool
	verbose bool

	// Global logger
	logger *slog.Logger
)

// Environment overrides, read with the MCGHOSTS_ prefix.
const (
	envPlayerdataDir = "playerdata_dir"
	envOutputDir     = "output_dir"
	envSessionURL    = "session_url"
	envAPIURL        = "api_url"
)

// NewRootCommand creates and returns the root cobra command
func NewRootCommand(version, commit, date, builtBy string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcghosts",
		Short: "Turn saved player data into a ghost datapack",
		Long: `mcghosts reads the player files of a world and generates a datapack that
places a motionless, named ghost wherever each player last stood.

Run it from the world folder. It reads ./playerdata/*.dat, resolves player
names through the Mojang session server (cached in uuid_cache_<world>.json)
and writes the datapack to ./nostalgia_ghosts. Copy that folder into the
world's datapacks directory and reload.

In game, right-click with the Ghost Navigator to teleport from ghost to ghost.`,
		Example: `  # Generate the datapack in the current world folder
  mcghosts

  # Use a different playerdata directory
  MCGHOSTS_PLAYERDATA_DIR=/srv/world/playerdata mcghosts

  # Pre-populate the name cache from usernames
  mcghosts ids Notch jeb_`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logger based on flags
			if err := initLogger(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			// Initialize config
			if err := initConfig(); err != nil {
				logger.Error("failed to initialize config", "error", err)
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout())
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+state.ConfigFileName+" if present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	// Mark json and quiet as mutually exclusive
	rootCmd.MarkFlagsMutuallyExclusive("json", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(NewVersionCommand(version, commit, date, builtBy))
	rootCmd.AddCommand(NewIDsCommand())

	return rootCmd
}

// initLogger initializes the global logger based on flags
func initLogger() error {
	var level slog.Level
	var handler slog.Handler

	// Determine log level
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if jsonOut {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)

	return nil
}

// initConfig locates the config file and binds environment overrides.
func initConfig() error {
	viper.Reset()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("mcghosts")
	}

	viper.SetEnvPrefix("MCGHOSTS")
	for _, key := range []string{envPlayerdataDir, envOutputDir, envSessionURL, envAPIURL} {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	} else {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}

	return nil
}

// loadConfig decodes the config file found by initConfig over the defaults
// and applies environment overrides.
func loadConfig() (*state.Config, error) {
	cfg, err := state.LoadConfig(viper.ConfigFileUsed())
	if err != nil {
		return nil, err
	}

	if v := viper.GetString(envPlayerdataDir); v != "" {
		cfg.Input.PlayerdataDir = v
	}
	if v := viper.GetString(envOutputDir); v != "" {
		cfg.Output.Dir = v
	}
	if v := viper.GetString(envSessionURL); v != "" {
		cfg.Mojang.SessionURL = v
	}
	if v := viper.GetString(envAPIURL); v != "" {
		cfg.Mojang.APIURL = v
	}

	return cfg, nil
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return logger
}

// IsJSONOutput returns true if JSON output is enabled
func IsJSONOutput() bool {
	return jsonOut
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quiet
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}
