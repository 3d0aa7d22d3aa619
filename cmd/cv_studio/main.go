// Package main provides the entry point for the cv_studio editor server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/cv-studio/internal/config"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cv_studio",
	Short: "CV editor with live preview and PNG export",
	Long: "cv_studio serves a browser CV editor with a live, themeable preview and exports " +
		"the result as an A4 PNG. The same renderer is available offline for CV files.",
	SilenceUsage: true,
}

// newCapturer builds the browser capturer; tests replace it.
var newCapturer = func(chromePath string, verbose bool) export.Capturer {
	return export.NewChromeCapturer(chromePath, verbose)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
}

// loadConfig reads the config file, if any, then the environment, then the
// built-in defaults. Command flags are applied by each command on top.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.Verbose = cfg.Verbose || verbose

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
