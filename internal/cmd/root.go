package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuzeguitarist/qrdrop/internal/config"
	"github.com/yuzeguitarist/qrdrop/internal/logging"
)

// Version is set at build time with -ldflags "-X .../internal/cmd.Version=...".
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:           "qrdrop",
		Short:         "qrdrop - turn text or uploaded files into shareable QR codes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	configPath string
	rootDir    string
	logLevel   string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, applies global flag overrides,
// validates the result and initializes logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.Debug); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies command specific flags that were set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Lookup("base-url") != nil && flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Lookup("debug") != nil && flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "application root holding static/ and qr_codes.json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
