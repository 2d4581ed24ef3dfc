package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soocke/cellcount-go/app"
	"github.com/soocke/cellcount-go/config"
)

var (
	configPath string
	debugFlag  bool
	seedFlag   uint64
)

var rootCmd = &cobra.Command{
	Use:   "cellcount [image]",
	Short: "Cell count demo",
	Long: `Opens the cell count window. An image given on the command line is
loaded as if it had been dropped onto the window.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "seed for reproducible results (0 = random)")
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command, logger *slog.Logger) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", configPath, "error", err)
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugFlag
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seedFlag
	}
	return cfg
}

func runGUI(cmd *cobra.Command, args []string) error {
	level := new(slog.LevelVar)
	logger := NewLogger(level)
	cfg := loadConfig(cmd, logger)
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}

	application := app.NewApp("Cell Count Demo", cfg, configPath, logger, level, args)
	application.Start()
	return nil
}
