// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ink-engine CLI, a thin
// orchestration layer around the external text-to-InkML converter script.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ink-engine/internal/history"
	"github.com/pdiddy/ink-engine/internal/inkml"
	"github.com/pdiddy/ink-engine/internal/runner"
	"github.com/pdiddy/ink-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ink-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "ink-engine",
	Short: "Convert stroke-trace text files to InkML",
	Long: `ink-engine shells out to the external convert_txt_to_inkml.ts script and
manages file paths around that call. It converts named files, inline
content, or whole directory trees; the stroke-to-InkML conversion itself
happens entirely in the external script.

Each operation is a subcommand: convert, batch, and history.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ink-engine.yaml or ~/.config/ink-engine/config.yaml)")
	rootCmd.PersistentFlags().String("script", "", "path to the converter script (default: next to the ink-engine binary)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ink-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ink-engine"))
		}
	}

	viper.SetDefault("converter.interpreter", []string{"npx", "tsx"})
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.db_path", history.DefaultDBPath)

	viper.SetEnvPrefix("INK_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newConverter assembles the orchestrator from flags and config, wiring
// in the history recorder when enabled. The returned closer releases the
// history store.
func newConverter() (*inkml.Converter, func(), error) {
	script, _ := rootCmd.PersistentFlags().GetString("script")
	if script == "" {
		script = viper.GetString("converter.script_path")
	}

	var rec inkml.Recorder
	closer := func() {}
	if viper.GetBool("history.enabled") {
		store, err := history.NewStore(types.HistoryConfig{
			Enabled: true,
			DBPath:  viper.GetString("history.db_path"),
		})
		if err != nil {
			return nil, nil, err
		}
		rec = store
		closer = func() { store.Close() }
	}

	cfg := types.ConverterConfig{
		ScriptPath:  script,
		Interpreter: viper.GetStringSlice("converter.interpreter"),
	}
	conv, err := inkml.New(cfg, runner.OS(), rec)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return conv, closer, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
