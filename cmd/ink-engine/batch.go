// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ink-engine/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir>",
	Short: "Convert every .txt file under a directory tree",
	Long: `Batch recursively finds .txt files under the input directory and converts
each one independently: failures are logged and skipped, never aborting
the run. With --output-dir, successful outputs are moved into a separate
directory, which is created if absent.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("output-dir", "", "directory for successful outputs (default: next to each input)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("batch.output_dir")
	}

	conv, closer, err := newConverter()
	if err != nil {
		return err
	}
	defer closer()

	cfg := types.BatchConfig{InputDir: args[0], OutputDir: outputDir}
	outputs, result, err := conv.BatchConvertDirectory(cfg, os.Stdout)
	if err != nil {
		return err
	}

	for _, out := range outputs {
		fmt.Println(out)
	}
	if result.HasFailures() {
		fmt.Fprintf(os.Stderr, "warning: %d file(s) failed conversion\n", result.Failed)
	}
	return nil
}
