// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ink-engine/internal/history"
	"github.com/pdiddy/ink-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversion records",
	Long: `History lists recent converter invocations from the local SQLite log:
input, output, status, and the converter's diagnostic text for failures.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of records to show")
	historyCmd.Flags().Bool("json", false, "emit records as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.NewStore(types.HistoryConfig{
		Enabled: true,
		DBPath:  viper.GetString("history.db_path"),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-9s  %-40s  %s\n", "When", "Status", "Input", "Output")
	for _, r := range records {
		target := r.OutputPath
		if r.Status == types.ConversionFailed {
			target = r.Diagnostic
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-9s  %-40s  %s\n",
			r.RecordedAt.Local().Format(time.DateTime), r.Status, r.InputPath, target)
	}
	return nil
}
