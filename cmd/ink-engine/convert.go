// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ink-engine/internal/inkml"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert stroke-trace text files to InkML",
	Long: `Convert runs the external converter on each named .txt file and prints
the resulting .inkml path. With --stdin, stroke text is read from standard
input and converted through a temporary file; --label folds a name into
the output file. With --manifest, a YAML file of inline jobs is converted
with per-job failure isolation.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("stdin", false, "read stroke text from standard input")
	convertCmd.Flags().String("label", "", "label folded into the output name (with --stdin or --manifest)")
	convertCmd.Flags().String("manifest", "", "YAML manifest of inline conversion jobs")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	fromStdin, _ := cmd.Flags().GetBool("stdin")
	label, _ := cmd.Flags().GetString("label")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	if !fromStdin && manifestPath == "" && len(args) == 0 {
		return fmt.Errorf("nothing to convert: provide input files, --stdin, or --manifest")
	}

	conv, closer, err := newConverter()
	if err != nil {
		return err
	}
	defer closer()

	if manifestPath != "" {
		m, err := inkml.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		_, result := conv.ConvertManifest(m, os.Stdout)
		if result.HasFailures() {
			return fmt.Errorf("%d job(s) failed", result.Failed)
		}
		return nil
	}

	if fromStdin {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading standard input: %w", err)
		}
		out, err := conv.ConvertString(string(content), label)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	for _, path := range args {
		out, err := conv.ConvertFile(path)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}
