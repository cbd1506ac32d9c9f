// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inkml orchestrates the external text-to-InkML converter: it
// resolves the converter script, invokes it once per input file, derives
// output paths by extension substitution, and isolates per-file failures
// in batch runs. The conversion itself lives entirely in the external
// script; this package never reads or writes InkML.
package inkml

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/ink-engine/internal/runner"
	"github.com/pdiddy/ink-engine/pkg/types"
)

const (
	// defaultScriptName is the converter entry point, resolved next to
	// the running binary when no explicit path is configured.
	defaultScriptName = "convert_txt_to_inkml.ts"

	// InputExt is the extension of convertible stroke-trace files.
	InputExt = ".txt"

	// OutputExt is the extension the converter gives its output.
	OutputExt = ".inkml"
)

// defaultInterpreter runs the TypeScript converter script.
var defaultInterpreter = []string{"npx", "tsx"}

// Recorder receives the outcome of each converter invocation. The
// history store implements it; a nil Recorder disables recording.
type Recorder interface {
	Record(ctx context.Context, c types.Conversion) error
}

// Converter invokes the external converter script synchronously, one
// input at a time.
type Converter struct {
	script string
	interp []string
	run    runner.Runner
	rec    Recorder
}

// New builds a Converter from cfg. An empty ScriptPath resolves the
// default script next to the running executable. A nil run uses the
// production os/exec runner; a nil rec disables history recording.
// Returns a *NotFoundError when the resolved script does not exist.
func New(cfg types.ConverterConfig, run runner.Runner, rec Recorder) (*Converter, error) {
	script := cfg.ScriptPath
	if script == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolving executable path: %w", err)
		}
		script = filepath.Join(filepath.Dir(exe), defaultScriptName)
	}

	if _, err := os.Stat(script); err != nil {
		return nil, &NotFoundError{Path: script}
	}

	interp := cfg.Interpreter
	if len(interp) == 0 {
		interp = defaultInterpreter
	}
	if run == nil {
		run = runner.OS()
	}

	return &Converter{
		script: script,
		interp: interp,
		run:    run,
		rec:    rec,
	}, nil
}

// OutputPath derives the markup path for an input path by replacing the
// final extension with OutputExt. An extensionless input gains OutputExt.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + OutputExt
}

// ConvertFile runs the converter on path and waits for it to finish.
// On a zero exit status it returns the derived output path, after
// verifying the converter actually produced the file. A nonzero exit
// status or a missing output yields a *ConversionError carrying the
// captured diagnostic output.
func (c *Converter) ConvertFile(path string) (string, error) {
	args := make([]string, 0, len(c.interp)+1)
	args = append(args, c.interp[1:]...)
	args = append(args, c.script, path)

	_, stderr, err := c.run.Run(c.interp[0], args...)
	if err != nil {
		cerr := &ConversionError{Input: path, Stderr: strings.TrimSpace(stderr), Err: err}
		c.record(path, "", cerr)
		return "", cerr
	}

	out := OutputPath(path)
	if _, err := os.Stat(out); err != nil {
		cerr := &ConversionError{
			Input:  path,
			Stderr: strings.TrimSpace(stderr),
			Err:    fmt.Errorf("converter exited cleanly but %s was not produced", out),
		}
		c.record(path, "", cerr)
		return "", cerr
	}

	c.record(path, out, nil)
	return out, nil
}

// ConvertString writes content to a temporary .txt file, converts it,
// and removes the temporary input whether or not conversion succeeds.
// A non-empty label renames the output to <tmpbase>_<label>.inkml.
func (c *Converter) ConvertString(content, label string) (string, error) {
	tmp, err := os.CreateTemp("", "ink-*"+InputExt)
	if err != nil {
		return "", fmt.Errorf("creating temporary input: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temporary input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temporary input: %w", err)
	}

	out, err := c.ConvertFile(tmpPath)
	if err != nil {
		return "", err
	}

	if label != "" {
		labeled := strings.TrimSuffix(tmpPath, filepath.Ext(tmpPath)) + "_" + label + OutputExt
		if err := os.Rename(out, labeled); err != nil {
			return "", fmt.Errorf("renaming output for label %s: %w", label, err)
		}
		return labeled, nil
	}

	return out, nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any inputs failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// BatchConvertDirectory recursively converts every .txt file under
// cfg.InputDir, printing per-file status to w. Individual failures are
// logged and skipped; the walk never aborts for them. When cfg.OutputDir
// names a different directory it is created and each successful output
// is moved into it. Returns the output paths of successful conversions
// in discovery order.
func (c *Converter) BatchConvertDirectory(cfg types.BatchConfig, w io.Writer) ([]string, BatchResult, error) {
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = cfg.InputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, BatchResult{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	relocate := filepath.Clean(outDir) != filepath.Clean(cfg.InputDir)

	var outputs []string
	var result BatchResult

	err := filepath.WalkDir(cfg.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != InputExt {
			return nil
		}

		out, err := c.ConvertFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			result.Failed++
			return nil
		}

		if relocate {
			final := filepath.Join(outDir, filepath.Base(out))
			if err := os.Rename(out, final); err != nil {
				fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
				result.Failed++
				return nil
			}
			out = final
		}

		fmt.Fprintf(w, "converted: %s\n", path)
		outputs = append(outputs, out)
		result.Converted++
		return nil
	})
	if err != nil {
		return nil, result, fmt.Errorf("walking %s: %w", cfg.InputDir, err)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return outputs, result, nil
}

// record logs the invocation outcome to the recorder, if one is set.
// Recording problems are warnings, never conversion failures.
func (c *Converter) record(input, output string, cerr *ConversionError) {
	if c.rec == nil {
		return
	}

	rec := types.Conversion{
		InputPath:  input,
		OutputPath: output,
		Status:     types.ConversionDone,
		RecordedAt: time.Now().UTC(),
	}
	if cerr != nil {
		rec.Status = types.ConversionFailed
		rec.Diagnostic = cerr.Stderr
		if rec.Diagnostic == "" {
			rec.Diagnostic = cerr.Err.Error()
		}
	}

	if err := c.rec.Record(context.Background(), rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record conversion of %s: %v\n", input, err)
	}
}
