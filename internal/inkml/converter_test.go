// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inkml

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// exitError stands in for the nonzero-exit error os/exec would return.
var exitError = errors.New("exit status 1")

// fakeRunner implements runner.Runner without launching processes. On
// success it mimics the converter script by writing the sibling .inkml
// file, unless the input's base name appears in failOn.
type fakeRunner struct {
	failOn map[string]bool
	stderr string
	calls  [][]string
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	return file, nil
}

func (f *fakeRunner) Run(name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))

	input := args[len(args)-1]
	if f.failOn[filepath.Base(input)] {
		return "", f.stderr, exitError
	}
	if err := os.WriteFile(OutputPath(input), []byte("<ink/>"), 0o644); err != nil {
		return "", "", err
	}
	return "", "", nil
}

// brokenRunner exits zero without producing any output file.
type brokenRunner struct{}

func (brokenRunner) LookPath(file string) (string, error) { return file, nil }

func (brokenRunner) Run(name string, args ...string) (string, string, error) {
	return "", "", nil
}

// fakeRecorder collects conversion records.
type fakeRecorder struct {
	records []types.Conversion
}

func (f *fakeRecorder) Record(_ context.Context, c types.Conversion) error {
	f.records = append(f.records, c)
	return nil
}

// newTestConverter builds a Converter around a real script file in a
// temp dir and the given runner.
func newTestConverter(t *testing.T, run *fakeRunner, rec Recorder) *Converter {
	t.Helper()
	script := filepath.Join(t.TempDir(), "convert_txt_to_inkml.ts")
	if err := os.WriteFile(script, []byte("// stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	conv, err := New(types.ConverterConfig{ScriptPath: script}, run, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return conv
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("Stroke 1\n10.5 20.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew_MissingScript(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-converter.ts")

	_, err := New(types.ConverterConfig{ScriptPath: missing}, &fakeRunner{}, nil)
	if err == nil {
		t.Fatal("expected error for missing script")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.Path != missing {
		t.Errorf("NotFoundError.Path = %q, want %q", nf.Path, missing)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"trace.txt", "trace.inkml"},
		{filepath.Join("data", "strokes", "sample.txt"), filepath.Join("data", "strokes", "sample.inkml")},
		{"multi.dot.txt", "multi.dot.inkml"},
		{"noext", "noext.inkml"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.input); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertFile_Success(t *testing.T) {
	run := &fakeRunner{}
	conv := newTestConverter(t, run, nil)
	input := writeInput(t, t.TempDir(), "sample.txt")

	out, err := conv.ConvertFile(input)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if want := OutputPath(input); out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	// One invocation: npx tsx <script> <input>.
	if len(run.calls) != 1 {
		t.Fatalf("got %d invocations, want 1", len(run.calls))
	}
	call := run.calls[0]
	if call[0] != "npx" || call[1] != "tsx" {
		t.Errorf("interpreter = %v, want npx tsx", call[:2])
	}
	if call[len(call)-1] != input {
		t.Errorf("last argument = %q, want input path %q", call[len(call)-1], input)
	}
}

func TestConvertFile_NonzeroExit(t *testing.T) {
	run := &fakeRunner{
		failOn: map[string]bool{"bad.txt": true},
		stderr: "trace parse error at line 3",
	}
	conv := newTestConverter(t, run, nil)
	input := writeInput(t, t.TempDir(), "bad.txt")

	_, err := conv.ConvertFile(input)
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}

	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *ConversionError", err)
	}
	if cerr.Stderr != "trace parse error at line 3" {
		t.Errorf("Stderr = %q, want converter diagnostic", cerr.Stderr)
	}
	if !strings.Contains(err.Error(), "trace parse error") {
		t.Errorf("error text %q should include the diagnostic", err.Error())
	}
}

func TestConvertFile_OutputNotProduced(t *testing.T) {
	script := filepath.Join(t.TempDir(), "convert_txt_to_inkml.ts")
	if err := os.WriteFile(script, []byte("// stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	conv, err := New(types.ConverterConfig{ScriptPath: script}, brokenRunner{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	input := writeInput(t, t.TempDir(), "silent.txt")

	_, err = conv.ConvertFile(input)

	var cerr *ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *ConversionError", err)
	}
	if !strings.Contains(err.Error(), "was not produced") {
		t.Errorf("error text %q should report the missing output", err.Error())
	}
}

func TestConvertString(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		wantErr  bool
		wantStem string // expected suffix of the output path; empty for default naming
	}{
		{name: "default naming"},
		{name: "labeled output", label: "session42", wantStem: "_session42.inkml"},
		{name: "conversion failure", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMPDIR", t.TempDir())

			conv := newTestConverter(t, &fakeRunner{}, nil)
			if tt.wantErr {
				conv.run = &failAllRunner{stderr: "bad strokes"}
			}

			out, err := conv.ConvertString("Stroke 1\n1.0 2.0\n", tt.label)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected conversion error")
				}
			} else {
				if err != nil {
					t.Fatalf("ConvertString: %v", err)
				}
				if tt.wantStem != "" && !strings.HasSuffix(out, tt.wantStem) {
					t.Errorf("output = %q, want suffix %q", out, tt.wantStem)
				}
				if _, err := os.Stat(out); err != nil {
					t.Errorf("output file missing: %v", err)
				}
			}

			// The temporary input is removed on every exit path.
			leftover, err := filepath.Glob(filepath.Join(os.TempDir(), "ink-*"+InputExt))
			if err != nil {
				t.Fatal(err)
			}
			if len(leftover) != 0 {
				t.Errorf("temporary inputs not cleaned up: %v", leftover)
			}
		})
	}
}

// failAllRunner rejects every invocation.
type failAllRunner struct {
	stderr string
}

func (failAllRunner) LookPath(file string) (string, error) { return file, nil }

func (f *failAllRunner) Run(name string, args ...string) (string, string, error) {
	return "", f.stderr, exitError
}

func TestBatchConvertDirectory(t *testing.T) {
	inputDir := t.TempDir()
	writeInput(t, inputDir, "a.txt")
	writeInput(t, inputDir, filepath.Join("nested", "b.txt"))
	writeInput(t, inputDir, filepath.Join("nested", "broken.txt"))
	writeInput(t, inputDir, "z.txt")
	// Non-matching files are ignored.
	if err := os.WriteFile(filepath.Join(inputDir, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	run := &fakeRunner{
		failOn: map[string]bool{"broken.txt": true},
		stderr: "malformed stroke block",
	}
	conv := newTestConverter(t, run, nil)

	var log bytes.Buffer
	outputs, result, err := conv.BatchConvertDirectory(types.BatchConfig{InputDir: inputDir}, &log)
	if err != nil {
		t.Fatalf("BatchConvertDirectory: %v", err)
	}

	if result.Converted != 3 || result.Failed != 1 {
		t.Errorf("result = %+v, want 3 converted, 1 failed", result)
	}
	if len(outputs) != 3 {
		t.Fatalf("got %d outputs, want 3", len(outputs))
	}

	// Discovery order is the walk's lexical order.
	want := []string{
		filepath.Join(inputDir, "a.inkml"),
		filepath.Join(inputDir, "nested", "b.inkml"),
		filepath.Join(inputDir, "z.inkml"),
	}
	for i, o := range outputs {
		if o != want[i] {
			t.Errorf("outputs[%d] = %q, want %q", i, o, want[i])
		}
	}

	if got := strings.Count(log.String(), "failed:"); got != 1 {
		t.Errorf("log has %d failure lines, want 1:\n%s", got, log.String())
	}
	if !strings.Contains(log.String(), "broken.txt") {
		t.Errorf("failure line should name the input:\n%s", log.String())
	}
}

func TestBatchConvertDirectory_OutputDir(t *testing.T) {
	inputDir := t.TempDir()
	writeInput(t, inputDir, "a.txt")
	writeInput(t, inputDir, filepath.Join("nested", "b.txt"))

	outputDir := filepath.Join(t.TempDir(), "out", "inkml")

	conv := newTestConverter(t, &fakeRunner{}, nil)

	var log bytes.Buffer
	outputs, result, err := conv.BatchConvertDirectory(
		types.BatchConfig{InputDir: inputDir, OutputDir: outputDir}, &log)
	if err != nil {
		t.Fatalf("BatchConvertDirectory: %v", err)
	}
	if result.Failed != 0 {
		t.Fatalf("unexpected failures: %+v", result)
	}

	// The output directory is created and receives every output.
	for _, o := range outputs {
		if filepath.Dir(o) != outputDir {
			t.Errorf("output %q not in output directory %q", o, outputDir)
		}
		if _, err := os.Stat(o); err != nil {
			t.Errorf("output file missing: %v", err)
		}
	}

	// Inputs stay where they were.
	for _, name := range []string{"a.txt", filepath.Join("nested", "b.txt")} {
		if _, err := os.Stat(filepath.Join(inputDir, name)); err != nil {
			t.Errorf("input %s disturbed: %v", name, err)
		}
	}
}

func TestConvertFile_RecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	run := &fakeRunner{
		failOn: map[string]bool{"bad.txt": true},
		stderr: "stroke data truncated",
	}
	conv := newTestConverter(t, run, rec)

	dir := t.TempDir()
	good := writeInput(t, dir, "good.txt")
	bad := writeInput(t, dir, "bad.txt")

	if _, err := conv.ConvertFile(good); err != nil {
		t.Fatalf("ConvertFile(good): %v", err)
	}
	if _, err := conv.ConvertFile(bad); err == nil {
		t.Fatal("ConvertFile(bad): expected error")
	}

	if len(rec.records) != 2 {
		t.Fatalf("got %d records, want 2", len(rec.records))
	}

	done := rec.records[0]
	if done.Status != types.ConversionDone || done.OutputPath != OutputPath(good) {
		t.Errorf("success record = %+v", done)
	}
	failed := rec.records[1]
	if failed.Status != types.ConversionFailed || failed.Diagnostic != "stroke data truncated" {
		t.Errorf("failure record = %+v", failed)
	}
	if failed.RecordedAt.IsZero() {
		t.Error("failure record has no timestamp")
	}
}
