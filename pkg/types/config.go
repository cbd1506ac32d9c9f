// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared configuration and record types for
// ink-engine.
package types

// ConverterConfig holds settings for the conversion orchestrator.
type ConverterConfig struct {
	// ScriptPath is the path to the converter entry point
	// (convert_txt_to_inkml.ts). When empty, the script is resolved
	// next to the ink-engine binary.
	ScriptPath string `json:"script_path" yaml:"script_path"`

	// Interpreter is the command prefix used to run the script
	// (default ["npx", "tsx"]).
	Interpreter []string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
}

// BatchConfig holds settings for a directory batch run.
type BatchConfig struct {
	// InputDir is the directory searched recursively for .txt inputs.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives successful outputs. When empty or equal to
	// InputDir, outputs stay next to their inputs.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// HistoryConfig holds settings for the conversion history log.
type HistoryConfig struct {
	// Enabled controls whether conversions are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DBPath is the SQLite database file (default ink/index/history.db).
	DBPath string `json:"db_path" yaml:"db_path"`
}
