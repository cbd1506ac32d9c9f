// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of one converter invocation.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Conversion is one recorded converter invocation.
type Conversion struct {
	// InputPath is the text file handed to the converter.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the derived InkML path. Empty for failed conversions.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Status is the conversion outcome.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Diagnostic holds the converter's error-stream output for failures.
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`

	// RecordedAt is when the invocation finished, in UTC.
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}
