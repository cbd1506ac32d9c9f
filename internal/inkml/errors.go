// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inkml

import "fmt"

// NotFoundError reports that the converter entry point does not exist at
// the resolved path. It is returned from New, before any conversion runs.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("converter script not found: %s", e.Path)
}

// ConversionError reports a failed converter invocation for one input.
// Stderr carries the converter's diagnostic output when the process
// produced any.
type ConversionError struct {
	Input  string
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("converting %s: %v: %s", e.Input, e.Err, e.Stderr)
	}
	return fmt.Sprintf("converting %s: %v", e.Input, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
