// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner abstracts external command execution so that callers can
// substitute a stub in tests without launching real processes.
package runner

import (
	"bytes"
	"os/exec"
)

// Runner executes external commands.
type Runner interface {
	// LookPath reports where the named binary resolves on PATH.
	LookPath(file string) (string, error)

	// Run executes name with args, waits for completion, and returns
	// the captured standard output and standard error. A nonzero exit
	// status is returned as an *exec.ExitError.
	Run(name string, args ...string) (stdout, stderr string, err error)
}

// osRunner is the production Runner backed by os/exec.
type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

var defaultRunner = osRunner{}

// OS returns the production Runner.
func OS() Runner {
	return defaultRunner
}
