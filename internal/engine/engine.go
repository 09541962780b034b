// Package engine runs a command string against the files of a store and
// reports the produced files, console streams and exit status.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jo-hoe/magickpad/internal/files"
)

// Engine executes one command string. A non-zero exit code is a normal
// result; an error means the command could not be run at all.
type Engine interface {
	Execute(ctx context.Context, command string) (*Result, error)
}

// Inputs is the read side of the file store the engine takes inputs from.
type Inputs interface {
	GetAll(ctx context.Context) ([]files.File, error)
}

type Result struct {
	OutputFiles []files.File `json:"outputFiles"`
	Stdout      []string     `json:"stdout"`
	Stderr      []string     `json:"stderr"`
	ExitCode    int          `json:"exitCode"`
}

func newResult() *Result {
	return &Result{
		OutputFiles: []files.File{},
		Stdout:      []string{},
		Stderr:      []string{},
	}
}

func (r *Result) fail(exitCode int, format string, a ...any) *Result {
	r.ExitCode = exitCode
	r.Stderr = append(r.Stderr, fmt.Sprintf(format, a...))
	return r
}

// EngineError reports that the engine could not carry out the command.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// splitLines turns captured output into lines without the trailing empty line.
func splitLines(output string) []string {
	output = strings.TrimRight(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}
