package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/jo-hoe/magickpad/internal/command"
	"github.com/jo-hoe/magickpad/internal/files"
)

// Process runs the command as a child process in a scratch directory holding
// copies of the input files. Files that are new or changed after the run are
// the outputs.
type Process struct {
	inputs  Inputs
	binary  string
	timeout time.Duration
}

// NewProcess creates a process engine. When binary is set it replaces a
// leading "magick" or "convert"; a zero timeout means no limit.
func NewProcess(inputs Inputs, binary string, timeout time.Duration) *Process {
	return &Process{inputs: inputs, binary: binary, timeout: timeout}
}

func (p *Process) Execute(ctx context.Context, commandString string) (*Result, error) {
	args := command.ToArgs(commandString)
	if len(args) == 0 {
		return nil, &EngineError{Op: "start", Err: errors.New("empty command")}
	}
	if p.binary != "" && (args[0] == "magick" || args[0] == "convert") {
		args = append([]string{p.binary}, args[1:]...)
	}

	available, err := p.inputs.GetAll(ctx)
	if err != nil {
		return nil, &EngineError{Op: "read inputs", Err: err}
	}

	dir, err := os.MkdirTemp("", "magickpad-*")
	if err != nil {
		return nil, &EngineError{Op: "prepare", Err: err}
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Process: failed to remove scratch directory", "dir", dir, "error", err)
		}
	}()
	if err := files.WriteAll(dir, available); err != nil {
		return nil, &EngineError{Op: "prepare", Err: err}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdin = nil
	// grandchildren may keep the output pipes open after a kill
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Process: starting", "program", args[0], "args", len(args)-1, "dir", dir)
	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &EngineError{Op: "run", Err: fmt.Errorf("%s: %w", args[0], ctxErr)}
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &EngineError{Op: "start", Err: runErr}
		}
		exitCode = exitErr.ExitCode()
	}

	outputs, err := collectOutputs(dir, available)
	if err != nil {
		return nil, &EngineError{Op: "collect outputs", Err: err}
	}

	slog.Debug("Process: finished", "program", args[0], "exit_code", exitCode, "outputs", len(outputs))
	return &Result{
		OutputFiles: outputs,
		Stdout:      splitLines(stdout.String()),
		Stderr:      splitLines(stderr.String()),
		ExitCode:    exitCode,
	}, nil
}

// collectOutputs returns the regular files in dir that are not byte-identical
// to an input, in directory order.
func collectOutputs(dir string, inputs []files.File) ([]files.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	outputs := []files.File{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if in, ok := files.Find(inputs, entry.Name()); ok && bytes.Equal(in.Content, data) {
			continue
		}
		outputs = append(outputs, files.File{Name: entry.Name(), Content: data})
	}
	return outputs, nil
}
