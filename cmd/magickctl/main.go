// Command magickctl converts commands between their string and array forms
// and runs them headless through a workbench session.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jo-hoe/magickpad/internal/command"
	"github.com/jo-hoe/magickpad/internal/core"
	"github.com/jo-hoe/magickpad/internal/files"
)

// CLI defines the command-line interface for magickctl.
type CLI struct {
	Split SplitCmd `cmd:"" help:"Print the argument array of a command string as JSON"`
	Join  JoinCmd  `cmd:"" help:"Print the command string of a JSON argument array"`
	Run   RunCmd   `cmd:"" help:"Execute a command against local files"`
}

// exitCodeError carries a process exit code out of a command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type SplitCmd struct {
	Command string `arg:"" help:"Command string, e.g. \"convert in.png -resize 50% out.png\""`
}

func (c *SplitCmd) Run(ctx *kong.Context) error {
	_, err := fmt.Fprintln(ctx.Stdout, command.FormatArgsJSON(command.ToArgs(c.Command)))
	return err
}

type JoinCmd struct {
	Args string `arg:"" help:"JSON array of strings"`
}

func (c *JoinCmd) Run(ctx *kong.Context) error {
	args, err := command.ParseArgsJSON(c.Args)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, err)
		return &exitCodeError{code: 2}
	}
	_, err = fmt.Fprintln(ctx.Stdout, command.ToCommandString(args))
	return err
}

type RunCmd struct {
	Command  string   `arg:"" help:"Command string to execute"`
	Input    []string `short:"i" help:"Input file to register (repeatable)" type:"existingfile"`
	BuiltIns bool     `name:"builtins" help:"Register the built-in sample images"`
	Previews bool     `help:"Print image metadata of every output"`
	OutDir   string   `name:"out-dir" default:"." help:"Directory receiving output files" type:"path"`
	Config   string   `help:"Service configuration file" type:"existingfile"`
}

func (c *RunCmd) Run(ctx *kong.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(runCtx, ctx.Stdout, ctx.Stderr)
}

func (c *RunCmd) run(ctx context.Context, stdout, stderr io.Writer) error {
	config := core.DefaultConfig()
	if c.Config != "" {
		loaded, err := core.LoadConfig(c.Config)
		if err != nil {
			return err
		}
		config = loaded
	}

	coreService, err := core.NewCoreService(config)
	if err != nil {
		return err
	}
	defer func() {
		_ = coreService.Close()
	}()
	workbench := coreService.Session()

	inputs, err := files.ReadPaths(c.Input...)
	if err != nil {
		return err
	}
	if len(inputs) > 0 {
		if err := workbench.AddFiles(ctx, inputs); err != nil {
			return err
		}
	}
	if c.BuiltIns {
		if err := workbench.AddBuiltIns(ctx); err != nil {
			return err
		}
	}

	workbench.EditCommandString(c.Command)
	if _, err := workbench.Execute(ctx); err != nil {
		return err
	}

	state := workbench.Snapshot()
	for _, line := range state.Stdout {
		fmt.Fprintln(stdout, line)
	}
	for _, line := range state.Stderr {
		fmt.Fprintln(stderr, line)
	}
	if c.Previews {
		for _, entry := range state.OutputPreviews {
			if entry.Err != "" {
				fmt.Fprintf(stderr, "%s: %s\n", entry.Name, entry.Err)
				continue
			}
			for _, info := range entry.Metadata {
				fmt.Fprintln(stdout, info.String())
			}
		}
	}

	if err := files.WriteAll(c.OutDir, state.OutputFiles); err != nil {
		return err
	}
	if len(state.OutputFiles) > 0 {
		fmt.Fprintf(stderr, "wrote %s to %s\n", strings.Join(files.Names(state.OutputFiles), ", "), c.OutDir)
	}

	if state.ExitCode != 0 {
		return &exitCodeError{code: state.ExitCode}
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("magickctl"),
		kong.Description("Edit and run ImageMagick-style commands"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}
	ctx.FatalIfErrorf(err)
}
