package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/jo-hoe/magickpad/internal/command"
)

func createTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test PNG: %v", err)
	}
	return path
}

// runCLI parses args and runs the selected command with captured output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var cli CLI
	var stdout, stderr bytes.Buffer
	parser, err := kong.New(&cli, kong.Name("magickctl"), kong.Writers(&stdout, &stderr), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New error: %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	err = ctx.Run(ctx)
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return -1
}

func TestSplit(t *testing.T) {
	stdout, _, err := runCLI(t, "split", `convert "my image.png" -resize 50% out.png`)
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	want := `["convert","my image.png","-resize","50%","out.png"]`
	if strings.TrimSpace(stdout) != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestJoin(t *testing.T) {
	stdout, _, err := runCLI(t, "join", `["convert","my image.png","out.png"]`)
	if err != nil {
		t.Fatalf("join error: %v", err)
	}
	got := command.ToArgs(strings.TrimSpace(stdout))
	want := []string{"convert", "my image.png", "out.png"}
	if !slices.Equal(got, want) {
		t.Errorf("%q splits into %q, want %q", stdout, got, want)
	}
}

func TestJoin_SyntaxError(t *testing.T) {
	_, stderr, err := runCLI(t, "join", `["convert",`)
	if exitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
	if stderr == "" {
		t.Error("expected the syntax error on stderr")
	}
}

func TestRun_WritesOutputs(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	input := createTestPNG(t, inDir, "a.png", 100, 40)

	stdout, _, err := runCLI(t, "run", "-i", input, "--out-dir", outDir, "--previews", "convert a.png -resize 50% out.png")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "out.png"))
	if err != nil {
		t.Fatalf("expected out.png: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 20 {
		t.Errorf("output size = %dx%d, want 50x20", cfg.Width, cfg.Height)
	}
	if !strings.Contains(stdout, "out.png PNG 50x20") {
		t.Errorf("expected preview metadata on stdout, got %q", stdout)
	}
}

func TestRun_BuiltIns(t *testing.T) {
	stdout, _, err := runCLI(t, "run", "--builtins", "--out-dir", t.TempDir(), "magick identify checker.png")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(stdout, "checker.png PNG 64x64") {
		t.Errorf("unexpected identify output %q", stdout)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	_, stderr, err := runCLI(t, "run", "--out-dir", t.TempDir(), "convert missing.png out.png")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(stderr, "unable to open image 'missing.png'") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunCmd_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &RunCmd{Command: "convert a.png out.png", OutDir: t.TempDir()}
	var stdout, stderr bytes.Buffer
	err := cmd.run(ctx, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
	if exitCode(err) != -1 {
		t.Errorf("expected a plain error, got exit code %d", exitCode(err))
	}
}
