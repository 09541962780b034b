package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/jo-hoe/magickpad/internal/command"
	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/imaging"
)

// Builtin interprets a subset of ImageMagick's convert and identify in process.
type Builtin struct {
	inputs   Inputs
	registry *OperatorRegistry
}

func NewBuiltin(inputs Inputs) *Builtin {
	return &Builtin{inputs: inputs, registry: DefaultRegistry}
}

func (b *Builtin) Execute(ctx context.Context, commandString string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Builtin: operator panicked", "command", commandString, "panic", r)
			result, err = nil, &EngineError{Op: "execute", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	args := command.ToArgs(commandString)
	result = newResult()
	if len(args) == 0 {
		return result.fail(1, "magick: no command given"), nil
	}

	available, err := b.inputs.GetAll(ctx)
	if err != nil {
		return nil, &EngineError{Op: "read inputs", Err: err}
	}

	program, rest := args[0], args[1:]
	if program == "magick" && len(rest) > 0 && rest[0] == "identify" {
		program, rest = rest[0], rest[1:]
	}

	slog.Debug("Builtin: executing", "program", program, "args", len(rest), "inputs", len(available))
	switch program {
	case "convert", "magick":
		return b.convert(ctx, program, rest, available, result)
	case "identify":
		return b.identify(program, rest, available, result), nil
	default:
		return result.fail(1, "%s: command not found", program), nil
	}
}

func (b *Builtin) convert(ctx context.Context, program string, args []string, available []files.File, result *Result) (*Result, error) {
	if len(args) == 0 || isOption(args[len(args)-1]) {
		return result.fail(1, "%s: missing an image filename", program), nil
	}
	output := args[len(args)-1]
	if err := files.ValidateName(output); err != nil {
		return result.fail(1, "%s: %v", program, err), nil
	}

	settings := defaultSettings()
	var images []image.Image
	tokens := args[:len(args)-1]
	for i := 0; i < len(tokens); i++ {
		if err := ctx.Err(); err != nil {
			return nil, &EngineError{Op: program, Err: err}
		}
		token := tokens[i]

		if !isOption(token) {
			img, failure := load(program, token, available)
			if failure != "" {
				return result.fail(1, "%s", failure), nil
			}
			images = append(images, img)
			continue
		}

		name := strings.TrimLeft(token, "-+")
		arity, ok := b.registry.Arity(name)
		if !ok {
			return result.fail(1, "%s: unrecognized option `%s'", program, token), nil
		}
		params := map[string]any{}
		if arity == 1 {
			if i+1 >= len(tokens) {
				return result.fail(1, "%s: option requires an argument `%s'", program, token), nil
			}
			i++
			params["value"] = tokens[i]
		}

		op, err := b.registry.Create(name, params)
		if err != nil {
			return result.fail(1, "%s: %v `%s'", program, err, token), nil
		}
		if images, err = op.Apply(images, settings); err != nil {
			return result.fail(1, "%s: %v `%s'", program, err, token), nil
		}
	}

	if len(images) == 0 {
		return result.fail(1, "%s: no images defined `%s'", program, output), nil
	}

	opts := imaging.EncodeOptions{Quality: settings.Quality}
	for i, img := range images {
		name := output
		if len(images) > 1 {
			name = numberedName(output, i)
		}
		data, err := imaging.EncodeForName(img, name, opts)
		if err != nil {
			return result.fail(1, "%s: %v", program, err), nil
		}
		result.OutputFiles = append(result.OutputFiles, files.File{Name: name, Content: data})
	}
	return result, nil
}

func (b *Builtin) identify(program string, args []string, available []files.File, result *Result) *Result {
	if len(args) == 0 {
		return result.fail(1, "%s: missing an image filename", program)
	}
	for _, name := range args {
		if isOption(name) {
			continue
		}
		f, ok := files.Find(available, name)
		if !ok {
			result.fail(1, "%s: unable to open image '%s': No such file or directory", program, name)
			continue
		}
		info, err := imaging.Identify(f.Name, f.Content)
		if err != nil {
			result.fail(1, "%s: no decode delegate for this image format `%s'", program, name)
			continue
		}
		result.Stdout = append(result.Stdout, info.String())
	}
	return result
}

func load(program, name string, available []files.File) (image.Image, string) {
	f, ok := files.Find(available, name)
	if !ok {
		return nil, fmt.Sprintf("%s: unable to open image '%s': No such file or directory", program, name)
	}
	img, _, err := imaging.Decode(f.Content)
	if errors.Is(err, imaging.ErrTooLarge) {
		return nil, fmt.Sprintf("%s: width or height exceeds limit `%s'", program, name)
	}
	if err != nil {
		slog.Debug("Builtin: failed to decode input", "name", name, "error", err)
		return nil, fmt.Sprintf("%s: no decode delegate for this image format `%s'", program, name)
	}
	return img, ""
}

// isOption reports whether token is an option rather than a file name.
func isOption(token string) bool {
	if len(token) < 2 || (token[0] != '-' && token[0] != '+') {
		return false
	}
	_, err := strconv.ParseFloat(token, 64)
	return err != nil
}

// numberedName turns out.png into out-3.png for multi-image writes.
func numberedName(name string, index int) string {
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), index, ext)
}
