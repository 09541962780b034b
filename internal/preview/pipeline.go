// Package preview builds display sources and metadata for file collections on
// a bounded worker pool, keeping results aligned with the input order.
package preview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/imaging"
	"github.com/jo-hoe/magickpad/internal/parallel"
)

// Source produces a displayable reference for a file, either a data URI or a URL.
type Source interface {
	Build(ctx context.Context, f files.File, wantDataURI bool) (string, error)
}

// Extractor produces the metadata records of a file.
type Extractor interface {
	Extract(ctx context.Context, f files.File) ([]imaging.Info, error)
}

// Entry is the preview of the file at the same index of a collection. A
// failed item keeps its slot with Err set and no source.
type Entry struct {
	Name     string         `json:"name"`
	Source   string         `json:"source"`
	Metadata []imaging.Info `json:"metadata"`
	Err      string         `json:"error,omitempty"`
}

type Pipeline struct {
	source    Source
	extractor Extractor
	workers   int
	dataURI   bool
}

func NewPipeline(source Source, extractor Extractor, workers int, dataURI bool) *Pipeline {
	return &Pipeline{source: source, extractor: extractor, workers: workers, dataURI: dataURI}
}

// WithDataURI returns a copy of the pipeline that requests data URIs as given.
func (p *Pipeline) WithDataURI(dataURI bool) *Pipeline {
	clone := *p
	clone.dataURI = dataURI
	return &clone
}

// Refresh returns cached unchanged when generate is false. Otherwise it builds
// one entry per file; the result has the same length and order as collection.
func (p *Pipeline) Refresh(ctx context.Context, collection []files.File, generate bool, cached []Entry) []Entry {
	if !generate {
		return cached
	}
	return parallel.Map(ctx, collection, p.workers, p.build)
}

// build never panics out of a worker; a panicking item becomes a placeholder.
func (p *Pipeline) build(ctx context.Context, index int, f files.File) (entry Entry) {
	defer func() {
		if r := recover(); r != nil {
			entry = placeholder(index, f, fmt.Errorf("preview panicked: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return placeholder(index, f, err)
	}
	src, err := p.source.Build(ctx, f, p.dataURI)
	if err != nil {
		return placeholder(index, f, err)
	}
	metadata, err := p.extractor.Extract(ctx, f)
	if err != nil {
		return placeholder(index, f, err)
	}
	return Entry{Name: f.Name, Source: src, Metadata: metadata}
}

func placeholder(index int, f files.File, err error) Entry {
	slog.Warn("preview: failed to build entry", "index", index, "name", f.Name, "error", err)
	return Entry{Name: f.Name, Metadata: []imaging.Info{}, Err: err.Error()}
}
