package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/magickpad/internal/engine"
	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/filestore"
	"github.com/jo-hoe/magickpad/internal/imaging"
	"github.com/jo-hoe/magickpad/internal/preview"
	"github.com/jo-hoe/magickpad/internal/samples"
	"github.com/jo-hoe/magickpad/internal/session"
)

// ErrFileNotFound is returned when a named input or output file does not exist.
var ErrFileNotFound = errors.New("file not found")

// CoreService wires the configured store, engine and preview pipeline into
// one session.
type CoreService struct {
	config  *ServiceConfig
	store   filestore.Store
	session *session.Session
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	store, err := filestore.NewStore(config.Store.Type, config.Store.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	slog.Info("file store initialized successfully", "type", config.Store.Type)

	eng, err := newEngine(config.Engine, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pipeline := preview.NewPipeline(
		preview.NewThumbnailSource(config.Preview.ThumbnailWidth, config.Preview.URLPrefix),
		preview.InfoExtractor{},
		config.Preview.Workers,
		config.Preview.DataURI,
	)

	workbench := session.New(store, eng, pipeline, samples.NewGenerator())
	// a persistent store may already hold files
	if err := workbench.Reload(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load stored files: %w", err)
	}

	return &CoreService{
		config:  config,
		store:   store,
		session: workbench,
	}, nil
}

func newEngine(config EngineConfig, store filestore.Store) (engine.Engine, error) {
	switch config.Type {
	case "builtin", "":
		return engine.NewBuiltin(store), nil
	case "exec":
		slog.Info("using external process engine", "binary", config.Binary, "timeout", config.Timeout)
		return engine.NewProcess(store, config.Binary, config.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", config.Type)
	}
}

func (service *CoreService) Session() *session.Session {
	return service.session
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

// InputFile returns the stored input file with the given name.
func (service *CoreService) InputFile(ctx context.Context, name string) (files.File, error) {
	all, err := service.session.ListAll(ctx)
	if err != nil {
		return files.File{}, err
	}
	f, ok := files.Find(all, name)
	if !ok {
		return files.File{}, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return f, nil
}

// OutputFile returns the named file of the last applied execution result.
func (service *CoreService) OutputFile(name string) (files.File, error) {
	f, ok := files.Find(service.session.Snapshot().OutputFiles, name)
	if !ok {
		return files.File{}, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return f, nil
}

// Thumbnail renders the configured-width PNG thumbnail of an input file.
func (service *CoreService) Thumbnail(ctx context.Context, name string) ([]byte, error) {
	f, err := service.InputFile(ctx, name)
	if err != nil {
		return nil, err
	}
	return imaging.Thumbnail(f.Content, service.config.Preview.ThumbnailWidth)
}

func (service *CoreService) Close() error {
	return service.store.Close()
}
