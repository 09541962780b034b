// Package filestore keeps the input files of a session. Every implementation
// lists files in insertion order, and adding a name that already exists
// replaces its content in place.
package filestore

import (
	"context"

	"github.com/jo-hoe/magickpad/internal/files"
)

type Store interface {
	AddFiles(ctx context.Context, collection []files.File) error
	GetAll(ctx context.Context) ([]files.File, error)
	Close() error
}
