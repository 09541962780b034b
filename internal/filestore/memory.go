package filestore

import (
	"bytes"
	"context"
	"sync"

	"github.com/jo-hoe/magickpad/internal/files"
)

type MemoryStore struct {
	mu    sync.RWMutex
	order []files.File
	index map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

func (m *MemoryStore) AddFiles(ctx context.Context, collection []files.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range collection {
		stored := files.File{Name: f.Name, Content: bytes.Clone(f.Content)}
		if i, ok := m.index[f.Name]; ok {
			m.order[i] = stored
			continue
		}
		m.index[f.Name] = len(m.order)
		m.order = append(m.order, stored)
	}
	return nil
}

func (m *MemoryStore) GetAll(ctx context.Context) ([]files.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]files.File, len(m.order))
	for i, f := range m.order {
		out[i] = files.File{Name: f.Name, Content: bytes.Clone(f.Content)}
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
