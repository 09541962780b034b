package filestore

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	TypeMemory = "memory"
	TypeSQLite = "sqlite"
	TypeRedis  = "redis"
)

// NewStore opens the store of the given type. Redis stores get a key prefix
// unique to this call so concurrent processes never share files.
func NewStore(storeType, connectionString string) (store Store, err error) {
	switch storeType {
	case TypeMemory, "":
		store = NewMemoryStore()
	case TypeSQLite:
		sqliteStore, err := NewSQLiteStore(connectionString)
		if err != nil {
			return nil, err
		}
		// idempotent, and required for in-memory SQLite
		slog.Info("filestore: initializing schema (ensuring tables exist)")
		if err := sqliteStore.CreateSchema(); err != nil {
			_ = sqliteStore.Close()
			return nil, fmt.Errorf("failed to create file store schema: %w", err)
		}
		store = sqliteStore
	case TypeRedis:
		store, err = NewRedisStore(connectionString, "magickpad:"+uuid.NewString()+":")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported file store type: %s", storeType)
	}

	slog.Info("filestore: store ready", "type", storeType)
	return store, nil
}
