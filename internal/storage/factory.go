package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/radiomesh/scenesynth/internal/config"
	"github.com/radiomesh/scenesynth/internal/storage/gormdb"
	"github.com/radiomesh/scenesynth/internal/storage/memory"
)

// NewBackend creates a report storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres", "sqlite":
		return gormdb.New(cfg.Type, log), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
