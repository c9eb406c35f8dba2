package storage

import (
	"context"
	"fmt"

	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/domain/settings"
	"github.com/gravadigital/convite-api/internal/storage/gormstore"
	"github.com/gravadigital/convite-api/internal/storage/memory"
)

// Container gives access to every repository of one backend
type Container interface {
	Invitees() invitee.Repository
	RSVPs() rsvp.Repository
	Gifts() gift.Repository
	Settings() settings.Repository
	Health(ctx context.Context) error
	Close() error
}

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypePostgres StorageType = "postgres"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypeMemory   StorageType = "memory"
)

// Factory provides a factory pattern for creating storage containers
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{
		storageType: storageType,
	}
}

// CreateContainer creates a storage container based on the configured type
func (f *Factory) CreateContainer(cfg *config.Config) (Container, error) {
	switch f.storageType {
	case StorageTypePostgres, StorageTypeSQLite:
		cfg.DB.Driver = string(f.storageType)
		return gormstore.NewContainer(cfg)
	case StorageTypeMemory:
		return memory.NewContainer(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{
		StorageTypePostgres,
		StorageTypeSQLite,
		StorageTypeMemory,
	}
}

// ValidateStorageType validates if a storage type is supported
func ValidateStorageType(storageType string) (StorageType, error) {
	st := StorageType(storageType)

	for _, supported := range GetSupportedTypes() {
		if st == supported {
			return st, nil
		}
	}

	return "", fmt.Errorf("unsupported storage type: %s. Supported types: %v", storageType, GetSupportedTypes())
}

// FromConfig returns a factory for cfg.DB.Driver
func FromConfig(cfg *config.Config) (*Factory, error) {
	st, err := ValidateStorageType(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	return NewFactory(st), nil
}
