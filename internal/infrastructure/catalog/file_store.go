package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/metrics"
)

// FileStore serves catalog snapshots read from a YAML or JSON file
type FileStore struct {
	path   string
	format Format

	mu      sync.RWMutex
	catalog *domain.Catalog
}

// NewFileStore loads the catalog at path. The file must exist and be valid.
func NewFileStore(path string) (*FileStore, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	store := &FileStore{path: path, format: format}
	if err := store.Reload(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// Snapshot returns the most recently loaded catalog
func (s *FileStore) Snapshot(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, nil
}

// Reload re-reads the file. On failure the previous snapshot stays in place.
func (s *FileStore) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	catalog, err := s.load()
	count := 0
	if catalog != nil {
		count = len(catalog.Products)
	}
	metrics.RecordCatalogLoad("file", count, err)

	if err != nil {
		logging.Error().Err(err).Str("path", s.path).Msg("Failed to load catalog file")
		return err
	}

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	logging.Info().
		Str("path", s.path).
		Str("version", catalog.Version).
		Int("products", len(catalog.Products)).
		Int("personas", len(catalog.Personas)).
		Msg("Catalog loaded")
	return nil
}

func (s *FileStore) load() (*domain.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	doc, err := Decode(data, s.format)
	if err != nil {
		return nil, err
	}

	return MapToCatalog(doc, time.Now().UTC())
}
