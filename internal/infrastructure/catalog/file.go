package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dinebook/backend/internal/domain"
)

// FileProvider serves the catalog from a local JSON seed file, using the
// same row format as the hosted table
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider reading from path
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// ListVenues reads and normalizes the seed file on every call
func (p *FileProvider) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var rows []RawVenue
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", p.path, err)
	}

	return NormalizeAll(rows), nil
}
