package catalogsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/adega/backend/internal/domain"
)

// DecodeRecords reads a JSON array of raw catalog records
func DecodeRecords(r io.Reader) ([]domain.RawCatalogRecord, error) {
	var records []domain.RawCatalogRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogDecode, err)
	}
	return records, nil
}

// FileSource reads the catalog from a local JSON file
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed catalog source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchRecords reads and decodes the whole file
func (s *FileSource) FetchRecords(ctx context.Context) ([]domain.RawCatalogRecord, error) {
	return LoadFile(s.path)
}

// LoadFile reads a JSON catalog file
func LoadFile(path string) ([]domain.RawCatalogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer f.Close()

	return DecodeRecords(f)
}

// New picks the catalog source: a remote URL takes precedence over a file path
func New(path, url string, timeout time.Duration, logger *zap.Logger) domain.CatalogSource {
	if url != "" {
		return NewClient(url, timeout, logger)
	}
	return NewFileSource(path)
}
