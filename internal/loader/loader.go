// Package loader reads result record batches from export files.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/relmap/relmap/internal/models"
)

// Loader reads record batches from JSON and XLSX exports. Malformed rows are
// skipped with a warning rather than failing the whole file.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables warnings.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads records from path, dispatching on the file extension.
func (l *Loader) LoadFile(path string) ([]*models.ResultRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return l.LoadJSONFile(path)
	case ".xlsx":
		return l.LoadExcelFile(path)
	default:
		return nil, fmt.Errorf("unsupported record file type: %s", filepath.Ext(path))
	}
}
