package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/relmap/relmap/internal/models"
)

// recordBatch is the wrapped JSON export shape: {"records": [...]}.
type recordBatch struct {
	Records []*models.ResultRecord `json:"records"`
}

// LoadJSONFile reads records from a JSON file. Both a bare array and a
// {"records": [...]} wrapper are accepted.
func (l *Loader) LoadJSONFile(path string) ([]*models.ResultRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer f.Close()
	return l.LoadJSON(f)
}

// LoadJSON reads records from r.
func (l *Loader) LoadJSON(r io.Reader) ([]*models.ResultRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	var records []*models.ResultRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var batch recordBatch
		if err2 := json.Unmarshal(data, &batch); err2 != nil {
			return nil, fmt.Errorf("failed to parse records: %w", err)
		}
		records = batch.Records
	}

	kept := records[:0]
	for _, rec := range records {
		if rec == nil || rec.ID == "" {
			l.logger.Warn("skipping record without id")
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}
