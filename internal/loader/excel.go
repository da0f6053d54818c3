package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/relmap/relmap/internal/models"
)

// listSeparator splits list-valued spreadsheet cells (organizations, people,
// keywords).
const listSeparator = ";"

// LoadExcelFile reads records from the first sheet of an XLSX export. The
// first row is a header; column names are matched case-insensitively with
// spaces treated as underscores. Rows without an id or with an unparseable
// score are skipped with a warning.
func (l *Loader) LoadExcelFile(path string) ([]*models.ResultRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[normalizeHeader(name)] = i
	}
	if _, ok := columns["id"]; !ok {
		return nil, fmt.Errorf("spreadsheet missing id column")
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []*models.ResultRecord
	for rowNum, row := range rows[1:] {
		id := cell(row, "id")
		if id == "" {
			l.logger.Warn("skipping spreadsheet row without id", zap.Int("row", rowNum+2))
			continue
		}
		score, err := strconv.ParseFloat(cell(row, "score"), 64)
		if err != nil {
			l.logger.Warn("skipping spreadsheet row with bad score",
				zap.Int("row", rowNum+2), zap.String("score", cell(row, "score")))
			continue
		}
		records = append(records, &models.ResultRecord{
			ID:            id,
			Name:          cell(row, "name"),
			Kind:          models.RecordKind(strings.ToLower(cell(row, "kind"))),
			Score:         score,
			DocumentType:  cell(row, "document_type"),
			MatterType:    cell(row, "matter_type"),
			FileType:      cell(row, "file_type"),
			ParentEntity:  cell(row, "parent_entity"),
			Organizations: splitList(cell(row, "organizations")),
			People:        splitList(cell(row, "people")),
			Keywords:      splitList(cell(row, "keywords")),
			CreatedDate:   cell(row, "created_date"),
			ModifiedDate:  cell(row, "modified_date"),
			EventDate:     cell(row, "event_date"),
		})
	}
	return records, nil
}

func normalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, listSeparator) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
