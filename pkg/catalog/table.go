package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Table is a tabular view of the catalog for ad-hoc inspection.
// Rows are items in catalog order; Columns is the union of top-level
// fields observed across all items. The pipeline itself never uses it.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Table builds the tabular view from every batch file
func (r *Repository) Table() (*Table, error) {
	files, err := r.BatchFiles()
	if err != nil {
		return nil, err
	}

	columns := make(map[string]bool)
	var rows []map[string]interface{}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read batch file %s: %w", file, err)
		}

		var batch []map[string]interface{}
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse batch file %s: %w", file, err)
		}

		for _, row := range batch {
			for key := range row {
				columns[key] = true
			}
			rows = append(rows, row)
		}
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	// id leads when present
	for i, name := range names {
		if name == "id" {
			copy(names[1:i+1], names[:i])
			names[0] = "id"
			break
		}
	}

	return &Table{Columns: names, Rows: rows}, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// String renders the table with one line per row. Nested values are
// summarized rather than expanded.
func (t *Table) String() string {
	var sb strings.Builder

	sb.WriteString(strings.Join(t.Columns, "\t"))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = formatCell(row[col])
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case map[string]interface{}:
		return fmt.Sprintf("{%d fields}", len(v))
	case []interface{}:
		return fmt.Sprintf("[%d items]", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}
