package models

import (
	"fmt"
	"sort"
	"strings"
)

// Table is the tabular form tool results are reshaped into before being
// handed back to the agent. Rendering numbers rows from 1.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a row. Short rows are padded with empty cells.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// SortAsc sorts rows ascending by the named column (string order).
func (t *Table) SortAsc(column string) {
	t.sortBy(column, true)
}

// SortDesc sorts rows descending by the named column (string order).
func (t *Table) SortDesc(column string) {
	t.sortBy(column, false)
}

func (t *Table) sortBy(column string, asc bool) {
	idx := t.columnIndex(column)
	if idx < 0 {
		return
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		if asc {
			return t.Rows[i][idx] < t.Rows[j][idx]
		}
		return t.Rows[i][idx] > t.Rows[j][idx]
	})
}

func (t *Table) columnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Truncate keeps at most n rows.
func (t *Table) Truncate(n int) {
	if n >= 0 && len(t.Rows) > n {
		t.Rows = t.Rows[:n]
	}
}

// String renders the table as aligned text with a 1-based row index column.
func (t *Table) String() string {
	headers := append([]string{"#"}, t.Columns...)
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	rendered := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := append([]string{fmt.Sprintf("%d", i+1)}, row...)
		rendered[i] = r
		for j, cell := range r {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for j, cell := range cells {
			if j > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if pad := widths[j] - len(cell); pad > 0 && j < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rendered {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n")
}
