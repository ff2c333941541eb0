package conv

import (
	"strings"

	"github.com/olekukonko/tablewriter"
)

// RenderTable renders rows as a text table. Rows shorter than the header are
// padded with empty cells.
func RenderTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	table.Header(header...)

	for _, r := range rows {
		row := make([]string, len(columns))
		copy(row, r)
		if err := table.Append(row); err != nil {
			return fallbackTable(columns, rows)
		}
	}

	if err := table.Render(); err != nil {
		return fallbackTable(columns, rows)
	}
	return sb.String()
}

func fallbackTable(columns []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(columns, " | "))
	sb.WriteByte('\n')
	for _, r := range rows {
		sb.WriteString(strings.Join(r, " | "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
