package core

import (
	"fmt"

	"github.com/sandevgo/querybot/pkg/conv"
)

// Table is a normalized, presentation-safe query result.
type Table struct {
	Columns []string
	Rows    [][]any
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// String renders the table as plain text. This is the form stored in the
// condensed chat log.
func (t *Table) String() string {
	if t == nil {
		return ""
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := make([]string, len(r))
		for i, v := range r {
			if v == nil {
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}
	return conv.RenderTable(t.Columns, rows)
}

// Reply is the bot side of a turn: either text or a table.
type Reply struct {
	Text  string
	Table *Table
}

func TextReply(text string) Reply {
	return Reply{Text: text}
}

func TableReply(t *Table) Reply {
	return Reply{Table: t}
}

func (r Reply) IsTable() bool {
	return r.Table != nil
}

func (r Reply) String() string {
	if r.Table != nil {
		return r.Table.String()
	}
	return r.Text
}
