package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Width 0 leaves the column unwrapped.
type column struct {
	Header string
	Right  bool
	Width  int
}

var (
	categoryColumns = []column{
		{Header: "Code", Right: true},
		{Header: "Label"},
	}
	historyColumns = []column{
		{Header: "Finished"},
		{Header: "Status"},
		{Header: "Story", Right: true},
		{Header: "Title", Width: 40},
		{Header: "Format"},
		{Header: "Chapters", Right: true},
		{Header: "Result", Width: 60},
	}
)

// renderTable draws rows under columns. Short rows are padded with blanks and
// extra cells are dropped.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		cfg := table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.Right {
			cfg.Align = text.AlignRight
		}
		if col.Width > 0 {
			cfg.WidthMax = col.Width
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs[i] = cfg
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		cells := make(table.Row, len(columns))
		for i := range cells {
			cells[i] = ""
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		tw.AppendRow(cells)
	}
	return tw.Render()
}
