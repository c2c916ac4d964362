package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
}

var (
	historyColumns = []column{
		{title: "Started"},
		{title: "Kind"},
		{title: "Status"},
		{title: "Strategy"},
		{title: "Chunks", numeric: true},
		{title: "Elapsed", numeric: true},
		{title: "Output"},
	}
	planColumns = []column{
		{title: "#", numeric: true},
		{title: "Kind"},
		{title: "Start", numeric: true},
		{title: "End", numeric: true},
		{title: "Duration", numeric: true},
		{title: "Clip"},
	}
)

// renderTable pads or truncates each row to the column count.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
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
