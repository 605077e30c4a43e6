package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"audiomate/internal/textutil"
)

type columnAlignment = text.Align

const (
	alignLeft   = text.AlignLeft
	alignRight  = text.AlignRight
	alignCenter = text.AlignCenter
)

// renderTable draws rows under headers in the rounded style. Missing cells
// render blank and columns without an alignment are left aligned.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: alignLeft, AlignHeader: alignLeft}
		if i < len(aligns) && aligns[i] != text.AlignDefault {
			configs[i].Align = aligns[i]
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// marker renders a flag as a check mark column value.
func marker(on bool) string {
	return textutil.Choose(on, "*", "")
}
