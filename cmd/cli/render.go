package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"csvexplorer/internal/cleaning"
	"csvexplorer/internal/profiling"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func stringsRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func renderSummary(w io.Writer, s profiling.Summary) {
	fmt.Fprintf(w, "Rows: %d, Columns: %d\n\n", s.Shape.Rows, s.Shape.Columns)

	types := newTable(w, "Column Data Types")
	types.AppendHeader(table.Row{"Column", "Data Type", "Kind"})
	for _, ct := range s.Types {
		types.AppendRow(table.Row{ct.Name, ct.Type, ct.Kind})
	}
	types.Render()

	preview := newTable(w, "Data Preview")
	preview.AppendHeader(append(table.Row{""}, stringsRow(s.Preview.Columns)...))
	for i, r := range s.Preview.Rows {
		preview.AppendRow(append(table.Row{i}, stringsRow(r)...))
	}
	preview.Render()

	if s.NumericNotice != "" {
		fmt.Fprintln(w, s.NumericNotice)
	} else {
		stats := newTable(w, "Numeric Descriptive Statistics")
		stats.AppendHeader(table.Row{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
		for _, n := range s.Numeric {
			stats.AppendRow(table.Row{
				n.Column, n.Count,
				formatStat(n.Mean), formatStat(n.Std), formatStat(n.Min),
				formatStat(n.Q1), formatStat(n.Median), formatStat(n.Q3), formatStat(n.Max),
			})
		}
		stats.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft}})
		stats.Render()
	}

	if s.CategoricalNotice != "" {
		fmt.Fprintln(w, s.CategoricalNotice)
		return
	}
	for _, freq := range s.Frequencies {
		ft := newTable(w, freq.Column)
		ft.AppendHeader(table.Row{"Value", "Count"})
		for _, e := range freq.Entries {
			ft.AppendRow(table.Row{e.Value, e.Count})
		}
		ft.Render()
	}
}

func renderCleaning(w io.Writer, r cleaning.Report) {
	if len(r.Missing) == 0 {
		fmt.Fprintln(w, "No missing values found.")
	} else {
		mt := newTable(w, "Missing values per column")
		mt.AppendHeader(table.Row{"Column", "Missing"})
		for _, m := range r.Missing {
			mt.AppendRow(table.Row{m.Column, m.Count})
		}
		mt.AppendFooter(table.Row{"Total", r.TotalMissing})
		mt.Render()
	}

	if !r.RowsShown || len(r.Rows) == 0 {
		return
	}
	rt := newTable(w, "Rows with missing values")
	rt.AppendHeader(append(table.Row{""}, stringsRow(r.Columns)...))
	for _, row := range r.Rows {
		rt.AppendRow(append(table.Row{row.Index}, stringsRow(row.Values)...))
	}
	rt.Render()
}
