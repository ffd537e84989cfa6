// Package cleaning inspects missing values. Nothing here rewrites or imputes data; the only
// destructive action, resetting the loaded dataset, is expressed as a session transition.
package cleaning

import (
	"sort"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal/session"
)

// DefaultRowsLimit is how many incomplete rows are listed on request
const DefaultRowsLimit = 5

// MissingCount is the number of missing values in one column
type MissingCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// IncompleteRow is a row holding at least one missing value
type IncompleteRow struct {
	Index  int      `json:"index"` // zero-based position in the dataset
	Values []string `json:"values"`
}

// Report is everything the cleaning tab shows
type Report struct {
	Missing      []MissingCount  `json:"missing"`
	Columns      []string        `json:"columns"`
	Rows         []IncompleteRow `json:"rows,omitempty"`
	RowsShown    bool            `json:"rows_shown"`
	TotalMissing int             `json:"total_missing"`
}

// MissingCounts lists columns with at least one missing value, most missing first.
// Columns with equal counts keep file order.
func MissingCounts(ds *dataset.Dataset) []MissingCount {
	var counts []MissingCount
	for _, col := range ds.Names() {
		n := 0
		for _, missing := range ds.Missing(col) {
			if missing {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, MissingCount{Column: col, Count: n})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// RowsWithMissing returns up to limit rows that hold a missing value in any column.
// limit <= 0 means DefaultRowsLimit.
func RowsWithMissing(ds *dataset.Dataset, limit int) []IncompleteRow {
	if limit <= 0 {
		limit = DefaultRowsLimit
	}

	incomplete := make([]bool, ds.Nrow())
	for _, col := range ds.Names() {
		for i, missing := range ds.Missing(col) {
			if missing {
				incomplete[i] = true
			}
		}
	}

	var rows []IncompleteRow
	for i, flagged := range incomplete {
		if !flagged {
			continue
		}
		rows = append(rows, IncompleteRow{Index: i, Values: ds.Row(i)})
		if len(rows) == limit {
			break
		}
	}
	return rows
}

// Inspect builds the cleaning report. Incomplete rows are only listed when showRows is set.
func Inspect(ds *dataset.Dataset, showRows bool, limit int) Report {
	report := Report{
		Missing:   MissingCounts(ds),
		Columns:   ds.Names(),
		RowsShown: showRows,
	}
	for _, mc := range report.Missing {
		report.TotalMissing += mc.Count
	}
	if showRows {
		report.Rows = RowsWithMissing(ds, limit)
	}
	return report
}

// ResetTransition is the state change proposed by the "reset loaded dataset" action
func ResetTransition() session.Transition {
	return session.Clear()
}
