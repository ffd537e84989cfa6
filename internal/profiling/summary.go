// Package profiling derives the read-only summary projections of a dataset: shape, column
// types, descriptive statistics, categorical frequencies and a preview.
//
// Every function here is a pure read of the dataset. Calling one twice on the same dataset
// yields identical output.
package profiling

import (
	"slices"
	"sort"

	"csvexplorer/domain/dataset"

	"github.com/go-gota/gota/series"
)

const (
	NoNumericNotice     = "No numeric columns found in the dataset."
	NoCategoricalNotice = "No categorical columns found in the dataset."

	DefaultPreviewRows = 5
)

// Shape is the row and column count of a dataset
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ColumnType is one line of the column -> type listing
type ColumnType struct {
	Name string       `json:"name"`
	Type string       `json:"type"`
	Kind dataset.Kind `json:"kind"`
}

// FrequencyEntry is one value and how many rows hold it
type FrequencyEntry struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Missing bool   `json:"missing,omitempty"`
}

// FrequencyTable lists the value counts of one categorical column
type FrequencyTable struct {
	Column  string           `json:"column"`
	Entries []FrequencyEntry `json:"entries"`
}

// Preview is the first rows of the dataset
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Summary bundles every projection shown on the overview and statistics tabs
type Summary struct {
	Shape             Shape            `json:"shape"`
	Types             []ColumnType     `json:"types"`
	Preview           Preview          `json:"preview"`
	Numeric           []NumericSummary `json:"numeric,omitempty"`
	NumericNotice     string           `json:"numeric_notice,omitempty"`
	Frequencies       []FrequencyTable `json:"frequencies,omitempty"`
	CategoricalNotice string           `json:"categorical_notice,omitempty"`
}

// ShapeOf returns the row and column count
func ShapeOf(ds *dataset.Dataset) Shape {
	return Shape{Rows: ds.Nrow(), Columns: ds.Ncol()}
}

// ColumnTypes lists every column with its declared type in file order
func ColumnTypes(ds *dataset.Dataset) []ColumnType {
	types := make([]ColumnType, 0, ds.Ncol())
	for _, f := range ds.Schema.Fields {
		types = append(types, ColumnType{
			Name: f.Name,
			Type: displayType(f.DeclaredType, slices.Contains(ds.Missing(f.Name), true)),
			Kind: f.Kind,
		})
	}
	return types
}

// displayType names column types the way dataframe users expect to read them.
// Integers cannot hold NaN, so an int column with gaps reads as float64 and a
// bool column with gaps as object.
func displayType(declared string, hasMissing bool) string {
	switch series.Type(declared) {
	case series.Int:
		if hasMissing {
			return "float64"
		}
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		if hasMissing {
			return "object"
		}
		return "bool"
	default:
		return "object"
	}
}

// Describe computes count, mean, std, min, quartiles and max for every numeric column.
// With no numeric columns it returns no table and a notice instead.
func Describe(ds *dataset.Dataset) ([]NumericSummary, string) {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return nil, NoNumericNotice
	}

	analyzer := NewDistributionAnalyzer()
	summaries := make([]NumericSummary, 0, len(cols))
	for _, col := range cols {
		summaries = append(summaries, analyzer.AnalyzeDistribution(col, ds.Values(col)))
	}
	return summaries, ""
}

// Frequencies builds one value-count table per categorical column.
// With no categorical columns it returns no tables and a notice instead.
func Frequencies(ds *dataset.Dataset) ([]FrequencyTable, string) {
	cols := ds.CategoricalColumns()
	if len(cols) == 0 {
		return nil, NoCategoricalNotice
	}

	tables := make([]FrequencyTable, 0, len(cols))
	for _, col := range cols {
		tables = append(tables, FrequencyTable{Column: col, Entries: CountValues(ds, col, true)})
	}
	return tables, ""
}

// CountValues counts rows per distinct value of col, most frequent first.
// Ties keep the order in which values first appear. Missing values form their own
// bucket labelled dataset.MissingLabel when includeMissing is set.
func CountValues(ds *dataset.Dataset, col string, includeMissing bool) []FrequencyEntry {
	entries := CountValuesInOrder(ds, col, includeMissing)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// CountValuesInOrder counts rows per distinct value of col in first-appearance order
func CountValuesInOrder(ds *dataset.Dataset, col string, includeMissing bool) []FrequencyEntry {
	records := ds.Records(col)
	missing := ds.Missing(col)

	var entries []FrequencyEntry
	index := make(map[string]int)
	missingAt := -1

	for i, value := range records {
		if missing[i] {
			if !includeMissing {
				continue
			}
			if missingAt < 0 {
				missingAt = len(entries)
				entries = append(entries, FrequencyEntry{Value: dataset.MissingLabel, Missing: true})
			}
			entries[missingAt].Count++
			continue
		}

		pos, ok := index[value]
		if !ok {
			pos = len(entries)
			index[value] = pos
			entries = append(entries, FrequencyEntry{Value: value})
		}
		entries[pos].Count++
	}
	return entries
}

// PreviewOf returns up to n leading rows; n <= 0 means DefaultPreviewRows
func PreviewOf(ds *dataset.Dataset, n int) Preview {
	if n <= 0 {
		n = DefaultPreviewRows
	}
	return Preview{Columns: ds.Names(), Rows: ds.Head(n)}
}

// Build computes the full summary with a preview of previewRows rows
func Build(ds *dataset.Dataset, previewRows int) Summary {
	numeric, numericNotice := Describe(ds)
	frequencies, categoricalNotice := Frequencies(ds)

	return Summary{
		Shape:             ShapeOf(ds),
		Types:             ColumnTypes(ds),
		Preview:           PreviewOf(ds, previewRows),
		Numeric:           numeric,
		NumericNotice:     numericNotice,
		Frequencies:       frequencies,
		CategoricalNotice: categoricalNotice,
	}
}
