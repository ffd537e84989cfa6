package dataset

import (
	"math"
	"strconv"
	"time"

	"csvexplorer/domain/core"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind classifies a column for the purpose of statistics and chart eligibility
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// MissingLabel is how a missing value is rendered in tables and chart labels
const MissingLabel = "NaN"

// NAValues are the cell contents treated as missing values
var NAValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "<NA>", "<nil>"}

// Field describes a single column of the dataset
type Field struct {
	Name         string `json:"name"`
	DeclaredType string `json:"declared_type"` // "int", "float", "string", "bool"
	Kind         Kind   `json:"kind"`
}

// Schema is computed once when the dataset is loaded
type Schema struct {
	Fields []Field `json:"fields"`
}

// Dataset is an immutable, ordered collection of equally long named columns.
// A Dataset is never mutated after construction; replacing it is the only way to change it.
type Dataset struct {
	ID       core.DatasetID `json:"id"`
	Filename string         `json:"filename"`
	LoadedAt time.Time      `json:"loaded_at"`
	Schema   Schema         `json:"schema"`

	frame   dataframe.DataFrame
	columns []series.Series
	index   map[string]int
}

// New wraps a parsed frame, classifying every column once
func New(filename string, frame dataframe.DataFrame) *Dataset {
	names := frame.Names()
	types := frame.Types()

	fields := make([]Field, len(names))
	columns := make([]series.Series, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		columns[i] = frame.Col(name)
		fields[i] = Field{
			Name:         name,
			DeclaredType: string(types[i]),
			Kind:         KindOf(types[i]),
		}
		index[name] = i
	}

	return &Dataset{
		ID:       core.NewDatasetID(),
		Filename: filename,
		LoadedAt: time.Now(),
		Schema:   Schema{Fields: fields},
		frame:    frame,
		columns:  columns,
		index:    index,
	}
}

// FromRecords builds a Dataset from CSV records whose first record is the header.
// Column types are detected from the data; NAValues become missing values.
func FromRecords(filename string, records [][]string) (*Dataset, error) {
	frame := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(NAValues),
	)
	if frame.Err != nil {
		return nil, frame.Err
	}
	return New(filename, frame), nil
}

// KindOf maps a dataframe column type to a Kind. Booleans are treated as categories.
func KindOf(t series.Type) Kind {
	switch t {
	case series.Int, series.Float:
		return KindNumeric
	default:
		return KindCategorical
	}
}

// Nrow returns the shared column length
func (d *Dataset) Nrow() int {
	return d.frame.Nrow()
}

// Ncol returns the number of columns
func (d *Dataset) Ncol() int {
	return len(d.Schema.Fields)
}

// Names returns column names in file order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Schema.Fields))
	for i, f := range d.Schema.Fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a column description by name
func (d *Dataset) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.Schema.Fields[i], true
}

// ColumnsOfKind returns the names of all columns with the given kind, in file order
func (d *Dataset) ColumnsOfKind(kind Kind) []string {
	var cols []string
	for _, f := range d.Schema.Fields {
		if f.Kind == kind {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// NumericColumns returns the names of numeric columns
func (d *Dataset) NumericColumns() []string {
	return d.ColumnsOfKind(KindNumeric)
}

// CategoricalColumns returns the names of categorical columns
func (d *Dataset) CategoricalColumns() []string {
	return d.ColumnsOfKind(KindCategorical)
}

// Missing reports, per row, whether the column value is missing
func (d *Dataset) Missing(col string) []bool {
	i, ok := d.index[col]
	if !ok {
		return nil
	}
	return d.columns[i].IsNaN()
}

// Records returns the column as display strings, with missing values as MissingLabel
func (d *Dataset) Records(col string) []string {
	i, ok := d.index[col]
	if !ok {
		return nil
	}
	s := d.columns[i]
	records := s.Records()
	for j, missing := range s.IsNaN() {
		if missing {
			records[j] = MissingLabel
		}
	}
	return records
}

// Floats returns a numeric column as float64 values; missing values are NaN
func (d *Dataset) Floats(col string) []float64 {
	f, ok := d.Field(col)
	if !ok || f.Kind != KindNumeric {
		return nil
	}
	return d.columns[d.index[col]].Float()
}

// Values returns the non-missing values of a numeric column
func (d *Dataset) Values(col string) []float64 {
	all := d.Floats(col)
	values := make([]float64, 0, len(all))
	for _, v := range all {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values
}

// Row returns one row as display strings in column order
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.Schema.Fields))
	for j, s := range d.columns {
		elem := s.Elem(i)
		switch {
		case elem.IsNA():
			row[j] = MissingLabel
		case s.Type() == series.Float:
			row[j] = strconv.FormatFloat(elem.Float(), 'g', -1, 64)
		default:
			row[j] = elem.String()
		}
	}
	return row
}

// Head returns up to n leading rows as display strings
func (d *Dataset) Head(n int) [][]string {
	if n > d.Nrow() {
		n = d.Nrow()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, d.Row(i))
	}
	return rows
}
