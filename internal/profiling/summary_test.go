package profiling

import (
	"encoding/json"
	"math"
	"testing"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencies_IncludesMissingBucket(t *testing.T) {
	ds := testkit.MustDataset(t, []string{"letter"},
		[]string{"a"},
		[]string{"b"},
		[]string{"a"},
		[]string{""},
	)

	tables, notice := Frequencies(ds)
	assert.Empty(t, notice)
	require.Len(t, tables, 1)

	assert.Equal(t, "letter", tables[0].Column)
	assert.Equal(t, []FrequencyEntry{
		{Value: "a", Count: 2},
		{Value: "b", Count: 1},
		{Value: dataset.MissingLabel, Count: 1, Missing: true},
	}, tables[0].Entries)
}

func TestCountValues_TiesKeepFirstAppearance(t *testing.T) {
	ds := testkit.MustDataset(t, []string{"c"},
		[]string{"z"}, []string{"y"}, []string{""}, []string{"x"}, []string{"x"},
	)

	entries := CountValues(ds, "c", true)
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	assert.Equal(t, []string{"x", "z", "y", dataset.MissingLabel}, values)

	withoutMissing := CountValues(ds, "c", false)
	assert.Len(t, withoutMissing, 3)
}

func TestDescribe_NoNumericColumns(t *testing.T) {
	ds := testkit.MustDataset(t, []string{"name", "city"},
		[]string{"ana", "lisbon"},
		[]string{"bruno", "porto"},
	)

	table, notice := Describe(ds)
	assert.Nil(t, table)
	assert.Equal(t, NoNumericNotice, notice)
}

func TestFrequencies_NoCategoricalColumns(t *testing.T) {
	ds := testkit.MustDataset(t, []string{"x"}, []string{"1"}, []string{"2"})

	tables, notice := Frequencies(ds)
	assert.Nil(t, tables)
	assert.Equal(t, NoCategoricalNotice, notice)
}

func TestDescribe_Statistics(t *testing.T) {
	ds := testkit.MustDataset(t, []string{"x", "single", "none", "label"},
		[]string{"1", "7", "", "a"},
		[]string{"2", "", "", "b"},
		[]string{"3", "", "", "c"},
		[]string{"4", "", "", "d"},
		[]string{"", "", "", "e"},
	)

	table, notice := Describe(ds)
	assert.Empty(t, notice)
	require.Len(t, table, 2, "an all-missing column is categorical")

	x := table[0]
	assert.Equal(t, "x", x.Column)
	assert.Equal(t, 4, x.Count)
	assert.InDelta(t, 2.5, x.Mean, 1e-12)
	assert.InDelta(t, 1.2909944487358056, x.Std, 1e-12)
	assert.Equal(t, 1.0, x.Min)
	assert.InDelta(t, 1.75, x.Q1, 1e-12)
	assert.InDelta(t, 2.5, x.Median, 1e-12)
	assert.InDelta(t, 3.25, x.Q3, 1e-12)
	assert.Equal(t, 4.0, x.Max)

	single := table[1]
	assert.Equal(t, 1, single.Count)
	assert.Equal(t, 7.0, single.Mean)
	assert.True(t, math.IsNaN(single.Std))
	assert.Equal(t, 7.0, single.Q1)
	assert.Equal(t, 7.0, single.Q3)
}

func TestAnalyzeDistribution_Empty(t *testing.T) {
	s := NewDistributionAnalyzer().AnalyzeDistribution("empty", nil)
	assert.Equal(t, 0, s.Count)
	for _, v := range []float64{s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max} {
		assert.True(t, math.IsNaN(v))
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"lower quartile", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"upper quartile", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"exact rank", []float64{10, 20, 30, 40, 50}, 0.5, 30},
		{"max", []float64{1, 2, 3}, 1, 3},
		{"min", []float64{1, 2, 3}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, quantile(tt.sorted, tt.p), 1e-12)
		})
	}
}

func TestShapeAndTypes(t *testing.T) {
	cfg := testkit.DefaultShoppingConfig()
	cfg.Rows = 40
	ds := testkit.ShoppingDataset(t, cfg)

	assert.Equal(t, Shape{Rows: 40, Columns: len(testkit.ShoppingHeader)}, ShapeOf(ds))

	types := ColumnTypes(ds)
	require.Len(t, types, len(testkit.ShoppingHeader))
	byName := map[string]string{}
	for _, ct := range types {
		byName[ct.Name] = ct.Type
	}
	assert.Equal(t, "int64", byName["order_id"])
	assert.Equal(t, "object", byName["region"])
	assert.Equal(t, "float64", byName["order_total"])
	assert.Equal(t, "bool", byName["returned"])
}

func TestColumnTypes_GapsWidenIntAndBool(t *testing.T) {
	ds := testkit.MustDataset(t,
		[]string{"id", "qty", "flag", "gappy_flag", "price"},
		[]string{"1", "3", "true", "true", "1.5"},
		[]string{"2", "", "false", "", "2.5"},
		[]string{"3", "7", "true", "false", ""},
	)

	tests := []struct {
		column string
		want   string
	}{
		{"id", "int64"},
		{"qty", "float64"},
		{"flag", "bool"},
		{"gappy_flag", "object"},
		{"price", "float64"},
	}

	types := ColumnTypes(ds)
	require.Len(t, types, len(tests))
	for i, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.column, types[i].Name)
			assert.Equal(t, tt.want, types[i].Type)
		})
	}
}

func TestPreviewOf(t *testing.T) {
	ds := testkit.CategoriesDataset(t, 4)

	p := PreviewOf(ds, 0)
	assert.Equal(t, []string{"label"}, p.Columns)
	assert.Len(t, p.Rows, DefaultPreviewRows)

	assert.Len(t, PreviewOf(ds, 2).Rows, 2)
	assert.Len(t, PreviewOf(ds, 100).Rows, ds.Nrow())
}

func TestBuild_Idempotent(t *testing.T) {
	ds := testkit.ShoppingDataset(t, testkit.DefaultShoppingConfig())

	first, err := json.Marshal(Build(ds, 5))
	require.NoError(t, err)
	second, err := json.Marshal(Build(ds, 5))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNumericSummary_MarshalsNaNAsNull(t *testing.T) {
	s := NewDistributionAnalyzer().AnalyzeDistribution("one", []float64{3})

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"std":null`)
	assert.Contains(t, string(out), `"mean":3`)
}
