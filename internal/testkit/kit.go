// Package testkit builds deterministic CSV fixtures and datasets for tests and demos.
package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"csvexplorer/domain/dataset"
)

// CSV renders a header and rows as CSV bytes
func CSV(header []string, rows ...[]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

// MustDataset builds a dataset straight from records, failing the test on error
func MustDataset(tb testing.TB, header []string, rows ...[]string) *dataset.Dataset {
	tb.Helper()
	records := append([][]string{header}, rows...)
	ds, err := dataset.FromRecords("fixture.csv", records)
	if err != nil {
		tb.Fatalf("failed to build fixture dataset: %v", err)
	}
	return ds
}

// CategoriesDataset returns one categorical column with `distinct` values where value i
// appears distinct-i times, so frequency order is value_00, value_01, ...
func CategoriesDataset(tb testing.TB, distinct int) *dataset.Dataset {
	tb.Helper()
	var rows [][]string
	for i := 0; i < distinct; i++ {
		for n := 0; n < distinct-i; n++ {
			rows = append(rows, []string{fmt.Sprintf("value_%02d", i)})
		}
	}
	return MustDataset(tb, []string{"label"}, rows...)
}

// ShoppingDataset parses ShoppingCSV output into a dataset
func ShoppingDataset(tb testing.TB, config ShoppingGeneratorConfig) *dataset.Dataset {
	tb.Helper()
	records, err := csv.NewReader(bytes.NewReader(ShoppingCSV(config))).ReadAll()
	if err != nil {
		tb.Fatalf("failed to read generated CSV: %v", err)
	}
	return MustDataset(tb, records[0], records[1:]...)
}

// ShoppingGeneratorConfig configures the shopping data generator
type ShoppingGeneratorConfig struct {
	Rows        int
	MissingRate float64 // probability that a nullable cell is left empty
	Seed        int64
}

// DefaultShoppingConfig returns sensible defaults for shopping data generation
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		Rows:        200,
		MissingRate: 0.05,
		Seed:        42,
	}
}

// ShoppingHeader is the column layout produced by ShoppingCSV
var ShoppingHeader = []string{"order_id", "region", "channel", "age", "order_total", "items", "returned"}

var (
	regions  = []string{"North", "South", "East", "West"}
	channels = []string{"web", "app", "store"}
)

// ShoppingCSV generates a small e-commerce order table. order_id and items are never missing;
// region, age and order_total are occasionally empty.
func ShoppingCSV(config ShoppingGeneratorConfig) []byte {
	rng := rand.New(rand.NewSource(config.Seed))
	rows := make([][]string, 0, config.Rows)

	maybe := func(v string) string {
		if rng.Float64() < config.MissingRate {
			return ""
		}
		return v
	}

	for i := 0; i < config.Rows; i++ {
		age := 18 + rng.Intn(60)
		total := math.Round((20+rng.ExpFloat64()*80)*100) / 100
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			maybe(regions[rng.Intn(len(regions))]),
			channels[rng.Intn(len(channels))],
			maybe(fmt.Sprintf("%d", age)),
			maybe(fmt.Sprintf("%.2f", total)),
			fmt.Sprintf("%d", 1+rng.Intn(5)),
			fmt.Sprintf("%t", rng.Float64() < 0.1),
		})
	}

	return CSV(ShoppingHeader, rows...)
}
