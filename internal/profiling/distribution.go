package profiling

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// NumericSummary is one column of the describe table
type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// MarshalJSON writes undefined statistics as null since JSON has no NaN
func (s NumericSummary) MarshalJSON() ([]byte, error) {
	num := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q1     *float64 `json:"q1"`
		Median *float64 `json:"median"`
		Q3     *float64 `json:"q3"`
		Max    *float64 `json:"max"`
	}{s.Column, s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max)})
}

// DistributionAnalyzer computes descriptive statistics for a single column
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution summarises the non-missing values of a column.
// With no values every statistic except Count is NaN; with one value Std is NaN.
func (da *DistributionAnalyzer) AnalyzeDistribution(column string, data []float64) NumericSummary {
	nan := math.NaN()
	summary := NumericSummary{
		Column: column,
		Count:  len(data),
		Mean:   nan,
		Std:    nan,
		Min:    nan,
		Q1:     nan,
		Median: nan,
		Q3:     nan,
		Max:    nan,
	}
	if len(data) == 0 {
		return summary
	}

	if mean, err := stats.Mean(data); err == nil {
		summary.Mean = mean
	}

	// Sample standard deviation (n-1), undefined for a single value
	if len(data) > 1 {
		if stdDev, err := stats.StandardDeviationSample(data); err == nil {
			summary.Std = stdDev
		}
	}

	if min, err := stats.Min(data); err == nil {
		summary.Min = min
	}

	if max, err := stats.Max(data); err == nil {
		summary.Max = max
	}

	if median, err := stats.Median(data); err == nil {
		summary.Median = median
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	summary.Q1 = quantile(sorted, 0.25)
	summary.Q3 = quantile(sorted, 0.75)

	return summary
}

// quantile interpolates linearly between the two closest ranks of sorted data,
// position (n-1)*p, so 0.25 on [1 2 3 4] gives 1.75
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
