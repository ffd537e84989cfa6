// Package charts picks columns for a requested chart kind and renders the chart as a PNG.
//
// Selection never fails: a chart kind with no eligible columns yields a notice, and an
// unselected column yields a plan that is simply not ready. Only rendering can fail.
package charts

import "strings"

// Kind is one of the supported chart types
type Kind string

const (
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindPie       Kind = "pie"
	KindScatter   Kind = "scatter"
	KindBox       Kind = "box"
)

// Kinds lists chart kinds in the order they are offered
var Kinds = []Kind{KindBar, KindHistogram, KindPie, KindScatter, KindBox}

// ParseKind resolves a user supplied chart kind. Empty input selects the first kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Kinds[0], true
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Label is the human readable chart name
func (k Kind) Label() string {
	switch k {
	case KindBar:
		return "Bar Chart"
	case KindHistogram:
		return "Histogram"
	case KindPie:
		return "Pie Chart"
	case KindScatter:
		return "Scatter Plot"
	case KindBox:
		return "Box Plot"
	default:
		return string(k)
	}
}
