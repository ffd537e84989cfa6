package charts

import (
	"slices"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal/profiling"
)

const (
	// Placeholder is the explicit "nothing selected" choice for a column input
	Placeholder = "-"
	// NoGrouping disables the optional box plot grouping
	NoGrouping = "None"
	// MaxPieSlices caps the number of categories drawn in a pie chart
	MaxPieSlices = 10
)

// Notices shown instead of a chart when a kind has no eligible columns
const (
	NoticeBarNoCategorical  = "No categorical column available for a Bar Chart."
	NoticeHistogramNoNumber = "No numeric column available for a Histogram."
	NoticePieNoCategorical  = "No categorical column available for a Pie Chart."
	NoticeScatterNeedsTwo   = "At least two numeric columns are required for a Scatter Plot."
	NoticeBoxNoNumber       = "No numeric column available for a Box Plot."
	NoticeNoData            = "The selected columns have no values to plot."
	NoticeUnknownKind       = "Unknown chart type."
)

// Warnings shown next to a chart that still renders
const (
	WarningPieTruncated = "Showing only the top 10 categories."
	WarningSameColumn   = "X and Y are the same column; the plot will show the diagonal."
)

// Request is the user's chart choice. An empty or ineligible column means "use the
// default"; Placeholder means "not chosen".
type Request struct {
	Kind  Kind   `json:"kind"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Group string `json:"group,omitempty"`
}

// Input describes one column selector shown for a chart kind
type Input struct {
	Name     string   `json:"name"` // query parameter: x, y or group
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// Plan is the resolved chart selection
type Plan struct {
	Kind     Kind     `json:"kind"`
	Inputs   []Input  `json:"inputs,omitempty"`
	X        string   `json:"x,omitempty"`
	Y        string   `json:"y,omitempty"`
	Group    string   `json:"group,omitempty"` // empty when not grouped
	Notice   string   `json:"notice,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Ready    bool     `json:"ready"`
}

// Select resolves a request against the dataset's column kinds
func Select(ds *dataset.Dataset, req Request) Plan {
	kind := req.Kind
	if kind == "" {
		kind = Kinds[0]
	}
	plan := Plan{Kind: kind}

	numeric := ds.NumericColumns()
	categorical := ds.CategoricalColumns()

	switch kind {
	case KindBar:
		if len(categorical) == 0 {
			plan.Notice = NoticeBarNoCategorical
			return plan
		}
		plan.X = resolve(req.X, categorical, categorical[0])
		plan.Inputs = []Input{columnInput("x", "Categorical column for the X axis", categorical, plan.X)}
		plan.Ready = plan.X != ""

	case KindHistogram:
		if len(numeric) == 0 {
			plan.Notice = NoticeHistogramNoNumber
			return plan
		}
		plan.X = resolve(req.X, numeric, numeric[0])
		plan.Inputs = []Input{columnInput("x", "Numeric column for the histogram", numeric, plan.X)}
		plan.Ready = plan.X != ""

	case KindPie:
		if len(categorical) == 0 {
			plan.Notice = NoticePieNoCategorical
			return plan
		}
		plan.X = resolve(req.X, categorical, categorical[0])
		plan.Inputs = []Input{columnInput("x", "Categorical column for the pie chart", categorical, plan.X)}
		plan.Ready = plan.X != ""
		if plan.Ready && len(profiling.CountValuesInOrder(ds, plan.X, true)) > MaxPieSlices {
			plan.Warnings = append(plan.Warnings, WarningPieTruncated)
		}

	case KindScatter:
		if len(numeric) < 2 {
			plan.Notice = NoticeScatterNeedsTwo
			return plan
		}
		plan.X = resolve(req.X, numeric, numeric[0])
		plan.Y = resolve(req.Y, numeric, numeric[1])
		plan.Inputs = []Input{
			columnInput("x", "Numeric column for the X axis", numeric, plan.X),
			columnInput("y", "Numeric column for the Y axis", numeric, plan.Y),
		}
		plan.Ready = plan.X != "" && plan.Y != ""
		if plan.Ready && plan.X == plan.Y {
			plan.Warnings = append(plan.Warnings, WarningSameColumn)
		}

	case KindBox:
		if len(numeric) == 0 {
			plan.Notice = NoticeBoxNoNumber
			return plan
		}
		plan.Y = resolve(req.Y, numeric, numeric[0])

		// A grouping left over from another kind or dataset falls back to no grouping.
		if slices.Contains(categorical, req.Group) {
			plan.Group = req.Group
		}

		selectedGroup := plan.Group
		if selectedGroup == "" {
			selectedGroup = NoGrouping
		}
		plan.Inputs = []Input{
			columnInput("y", "Numeric column for the Y axis", numeric, plan.Y),
			{
				Name:     "group",
				Label:    "Categorical column for the X axis (optional)",
				Options:  append([]string{NoGrouping}, categorical...),
				Selected: selectedGroup,
			},
		}
		plan.Ready = plan.Y != ""

	default:
		plan.Notice = NoticeUnknownKind
	}

	return plan
}

// resolve maps a raw choice to a column. Placeholder leaves the input unselected;
// an empty choice or one not among the options picks def.
func resolve(choice string, options []string, def string) string {
	switch {
	case choice == Placeholder:
		return ""
	case slices.Contains(options, choice):
		return choice
	default:
		return def
	}
}

func columnInput(name, label string, options []string, selected string) Input {
	if selected == "" {
		selected = Placeholder
	}
	return Input{
		Name:     name,
		Label:    label,
		Options:  append([]string{Placeholder}, options...),
		Selected: selected,
	}
}
