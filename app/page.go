package app

import (
	"encoding/base64"
	"html/template"
	"strings"

	"csvexplorer/domain/dataset"
	"csvexplorer/internal/charts"
	"csvexplorer/internal/cleaning"
	"csvexplorer/internal/profiling"
	"csvexplorer/internal/session"
)

// NoDatasetNotice is the only thing shown until a CSV has been uploaded
const NoDatasetNotice = "Please upload a CSV file to get started."

// Tab is one section of the explorer page
type Tab string

const (
	TabOverview   Tab = "overview"
	TabStatistics Tab = "statistics"
	TabCharts     Tab = "charts"
	TabCleaning   Tab = "cleaning"
)

// Tabs lists the page sections in display order
var Tabs = []Tab{TabOverview, TabStatistics, TabCharts, TabCleaning}

// ParseTab resolves a tab name, falling back to the overview
func ParseTab(s string) Tab {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabOverview
}

// Label is the tab heading
func (t Tab) Label() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabStatistics:
		return "Descriptive Statistics"
	case TabCharts:
		return "Visualizations"
	case TabCleaning:
		return "Data Cleaning"
	default:
		return string(t)
	}
}

// MessageLevel is the severity of a page message
type MessageLevel string

const (
	LevelSuccess MessageLevel = "success"
	LevelInfo    MessageLevel = "info"
	LevelWarning MessageLevel = "warning"
	LevelError   MessageLevel = "error"
)

// Message is a one-line banner shown above the page content
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

// Interaction carries everything the user chose for this render
type Interaction struct {
	Tab              Tab
	Chart            charts.Request
	ShowMissingRows  bool
	PreviewRows      int
	MissingRowsLimit int
	Messages         []Message
}

// ChartView is the visualizations tab
type ChartView struct {
	Kinds    []charts.Kind
	Plan     charts.Plan
	Chart    *charts.Chart
	ImageURI template.URL // data URI of the rendered PNG, empty when nothing was drawn
}

// Page is the whole explorer page for one render
type Page struct {
	Tab        Tab
	Tabs       []Tab
	Messages   []Message
	HasDataset bool
	Notice     string
	Filename   string

	Summary  *profiling.Summary
	Charts   *ChartView
	Cleaning *cleaning.Report
}

// BuildPage derives the page from the current state and nothing else. All tabs are built on
// every render; only the chart image is limited to renders of the visualizations tab.
func BuildPage(state session.State, in Interaction) *Page {
	page := &Page{
		Tab:      in.Tab,
		Tabs:     Tabs,
		Messages: append([]Message(nil), in.Messages...),
	}
	if page.Tab == "" {
		page.Tab = TabOverview
	}

	if !state.HasDataset() {
		page.Notice = NoDatasetNotice
		return page
	}

	ds := state.Dataset
	page.HasDataset = true
	page.Filename = ds.Filename

	summary := profiling.Build(ds, in.PreviewRows)
	page.Summary = &summary

	page.Charts = buildChartView(ds, page, in)

	report := cleaning.Inspect(ds, in.ShowMissingRows, in.MissingRowsLimit)
	page.Cleaning = &report

	return page
}

func buildChartView(ds *dataset.Dataset, page *Page, in Interaction) *ChartView {
	view := &ChartView{Kinds: charts.Kinds}
	if page.Tab != TabCharts {
		view.Plan = charts.Select(ds, in.Chart)
		return view
	}

	result, err := charts.Draw(ds, in.Chart)
	view.Plan = result.Plan
	if err != nil {
		page.Messages = append(page.Messages, Message{Level: LevelError, Text: "Could not draw the chart: " + err.Error()})
		return view
	}
	if result.Chart != nil {
		view.Chart = result.Chart
		view.ImageURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(result.Chart.PNG))
	}
	return view
}
