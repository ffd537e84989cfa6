// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Template path constants, relative to ui/templates
const (
	// Layout templates
	Index   = "index.html"
	Sidebar = "fragments/sidebar.html"
	Banner  = "fragments/messages.html"

	// Tab templates
	Overview   = "fragments/overview.html"
	Statistics = "fragments/statistics.html"
	Charts     = "fragments/charts.html"
	Cleaning   = "fragments/cleaning.html"
)

// GetAllTemplatePaths returns all template paths for registration. Fragments come first so
// the layout can reference them.
func GetAllTemplatePaths() []string {
	return []string{
		// Layout parts
		Sidebar,
		Banner,

		// Tabs
		Overview,
		Statistics,
		Charts,
		Cleaning,

		Index,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch templatePath {
	case Sidebar, Banner, Index:
		return "layout"
	}
	if strings.HasPrefix(templatePath, "fragments/") {
		return "tab"
	}
	return "unknown"
}
