package ui

import (
	"strconv"
	"strings"

	"csvexplorer/app"
	"csvexplorer/internal/charts"

	"github.com/gin-gonic/gin"
)

// chartRequest reads the chart selection from the query string. An unknown kind is kept as
// given so the page can say so; the JSON API rejects it up front instead.
func chartRequest(c *gin.Context) charts.Request {
	req := charts.Request{
		X:     c.Query("x"),
		Y:     c.Query("y"),
		Group: c.Query("group"),
	}
	raw := c.Query("chart")
	if raw == "" {
		raw = c.Query("kind")
	}
	if kind, ok := charts.ParseKind(raw); ok {
		req.Kind = kind
	} else {
		req.Kind = charts.Kind(strings.ToLower(strings.TrimSpace(raw)))
	}
	return req
}

// interaction collects the user's choices for a page render
func interaction(c *gin.Context, tab string) app.Interaction {
	return app.Interaction{
		Tab:              app.ParseTab(tab),
		Chart:            chartRequest(c),
		ShowMissingRows:  queryBool(c.Query("missing_rows")),
		MissingRowsLimit: queryInt(c.Query("limit")),
	}
}

// queryBool accepts the values browsers send for checkboxes as well as strconv spellings
func queryBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "on" || v == "yes" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// queryInt returns 0, meaning "use the default", for anything that is not a positive integer
func queryInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
