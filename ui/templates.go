package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"strings"

	"csvexplorer/app"
	"csvexplorer/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// templateFuncs are the helpers available to every page template
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Statistics follow pandas formatting: six significant digits, NaN spelled out.
		"num":  formatFloat,
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
		"pct": func(part, total int) string {
			if total == 0 {
				return "0.0%"
			}
			return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
		},
		"tabHref": func(tab app.Tab) string {
			return "/?tab=" + string(tab)
		},
	}
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// parseTemplates loads every registered template from the embedded filesystem. Each template
// is named after its path so fragments can be included by path.
func parseTemplates(files fs.FS) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs())
	for _, name := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse %s template %s: %w", fragments.GetTemplateCategory(name), name, err)
		}
	}
	return tmpl, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[Template] Rendering %s failed (data %T): %v", templateName, data, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("[Template] Error writing %s response: %v", templateName, err)
	}
}
