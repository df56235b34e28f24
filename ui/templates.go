package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// templateFuncs are the helpers available to every page
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"pct": func(v float64) string {
			return fmt.Sprintf("%.2f%%", v*100)
		},
		"num": func(v *float64) string {
			if v == nil {
				return "—"
			}
			return fmt.Sprintf("%.4g", *v)
		},
		"rateChart": rateChart,
	}
}

// renderTemplate executes a template into a buffer first so a failure never
// sends a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error", "template", templateName, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("Error writing template response", "err", err)
	}
}
