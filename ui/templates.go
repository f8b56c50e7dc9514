package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"conversor/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	indexTemplate  = "index.html"
	resultTemplate = "resultado.html"
)

func parseTemplates(files fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// renderMarkdown turns an embedded markdown document into trusted HTML.
func renderMarkdown(files fs.FS, name string) (template.HTML, error) {
	source, err := fs.ReadFile(files, name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(source, p, renderer)), nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// Render to a buffer first so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		logger.Errorf("[Templates] Error rendering %s: %v", templateName, err)
		c.String(500, "Erro ao montar a página")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(200)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		logger.Warnf("[Templates] Error writing %s: %v", templateName, err)
	}
}
