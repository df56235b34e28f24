package ui

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const conceptsPath = "content/concepts.md"

// renderConcepts converts the embedded concepts Markdown to HTML once at startup
func renderConcepts() (template.HTML, error) {
	source, err := embeddedFiles.ReadFile(conceptsPath)
	if err != nil {
		return "", err
	}
	return template.HTML(markdownToHTML(source)), nil
}

func markdownToHTML(source []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(source)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	return markdown.Render(doc, renderer)
}
