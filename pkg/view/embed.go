package view

import (
	"embed"
	"io/fs"
)

//go:embed templates/controls/*.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded control templates for consumers that want
// the built-in markup out of the box.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
