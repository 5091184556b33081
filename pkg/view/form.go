package view

import (
	"fmt"
	"html"
	"strings"

	"github.com/MisterKipper/my-site/pkg/forms"
)

// RenderForm assembles the full form markup: the open tag, hidden inputs,
// hidden-field error banners, then every visible field in order. The form
// posts to the current URL, so no action attribute is emitted.
func (r *Renderer) RenderForm(form *forms.Form) (string, error) {
	var b strings.Builder
	b.WriteString("<form method=\"post\" role=\"form\">\n")

	for _, field := range form.HiddenFields() {
		control, err := r.renderControl(field)
		if err != nil {
			return "", err
		}
		b.WriteString(control)
	}

	b.WriteString(r.HiddenFieldErrors(form))

	for _, field := range form.VisibleFields() {
		rendered, err := r.RenderField(field)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}

	b.WriteString("</form>\n")
	return b.String(), nil
}

// HiddenFieldErrors surfaces errors attached to hidden fields as dismissible
// banners. Hidden controls are never displayed, so a failed CSRF check would
// otherwise go unreported.
// Visible-field errors are intentionally skipped; RenderField owns those.
func (r *Renderer) HiddenFieldErrors(form *forms.Form) string {
	var b strings.Builder
	for _, field := range form.HiddenFields() {
		for _, message := range field.Errors {
			writeErrorBanner(&b, message)
		}
	}
	return b.String()
}

// RenderField renders one visible field, branching on its kind: checkboxes
// nest the control inside the label so the label is clickable, submit
// controls carry no label, and everything else renders label then control.
// Every error attached to the field follows as a dismissible banner.
func (r *Renderer) RenderField(field *forms.Field) (string, error) {
	control, err := r.renderControl(field)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<div class=\"form-group\">\n")

	switch field.Kind {
	case forms.KindCheckbox:
		b.WriteString(`<label class="form-check-label" for="`)
		b.WriteString(html.EscapeString(controlID(field.Name)))
		b.WriteString("\">\n")
		b.WriteString(control)
		b.WriteString(html.EscapeString(field.Label))
		b.WriteString("\n</label>\n")
	case forms.KindSubmit:
		b.WriteString(control)
	default:
		if field.Label != "" {
			b.WriteString(`<label for="`)
			b.WriteString(html.EscapeString(controlID(field.Name)))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(field.Label))
			b.WriteString("</label>\n")
		}
		b.WriteString(control)
	}

	for _, message := range field.Errors {
		writeErrorBanner(&b, message)
	}

	b.WriteString("</div>\n")
	return b.String(), nil
}

func (r *Renderer) renderControl(field *forms.Field) (string, error) {
	name := controlTemplate(field.Kind)
	if override := r.theme.Partial(name); override != "" {
		name = override
	}
	rendered, err := r.engine.RenderTemplate(name, map[string]any{
		"field": field,
		"id":    controlID(field.Name),
		"type":  inputType(field.Kind),
	})
	if err != nil {
		return "", fmt.Errorf("view: render control for field %q: %w", field.Name, err)
	}
	return rendered, nil
}

func controlTemplate(kind forms.Kind) string {
	switch kind {
	case forms.KindTextArea:
		return "controls/textarea"
	case forms.KindCheckbox:
		return "controls/checkbox"
	case forms.KindSubmit:
		return "controls/submit"
	case forms.KindHidden:
		return "controls/hidden"
	default:
		return "controls/input"
	}
}

func inputType(kind forms.Kind) string {
	switch kind {
	case forms.KindPassword:
		return "password"
	case forms.KindEmail:
		return "email"
	default:
		return "text"
	}
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "field-" + trimmed
}

func writeErrorBanner(b *strings.Builder, message string) {
	b.WriteString(`<div class="alert alert-danger alert-dismissible" role="alert">`)
	b.WriteString(`<button type="button" class="close" data-dismiss="alert" aria-label="Close">`)
	b.WriteString(`<span aria-hidden="true">&times;</span></button>`)
	b.WriteString(html.EscapeString(message))
	b.WriteString("</div>\n")
}
