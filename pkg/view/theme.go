package view

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme is a resolved site theme: merged design tokens plus optional control
// template overrides. Build one with ResolveTheme.
type Theme struct {
	Name     string
	Variant  string
	Tokens   map[string]string
	Partials map[string]string
}

// SiteManifest returns the built-in theme manifest for the site, with a dark
// variant overriding the surface tokens.
func SiteManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "junk",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#2c3e50",
			"surface":    "#ffffff",
			"text":       "#212529",
			"muted":      "#6c757d",
			"danger":     "#dc3545",
			"link":       "#0d6efd",
			"pagination": "#e9ecef",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#1c1f23",
					"text":    "#e9ecef",
					"muted":   "#868e96",
					"link":    "#74b0ff",
				},
			},
		},
	}
}

// ResolveTheme merges a manifest's base tokens and template overrides with
// the named variant. An empty variant resolves the base theme; an unknown
// variant is an error.
func ResolveTheme(manifest *theme.Manifest, variant string) (*Theme, error) {
	if manifest == nil {
		return nil, fmt.Errorf("view: theme manifest is required")
	}

	resolved := &Theme{
		Name:     manifest.Name,
		Variant:  variant,
		Tokens:   make(map[string]string, len(manifest.Tokens)),
		Partials: make(map[string]string, len(manifest.Templates)),
	}
	for key, value := range manifest.Tokens {
		resolved.Tokens[key] = value
	}
	for key, value := range manifest.Templates {
		resolved.Partials[key] = value
	}

	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("view: theme %q has no variant %q", manifest.Name, variant)
		}
		for key, value := range v.Tokens {
			resolved.Tokens[key] = value
		}
		for key, value := range v.Templates {
			resolved.Partials[key] = value
		}
	}
	return resolved, nil
}

// DefaultTheme resolves the built-in manifest's base variant.
func DefaultTheme() *Theme {
	resolved, err := ResolveTheme(SiteManifest(), "")
	if err != nil {
		// the built-in manifest always resolves
		panic(err)
	}
	return resolved
}

// Partial returns the template override for a control template name, or ""
// when the theme keeps the default.
func (t *Theme) Partial(name string) string {
	if t == nil || len(t.Partials) == 0 {
		return ""
	}
	return t.Partials[name]
}

// CSSVars renders the theme tokens as CSS custom properties for the page
// layout to inline, one declaration per token in stable order.
func (t *Theme) CSSVars() string {
	if t == nil || len(t.Tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.Tokens))
	for key := range t.Tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  --")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(t.Tokens[key])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}
