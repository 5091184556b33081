// Package view renders the HTML fragments of the site: page titles, the
// pagination widget, and forms with their validation feedback. Rendering is a
// pure function of its inputs; every entity arrives read-only from
// collaborators and is evaluated once per request.
package view

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/MisterKipper/my-site/pkg/view/template"
)

// URLResolver builds a URL for a named route plus query parameters. The web
// layer injects its route table; resolution failure aborts rendering.
type URLResolver func(route string, params url.Values) (string, error)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	engine     template.Renderer
	urlFor     URLResolver
	theme      *Theme
}

// WithTemplatesFS supplies an alternate control-template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads control templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithEngine injects a custom template engine implementation.
func WithEngine(engine template.Renderer) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithURLResolver wires the named-route resolver used by pagination links.
func WithURLResolver(resolver URLResolver) Option {
	return func(cfg *config) {
		if resolver != nil {
			cfg.urlFor = resolver
		}
	}
}

// WithTheme applies a resolved site theme.
func WithTheme(t *Theme) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.theme = t
		}
	}
}

// Renderer produces the site's HTML fragments. Instances are safe for
// concurrent use once constructed.
type Renderer struct {
	engine template.Renderer
	urlFor URLResolver
	theme  *Theme
}

// New constructs a renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.theme == nil {
		cfg.theme = DefaultTheme()
	}

	engine := cfg.engine
	if engine == nil {
		built, err := template.New(
			template.WithFS(cfg.templateFS),
			template.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("view: configure template engine: %w", err)
		}
		engine = built
	}

	return &Renderer{
		engine: engine,
		urlFor: cfg.urlFor,
		theme:  cfg.theme,
	}, nil
}

// Theme returns the renderer's resolved theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
