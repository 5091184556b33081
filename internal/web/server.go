// Package web hosts the HTTP surface of the site: routing, session state,
// request handlers, and the page templates they render.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MisterKipper/my-site/internal/auth"
	"github.com/MisterKipper/my-site/internal/config"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/pkg/forms"
	"github.com/MisterKipper/my-site/pkg/view"
	"github.com/MisterKipper/my-site/pkg/view/template"
)

// Option adjusts server construction.
type Option func(*Server)

// WithCSRFDisabled turns off CSRF token checks. Only for tests.
func WithCSRFDisabled() Option {
	return func(s *Server) {
		s.csrfDisabled = true
	}
}

// Server wires the store, sessions, and renderers behind a chi router.
type Server struct {
	cfg      config.Config
	store    *sqlite.Store
	sessions *auth.Sessions
	tokens   *auth.Tokens
	csrf     *forms.CSRF
	view     *view.Renderer
	pages    template.Renderer
	router   chi.Router

	csrfDisabled bool
}

// New assembles the server from configuration and an open store.
func New(cfg config.Config, store *sqlite.Store, options ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("web: store is required")
	}
	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		return nil, errors.New("web: secret key is required")
	}

	csrf, err := forms.NewCSRF(secret, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("web: configure csrf: %w", err)
	}

	theme, err := view.ResolveTheme(view.SiteManifest(), "")
	if err != nil {
		return nil, fmt.Errorf("web: resolve theme: %w", err)
	}
	renderer, err := view.New(
		view.WithURLResolver(URLFor),
		view.WithTheme(theme),
	)
	if err != nil {
		return nil, fmt.Errorf("web: configure view renderer: %w", err)
	}

	pages, err := template.New(
		template.WithFS(PageTemplatesFS()),
		template.WithExtension(".html"),
		template.WithGlobalData(map[string]any{
			"site_name": view.SiteName,
			"theme_css": theme.CSSVars(),
			"site_url":  cfg.SiteURL,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("web: configure page templates: %w", err)
	}
	if err := registerTemplateFilters(pages); err != nil {
		return nil, fmt.Errorf("web: register template filters: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		sessions: auth.NewSessions(store),
		tokens:   auth.NewTokens(secret, 24*time.Hour),
		csrf:     csrf,
		view:     renderer,
		pages:    pages,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.sessions.Manager.LoadAndSave)
	r.Use(s.withUser)

	r.Get(routePatterns[routeIndex], s.handleIndex)
	r.Post(routePatterns[routeIndex], s.handleCreatePost)
	r.Get(routePatterns[routePost], s.handlePost)
	r.Post(routePatterns[routePost], s.handleCreateComment)
	r.Get(routePatterns[routeEditPost], s.handleEditPost)
	r.Post(routePatterns[routeEditPost], s.handleEditPost)
	r.Get(routePatterns[routeEditComment], s.handleEditComment)
	r.Post(routePatterns[routeEditComment], s.handleEditComment)
	r.Get(routePatterns[routeReplyComment], s.handleReplyComment)
	r.Post(routePatterns[routeReplyComment], s.handleReplyComment)
	r.Post(routePatterns[routeModerateComment], s.handleModerateComment)
	r.Get(routePatterns[routeUser], s.handleUserProfile)
	r.Get(routePatterns[routeEditProfile], s.handleEditProfile)
	r.Post(routePatterns[routeEditProfile], s.handleEditProfile)
	r.Get(routePatterns[routeRegister], s.handleRegister)
	r.Post(routePatterns[routeRegister], s.handleRegister)
	r.Get(routePatterns[routeLogin], s.handleLogin)
	r.Post(routePatterns[routeLogin], s.handleLogin)
	r.Get(routePatterns[routeLogout], s.handleLogout)
	r.Get(routePatterns[routeActivate], s.handleActivate)

	return r
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the HTTP server until the context ends, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.cfg.HTTPAddr)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve http: %w", err)
	}
}
