package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MisterKipper/my-site/internal/auth"
	"github.com/MisterKipper/my-site/internal/model"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/pkg/view"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		s.redirectTo(w, r, routeIndex, nil)
		return
	}

	form := s.withCSRF(r, registrationForm(r.Context(), s.store))

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		form.Validate(r.PostForm)
		s.checkCSRF(r, form)
		if form.Valid() {
			hash, err := auth.HashPassword(form.Field("password").Value)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			user := model.User{
				Username:     form.Field("username").Value,
				Email:        form.Field("email").Value,
				PasswordHash: hash,
			}
			if err := s.store.CreateUser(r.Context(), &user, s.cfg.AdminEmail); err != nil {
				s.serverError(w, r, err)
				return
			}

			token, err := s.tokens.GenerateActivation(user.ID)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			link, err := URLFor(routeActivate, url.Values{"token": {token}})
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			// No outbound mail yet, so the activation link goes to the log.
			log.Printf("web: activation link for %s: %s%s", user.Email, s.cfg.SiteURL, link)

			s.flash(r.Context(), "A confirmation link has been sent to your email address.")
			s.redirectTo(w, r, routeLogin, nil)
			return
		}
	}

	markup, ok := s.formHTML(w, r, form)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "register", map[string]any{
		"title": view.PageTitle("Register"),
		"form":  markup,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		s.redirectTo(w, r, routeIndex, nil)
		return
	}

	form := s.withCSRF(r, loginForm())

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		form.Validate(r.PostForm)
		s.checkCSRF(r, form)
		if form.Valid() {
			user, err := s.store.UserByUsername(r.Context(), form.Field("username").Value)
			switch {
			case errors.Is(err, sqlite.ErrNotFound):
				s.flash(r.Context(), "Invalid username or password.")
			case err != nil:
				s.serverError(w, r, err)
				return
			case !auth.VerifyPassword(user.PasswordHash, form.Field("password").Value):
				s.flash(r.Context(), "Invalid username or password.")
			default:
				if err := s.sessions.Login(r.Context(), user.ID); err != nil {
					s.serverError(w, r, err)
					return
				}
				if form.Field("remember_me").Checked {
					s.sessions.Manager.RememberMe(r.Context(), true)
				}
				if !user.Active {
					s.flash(r.Context(), "Inactive account. Check your email for the activation link.")
				}
				s.redirectTo(w, r, routeIndex, nil)
				return
			}
		}
	}

	markup, ok := s.formHTML(w, r, form)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "login", map[string]any{
		"title": view.PageTitle("Log In"),
		"form":  markup,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.flash(r.Context(), "You have been logged out.")
	s.redirectTo(w, r, routeIndex, nil)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	id, err := s.tokens.VerifyActivation(token)
	if err != nil {
		s.flash(r.Context(), "The activation link is invalid or has expired.")
		s.redirectTo(w, r, routeIndex, nil)
		return
	}
	if err := s.store.ActivateUser(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			s.flash(r.Context(), "The activation link is invalid or has expired.")
			s.redirectTo(w, r, routeIndex, nil)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.flash(r.Context(), "Account activated.")
	if currentUser(r) != nil {
		s.redirectTo(w, r, routeIndex, nil)
		return
	}
	s.redirectTo(w, r, routeLogin, nil)
}
