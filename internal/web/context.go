package web

import (
	"context"
	"net/http"

	"github.com/MisterKipper/my-site/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// withUser resolves the logged-in user once per request and stashes it in
// the request context.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.sessions.CurrentUser(r.Context())
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the logged-in user, or nil for anonymous requests.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}

// requireUser loads the logged-in user or redirects to the login page.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *model.User {
	user := currentUser(r)
	if user == nil {
		s.redirectTo(w, r, routeLogin, nil)
		return nil
	}
	return user
}
