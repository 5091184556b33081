package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/pkg/view"
)

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	profile, err := s.store.UserByUsername(r.Context(), username)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.notFound(w)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	total, err := s.store.CountPostsByAuthor(r.Context(), profile.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	cursor := view.Cursor{
		Page:    pageParam(r),
		PerPage: s.cfg.PostsPerPage,
		Total:   total,
	}
	if cursor.Page > cursor.TotalPages() {
		cursor.Page = cursor.TotalPages()
	}

	posts, err := s.store.ListPostsByAuthor(r.Context(), profile.ID, cursor.PerPage, cursor.Offset())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	widget, err := s.view.Widget(cursor, routeUser, url.Values{"username": {profile.Username}})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "user", map[string]any{
		"title":      view.PageTitle("User " + profile.Username),
		"profile":    profile,
		"avatar":     profile.AvatarURL(128),
		"posts":      posts,
		"pagination": widget,
	})
}

func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	form := s.withCSRF(r, editProfileForm())
	form.Field("name").Value = user.Name
	form.Field("location").Value = user.Location
	form.Field("about_me").Value = user.AboutMe

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		form.Validate(r.PostForm)
		s.checkCSRF(r, form)
		if form.Valid() {
			user.Name = form.Field("name").Value
			user.Location = form.Field("location").Value
			user.AboutMe = form.Field("about_me").Value
			if err := s.store.UpdateUser(r.Context(), user); err != nil {
				s.serverError(w, r, err)
				return
			}
			s.flash(r.Context(), "Your profile has been updated.")
			s.redirectTo(w, r, routeUser, url.Values{"username": {user.Username}})
			return
		}
	}

	markup, ok := s.formHTML(w, r, form)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "edit_profile", map[string]any{
		"title": view.PageTitle("Edit Profile"),
		"form":  markup,
	})
}
