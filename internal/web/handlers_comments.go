package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MisterKipper/my-site/internal/model"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/pkg/forms"
	"github.com/MisterKipper/my-site/pkg/view"
)

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	if !user.Can(model.PermissionComment) {
		s.forbidden(w)
		return
	}
	post, ok := s.postFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}

	form := s.withCSRF(r, commentForm())
	form.Validate(r.PostForm)
	s.checkCSRF(r, form)
	if !form.Valid() {
		s.renderPost(w, r, http.StatusOK, post, form)
		return
	}

	comment := model.Comment{PostID: post.ID, AuthorID: user.ID}
	comment.SetBody(form.Field("body").Value)
	if err := s.store.CreateComment(r.Context(), &comment); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.flash(r.Context(), "Your comment has been published.")
	s.redirectTo(w, r, routePost, url.Values{"id": {strconv.FormatInt(post.ID, 10)}})
}

func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	comment, ok := s.commentFromPath(w, r)
	if !ok {
		return
	}
	if !canModify(user, comment.AuthorID) {
		s.forbidden(w)
		return
	}

	form := s.withCSRF(r, commentForm())
	form.Field("body").Value = comment.Body

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		form.Validate(r.PostForm)
		s.checkCSRF(r, form)
		if form.Valid() {
			comment.SetBody(form.Field("body").Value)
			if err := s.store.UpdateComment(r.Context(), &comment); err != nil {
				s.serverError(w, r, err)
				return
			}
			s.flash(r.Context(), "The comment has been updated.")
			s.redirectTo(w, r, routePost,
				url.Values{"id": {strconv.FormatInt(comment.PostID, 10)}})
			return
		}
	}

	markup, ok := s.formHTML(w, r, form)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "edit_comment", map[string]any{
		"title":   view.PageTitle("Edit Comment"),
		"comment": comment,
		"form":    markup,
	})
}

func (s *Server) handleReplyComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	if !user.Can(model.PermissionComment) {
		s.forbidden(w)
		return
	}
	parent, ok := s.commentFromPath(w, r)
	if !ok {
		return
	}

	form := s.withCSRF(r, commentForm())

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		form.Validate(r.PostForm)
		s.checkCSRF(r, form)
		if form.Valid() {
			reply := model.Comment{
				PostID:   parent.PostID,
				AuthorID: user.ID,
				ParentID: parent.ID,
			}
			reply.SetBody(form.Field("body").Value)
			if err := s.store.CreateComment(r.Context(), &reply); err != nil {
				s.serverError(w, r, err)
				return
			}
			s.flash(r.Context(), "Your reply has been published.")
			s.redirectTo(w, r, routePost,
				url.Values{"id": {strconv.FormatInt(parent.PostID, 10)}})
			return
		}
	}

	markup, ok := s.formHTML(w, r, form)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "reply_comment", map[string]any{
		"title":   view.PageTitle("Reply"),
		"comment": parent,
		"form":    markup,
	})
}

// handleModerateComment toggles a comment's disabled flag.
func (s *Server) handleModerateComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	if !user.Can(model.PermissionModerate) {
		s.forbidden(w)
		return
	}
	comment, ok := s.commentFromPath(w, r)
	if !ok {
		return
	}

	if !s.csrfDisabled {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		token := r.PostFormValue(forms.CSRFFieldName)
		if err := s.csrf.Verify(s.sessions.SessionID(r.Context()), token); err != nil {
			s.forbidden(w)
			return
		}
	}

	comment.Disabled = !comment.Disabled
	if err := s.store.UpdateComment(r.Context(), &comment); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.redirectTo(w, r, routePost,
		url.Values{"id": {strconv.FormatInt(comment.PostID, 10)}})
}

// commentFromPath loads the comment addressed by the {id} path parameter,
// writing a 404 when absent.
func (s *Server) commentFromPath(w http.ResponseWriter, r *http.Request) (model.Comment, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.notFound(w)
		return model.Comment{}, false
	}
	comment, err := s.store.CommentByID(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.notFound(w)
		return model.Comment{}, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return model.Comment{}, false
	}
	return comment, true
}
