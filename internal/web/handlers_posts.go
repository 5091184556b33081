package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MisterKipper/my-site/internal/model"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/pkg/forms"
	"github.com/MisterKipper/my-site/pkg/view"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, nil)
}

// renderIndex shows the post feed with the composer form for writers. A
// non-nil form carries validation errors from a failed submission.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, form *forms.Form) {
	ctx := r.Context()

	total, err := s.store.CountPosts(ctx)
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

	posts, err := s.store.ListPosts(ctx, cursor.PerPage, cursor.Offset())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	widget, err := s.view.Widget(cursor, routeIndex, nil)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	formMarkup := ""
	if currentUser(r).Can(model.PermissionWrite) {
		if form == nil {
			form = s.withCSRF(r, postForm())
		}
		markup, ok := s.formHTML(w, r, form)
		if !ok {
			return
		}
		formMarkup = markup
	}

	s.render(w, r, status, "index", map[string]any{
		"posts":      posts,
		"pagination": widget,
		"form":       formMarkup,
	})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	if !user.Can(model.PermissionWrite) {
		s.forbidden(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.serverError(w, r, err)
		return
	}

	form := s.withCSRF(r, postForm())
	form.Validate(r.PostForm)
	s.checkCSRF(r, form)
	if !form.Valid() {
		s.renderIndex(w, r, http.StatusOK, form)
		return
	}

	title := form.Field("title").Value
	body := form.Field("body").Value
	slug, err := s.uniqueSlug(r, title, body)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	post := model.Post{
		Title:    title,
		Slug:     slug,
		AuthorID: user.ID,
		Body:     body,
		Summary:  summarize(body),
	}
	if err := s.store.CreatePost(r.Context(), &post); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.redirectTo(w, r, routePost, url.Values{"id": {strconv.FormatInt(post.ID, 10)}})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.postFromPath(w, r)
	if !ok {
		return
	}
	s.renderPost(w, r, http.StatusOK, post, nil)
}

// renderPost shows a post with its paginated comments and, for commenters,
// the reply form.
func (s *Server) renderPost(w http.ResponseWriter, r *http.Request, status int, post model.Post, form *forms.Form) {
	ctx := r.Context()

	total, err := s.store.CountComments(ctx, post.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	cursor := view.Cursor{
		Page:    pageParam(r),
		PerPage: s.cfg.CommentsPerPage,
		Total:   total,
	}
	if cursor.Page > cursor.TotalPages() {
		cursor.Page = cursor.TotalPages()
	}

	comments, err := s.store.ListComments(ctx, post.ID, cursor.PerPage, cursor.Offset())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	widget, err := s.view.Widget(cursor, routePost,
		url.Values{"id": {strconv.FormatInt(post.ID, 10)}})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	formMarkup := ""
	if currentUser(r).Can(model.PermissionComment) {
		if form == nil {
			form = s.withCSRF(r, commentForm())
		}
		markup, ok := s.formHTML(w, r, form)
		if !ok {
			return
		}
		formMarkup = markup
	}

	title := post.Title
	if title == "" {
		title = "Post"
	}
	s.render(w, r, status, "post", map[string]any{
		"title":      view.PageTitle(title),
		"post":       post,
		"comments":   comments,
		"pagination": widget,
		"form":       formMarkup,
		"moderator":  currentUser(r).Can(model.PermissionModerate),
		"csrf_field": s.csrfFieldHTML(r),
	})
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	post, ok := s.postFromPath(w, r)
	if !ok {
		return
	}
	if !canModify(user, post.AuthorID) {
		s.forbidden(w)
		return
	}

	form := s.withCSRF(r, postForm())
	form.Field("title").Value = post.Title
	form.Field("body").Value = post.Body

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			s.serverError(w, r, err)
			return
		}
		form.Validate(r.PostForm)
		s.checkCSRF(r, form)
		if form.Valid() {
			post.Title = form.Field("title").Value
			post.Body = form.Field("body").Value
			post.Summary = summarize(post.Body)
			if err := s.store.UpdatePost(r.Context(), &post); err != nil {
				s.serverError(w, r, err)
				return
			}
			s.flash(r.Context(), "The post has been updated.")
			s.redirectTo(w, r, routePost, url.Values{"id": {strconv.FormatInt(post.ID, 10)}})
			return
		}
	}

	markup, ok := s.formHTML(w, r, form)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "edit_post", map[string]any{
		"title": view.PageTitle("Edit Post"),
		"post":  post,
		"form":  markup,
	})
}

// postFromPath loads the post addressed by the {id} path parameter, writing
// a 404 when absent.
func (s *Server) postFromPath(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.notFound(w)
		return model.Post{}, false
	}
	post, err := s.store.PostByID(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.notFound(w)
		return model.Post{}, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return model.Post{}, false
	}
	return post, true
}

// uniqueSlug derives a slug from the title, falling back to the body's first
// line, and suffixes a counter until the slug is free.
func (s *Server) uniqueSlug(r *http.Request, title, body string) (string, error) {
	base := model.Slugify(title)
	if base == "" {
		base = model.Slugify(firstLine(body))
	}
	if base == "" {
		base = "post"
	}

	slug := base
	for n := 2; ; n++ {
		_, err := s.store.PostBySlug(r.Context(), slug)
		if errors.Is(err, sqlite.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func canModify(user *model.User, authorID int64) bool {
	return user != nil && (user.ID == authorID || user.IsAdmin())
}

func firstLine(body string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	return line
}

const summaryLimit = 200

func summarize(body string) string {
	trimmed := strings.TrimSpace(body)
	runes := []rune(trimmed)
	if len(runes) <= summaryLimit {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:summaryLimit])) + "…"
}
