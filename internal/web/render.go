package web

import (
	"bytes"
	"html"
	"log"
	"net/http"
	"net/url"

	"github.com/MisterKipper/my-site/pkg/forms"
	"github.com/MisterKipper/my-site/pkg/view"
)

// render executes a page template inside the shared layout context: current
// user, queued flash messages, and the page title.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	if _, ok := data["title"]; !ok {
		data["title"] = view.SiteName
	}
	data["user"] = currentUser(r)
	data["flashes"] = s.popFlashes(r.Context())

	var buf bytes.Buffer
	if _, err := s.pages.RenderTemplate(name, data, &buf); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("web: write response: %v", err)
	}
}

// formHTML renders a form to markup for embedding in a page template.
func (s *Server) formHTML(w http.ResponseWriter, r *http.Request, form *forms.Form) (string, bool) {
	html, err := s.view.RenderForm(form)
	if err != nil {
		s.serverError(w, r, err)
		return "", false
	}
	return html, true
}

// withCSRF appends the anti-forgery token field bound to this session.
func (s *Server) withCSRF(r *http.Request, form *forms.Form) *forms.Form {
	if s.csrfDisabled {
		return form
	}
	form.Fields = append(form.Fields, s.csrf.HiddenField(s.sessions.SessionID(r.Context())))
	return form
}

// checkCSRF verifies the submitted token, attaching any failure to the hidden
// field so the form renderer surfaces it as a banner.
func (s *Server) checkCSRF(r *http.Request, form *forms.Form) bool {
	if s.csrfDisabled {
		return true
	}
	token := r.PostFormValue(forms.CSRFFieldName)
	if err := s.csrf.Verify(s.sessions.SessionID(r.Context()), token); err != nil {
		form.AddError(forms.CSRFFieldName, "The form expired. Please try again.")
		return false
	}
	return true
}

// csrfFieldHTML renders a bare hidden token input for hand-built template
// forms, such as the comment moderation toggle.
func (s *Server) csrfFieldHTML(r *http.Request) string {
	if s.csrfDisabled {
		return ""
	}
	token := s.csrf.Token(s.sessions.SessionID(r.Context()))
	return `<input type="hidden" name="` + forms.CSRFFieldName + `" value="` + html.EscapeString(token) + `">`
}

func (s *Server) redirectTo(w http.ResponseWriter, r *http.Request, route string, params url.Values) {
	target, err := URLFor(route, params)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("web: %s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) notFound(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func (s *Server) forbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
