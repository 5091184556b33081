package view

import (
	"strings"
	"testing"

	"github.com/MisterKipper/my-site/pkg/forms"
)

func TestRenderFieldTextLabelPrecedesControl(t *testing.T) {
	r := newTestRenderer(t)
	field := &forms.Field{Name: "username", Kind: forms.KindText, Label: "Username"}

	out, err := r.RenderField(field)
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}

	label := strings.Index(out, `<label for="field-username">Username</label>`)
	control := strings.Index(out, `<input class="form-control" type="text" id="field-username" name="username"`)
	if label < 0 {
		t.Fatalf("expected label markup, got:\n%s", out)
	}
	if control < 0 {
		t.Fatalf("expected input markup, got:\n%s", out)
	}
	if label > control {
		t.Fatalf("expected label before control, got:\n%s", out)
	}
	if !strings.Contains(out, `<div class="form-group">`) {
		t.Fatalf("expected form-group wrapper, got:\n%s", out)
	}
}

func TestRenderFieldCheckboxNestsControlInLabel(t *testing.T) {
	r := newTestRenderer(t)
	field := &forms.Field{Name: "remember_me", Kind: forms.KindCheckbox, Label: "Keep me logged in"}

	out, err := r.RenderField(field)
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}

	labelOpen := strings.Index(out, `<label class="form-check-label" for="field-remember_me">`)
	control := strings.Index(out, `<input class="form-check-input" type="checkbox"`)
	labelClose := strings.Index(out, "</label>")
	if labelOpen < 0 || control < 0 || labelClose < 0 {
		t.Fatalf("missing checkbox markup in:\n%s", out)
	}
	if !(labelOpen < control && control < labelClose) {
		t.Fatalf("expected control nested inside label, got:\n%s", out)
	}
	caption := strings.Index(out, "Keep me logged in")
	if !(control < caption && caption < labelClose) {
		t.Fatalf("expected caption after control inside label, got:\n%s", out)
	}
}

func TestRenderFieldCheckedCheckbox(t *testing.T) {
	r := newTestRenderer(t)
	field := &forms.Field{Name: "remember_me", Kind: forms.KindCheckbox, Label: "Keep me logged in", Checked: true}

	out, err := r.RenderField(field)
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if !strings.Contains(out, " checked") {
		t.Fatalf("expected checked attribute, got:\n%s", out)
	}
}

func TestRenderFieldSubmitHasNoLabel(t *testing.T) {
	r := newTestRenderer(t)
	field := &forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Log In"}

	out, err := r.RenderField(field)
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if strings.Contains(out, "<label") {
		t.Fatalf("submit control must not render a label:\n%s", out)
	}
	if !strings.Contains(out, `type="submit"`) || !strings.Contains(out, `value="Log In"`) {
		t.Fatalf("expected submit button markup, got:\n%s", out)
	}
}

func TestRenderFieldPasswordAndEmailTypes(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.RenderField(&forms.Field{Name: "password", Kind: forms.KindPassword, Label: "Password"})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if !strings.Contains(out, `type="password"`) {
		t.Fatalf("expected password input type, got:\n%s", out)
	}

	out, err = r.RenderField(&forms.Field{Name: "email", Kind: forms.KindEmail, Label: "Email"})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if !strings.Contains(out, `type="email"`) {
		t.Fatalf("expected email input type, got:\n%s", out)
	}
}

func TestRenderFieldErrorsBecomeDismissibleBanners(t *testing.T) {
	r := newTestRenderer(t)
	field := &forms.Field{
		Name:   "email",
		Kind:   forms.KindEmail,
		Label:  "Email",
		Errors: []string{"Email address already in use.", "Invalid email address."},
	}

	out, err := r.RenderField(field)
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}

	if got := strings.Count(out, `alert alert-danger alert-dismissible`); got != 2 {
		t.Fatalf("expected 2 error banners, got %d in:\n%s", got, out)
	}
	if got := strings.Count(out, "Email address already in use."); got != 1 {
		t.Fatalf("expected each error exactly once, got %d in:\n%s", got, out)
	}
	if !strings.Contains(out, `data-dismiss="alert"`) {
		t.Fatalf("expected dismiss control, got:\n%s", out)
	}
}

func TestHiddenFieldErrorsOnlyCoversHiddenFields(t *testing.T) {
	r := newTestRenderer(t)
	form := forms.New(
		&forms.Field{Name: "csrf_token", Kind: forms.KindHidden, Errors: []string{"The form expired."}},
		&forms.Field{Name: "email", Kind: forms.KindEmail, Label: "Email", Errors: []string{"Invalid email address."}},
	)

	out := r.HiddenFieldErrors(form)
	if !strings.Contains(out, "The form expired.") {
		t.Fatalf("expected hidden-field error banner, got:\n%s", out)
	}
	if strings.Contains(out, "Invalid email address.") {
		t.Fatalf("visible-field errors must not appear, got:\n%s", out)
	}
}

func TestRenderFormAssemblesHiddenThenVisible(t *testing.T) {
	r := newTestRenderer(t)
	form := forms.New(
		&forms.Field{Name: "csrf_token", Kind: forms.KindHidden, Value: "tok123", Errors: []string{"The form expired."}},
		&forms.Field{Name: "username", Kind: forms.KindText, Label: "Username"},
		&forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Go"},
	)

	out, err := r.RenderForm(form)
	if err != nil {
		t.Fatalf("RenderForm: %v", err)
	}

	if !strings.HasPrefix(out, `<form method="post" role="form">`) {
		t.Fatalf("expected form open tag first, got:\n%s", out)
	}
	hidden := strings.Index(out, `<input type="hidden" name="csrf_token" value="tok123">`)
	banner := strings.Index(out, "The form expired.")
	visible := strings.Index(out, `name="username"`)
	if hidden < 0 || banner < 0 || visible < 0 {
		t.Fatalf("missing form sections in:\n%s", out)
	}
	if !(hidden < banner && banner < visible) {
		t.Fatalf("expected hidden inputs, then hidden-field banners, then visible fields:\n%s", out)
	}
	if got := strings.Count(out, "The form expired."); got != 1 {
		t.Fatalf("hidden-field error must appear exactly once, got %d:\n%s", got, out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</form>") {
		t.Fatalf("expected closing form tag, got:\n%s", out)
	}
}

func TestRenderControlUsesThemePartialOverride(t *testing.T) {
	override, err := New(
		WithURLResolver(testResolver),
		WithTheme(&Theme{
			Name:     "junk",
			Partials: map[string]string{"controls/input": "controls/textarea"},
		}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := override.RenderField(&forms.Field{Name: "bio", Kind: forms.KindText, Label: "Bio"})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if !strings.Contains(out, "<textarea") {
		t.Fatalf("expected theme override to swap the control template, got:\n%s", out)
	}
}
