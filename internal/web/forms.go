package web

import (
	"context"
	"errors"

	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/pkg/forms"
)

// usernamePattern matches the account-name rule: a letter followed by
// letters, digits, dots, or underscores.
const usernamePattern = `[A-Za-z][A-Za-z0-9_.]*`

func loginForm() *forms.Form {
	return forms.New(
		&forms.Field{
			Name:       "username",
			Kind:       forms.KindText,
			Label:      "Username",
			Required:   true,
			Validators: []forms.Validator{forms.Required(), forms.Length(1, 64)},
		},
		&forms.Field{
			Name:       "password",
			Kind:       forms.KindPassword,
			Label:      "Password",
			Required:   true,
			Validators: []forms.Validator{forms.Required()},
		},
		&forms.Field{
			Name:  "remember_me",
			Kind:  forms.KindCheckbox,
			Label: "Keep me logged in",
		},
		&forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Log In"},
	)
}

func registrationForm(ctx context.Context, store *sqlite.Store) *forms.Form {
	emailFree := func(value string) bool {
		_, err := store.UserByEmail(ctx, value)
		return errors.Is(err, sqlite.ErrNotFound)
	}
	usernameFree := func(value string) bool {
		_, err := store.UserByUsername(ctx, value)
		return errors.Is(err, sqlite.ErrNotFound)
	}

	return forms.New(
		&forms.Field{
			Name:     "email",
			Kind:     forms.KindEmail,
			Label:    "Email",
			Required: true,
			Validators: []forms.Validator{
				forms.Required(),
				forms.Length(1, 64),
				forms.Email(),
				forms.Check(emailFree, "Email address already in use."),
			},
		},
		&forms.Field{
			Name:     "username",
			Kind:     forms.KindText,
			Label:    "Username",
			Required: true,
			Validators: []forms.Validator{
				forms.Required(),
				forms.Length(1, 64),
				forms.Matches(usernamePattern,
					"Usernames must have only letters, numbers, dots or underscores"),
				forms.Check(usernameFree, "Username already in use."),
			},
		},
		&forms.Field{
			Name:       "password",
			Kind:       forms.KindPassword,
			Label:      "Password",
			Required:   true,
			Validators: []forms.Validator{forms.Required()},
		},
		&forms.Field{
			Name:       "password2",
			Kind:       forms.KindPassword,
			Label:      "Confirm password",
			Required:   true,
			Validators: []forms.Validator{forms.Required(), forms.EqualTo("password")},
		},
		&forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Register"},
	)
}

func postForm() *forms.Form {
	return forms.New(
		&forms.Field{
			Name:       "title",
			Kind:       forms.KindText,
			Label:      "Title",
			Validators: []forms.Validator{forms.Length(0, 128)},
		},
		&forms.Field{
			Name:        "body",
			Kind:        forms.KindTextArea,
			Label:       "What's on your mind?",
			Required:    true,
			Validators:  []forms.Validator{forms.Required()},
			Placeholder: "Write something",
		},
		&forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Submit"},
	)
}

func commentForm() *forms.Form {
	return forms.New(
		&forms.Field{
			Name:       "body",
			Kind:       forms.KindTextArea,
			Label:      "Enter your comment",
			Required:   true,
			Validators: []forms.Validator{forms.Required()},
		},
		&forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Submit"},
	)
}

func editProfileForm() *forms.Form {
	return forms.New(
		&forms.Field{
			Name:       "name",
			Kind:       forms.KindText,
			Label:      "Real name",
			Validators: []forms.Validator{forms.Length(0, 64)},
		},
		&forms.Field{
			Name:       "location",
			Kind:       forms.KindText,
			Label:      "Location",
			Validators: []forms.Validator{forms.Length(0, 64)},
		},
		&forms.Field{
			Name:  "about_me",
			Kind:  forms.KindTextArea,
			Label: "About me",
		},
		&forms.Field{Name: "submit", Kind: forms.KindSubmit, Label: "Save"},
	)
}
