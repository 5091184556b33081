package forms

import (
	"net/url"
	"strings"
)

// Kind is the simplified enum for form-friendly field kinds. The view layer
// branches on it to decide label placement and control markup.
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindEmail    Kind = "email"
	KindTextArea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
	KindSubmit   Kind = "submit"
	KindHidden   Kind = "hidden"
)

// Field models an individual input inside a form. Values and errors are
// request-scoped; definitions construct fresh Field instances per request.
type Field struct {
	Name        string
	Kind        Kind
	Label       string
	Value       string
	Checked     bool
	Placeholder string
	Required    bool
	Validators  []Validator
	Errors      []string
	Attrs       map[string]string
}

// Hidden reports whether the field is excluded from visible display, such as
// an anti-forgery token.
func (f *Field) Hidden() bool {
	return f.Kind == KindHidden
}

// AddError appends a validation message, skipping blanks and duplicates.
func (f *Field) AddError(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	for _, existing := range f.Errors {
		if existing == message {
			return
		}
	}
	f.Errors = append(f.Errors, message)
}

// Form is an ordered collection of fields. It is handed to the view layer
// already validated; rendering never mutates it.
type Form struct {
	Fields []*Field
}

// New assembles a form from the given fields, dropping nils.
func New(fields ...*Field) *Form {
	form := &Form{Fields: make([]*Field, 0, len(fields))}
	for _, field := range fields {
		if field == nil {
			continue
		}
		form.Fields = append(form.Fields, field)
	}
	return form
}

// Field returns the named field, or nil when absent.
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// VisibleFields returns the fields meant for display, in declaration order.
func (f *Form) VisibleFields() []*Field {
	out := make([]*Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		if field.Hidden() {
			continue
		}
		out = append(out, field)
	}
	return out
}

// HiddenFields returns the non-displayed fields, in declaration order.
func (f *Form) HiddenFields() []*Field {
	out := make([]*Field, 0, 2)
	for _, field := range f.Fields {
		if field.Hidden() {
			out = append(out, field)
		}
	}
	return out
}

// Errors maps field names to their ordered error messages. Fields without
// errors are omitted.
func (f *Form) Errors() map[string][]string {
	out := make(map[string][]string)
	for _, field := range f.Fields {
		if len(field.Errors) == 0 {
			continue
		}
		out[field.Name] = append([]string(nil), field.Errors...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AddError attaches a message to the named field. Unknown names are ignored
// so callers can report collaborator failures without guarding.
func (f *Form) AddError(name, message string) {
	if field := f.Field(name); field != nil {
		field.AddError(message)
	}
}

// Bind populates field values from submitted form data. Checkbox fields
// follow browser semantics: present means checked.
func (f *Form) Bind(values url.Values) {
	for _, field := range f.Fields {
		switch field.Kind {
		case KindCheckbox:
			field.Checked = values.Has(field.Name)
		case KindSubmit:
			// submit controls carry no data
		default:
			field.Value = values.Get(field.Name)
		}
	}
}

// Validate binds the submitted values, clears prior errors, and runs every
// field's validators in order. It reports whether the form is valid.
func (f *Form) Validate(values url.Values) bool {
	f.Bind(values)
	for _, field := range f.Fields {
		field.Errors = nil
	}

	valid := true
	for _, field := range f.Fields {
		for _, validator := range field.Validators {
			if validator == nil {
				continue
			}
			if err := validator(f, field); err != nil {
				field.AddError(err.Error())
				valid = false
			}
		}
	}
	return valid
}

// Valid reports whether no field carries errors, without re-running
// validation.
func (f *Form) Valid() bool {
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			return false
		}
	}
	return true
}
