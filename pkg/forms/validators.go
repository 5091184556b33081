package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator checks a bound field against the form it belongs to, returning a
// user-facing message on failure. Validators must not mutate the form.
type Validator func(form *Form, field *Field) error

// Required fails on empty input (or an unchecked checkbox).
func Required() Validator {
	return func(_ *Form, field *Field) error {
		if field.Kind == KindCheckbox {
			if !field.Checked {
				return errors.New("This field is required.")
			}
			return nil
		}
		if strings.TrimSpace(field.Value) == "" {
			return errors.New("This field is required.")
		}
		return nil
	}
}

// Length bounds the value's rune count. A max of 0 means unbounded above.
func Length(min, max int) Validator {
	return func(_ *Form, field *Field) error {
		length := utf8.RuneCountInString(field.Value)
		if length == 0 {
			// emptiness is Required's concern
			return nil
		}
		if length < min {
			return fmt.Errorf("Field must be at least %d characters long.", min)
		}
		if max > 0 && length > max {
			return fmt.Errorf("Field cannot be longer than %d characters.", max)
		}
		return nil
	}
}

// Email validates the value as an RFC 5322 address.
func Email() Validator {
	return func(_ *Form, field *Field) error {
		if field.Value == "" {
			return nil
		}
		if _, err := mail.ParseAddress(field.Value); err != nil {
			return errors.New("Invalid email address.")
		}
		return nil
	}
}

// Matches validates the whole value against pattern, reporting message on
// mismatch. The pattern is anchored.
func Matches(pattern, message string) Validator {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	return func(_ *Form, field *Field) error {
		if field.Value == "" {
			return nil
		}
		if !re.MatchString(field.Value) {
			return errors.New(message)
		}
		return nil
	}
}

// EqualTo requires the value to match another field's value.
func EqualTo(other string) Validator {
	return func(form *Form, field *Field) error {
		peer := form.Field(other)
		if peer == nil {
			return fmt.Errorf("Invalid field name %q.", other)
		}
		if field.Value != peer.Value {
			return fmt.Errorf("Field must be equal to %s.", other)
		}
		return nil
	}
}

// Check wraps an arbitrary predicate, reporting message when it returns
// false. Useful for uniqueness checks that consult storage.
func Check(predicate func(value string) bool, message string) Validator {
	return func(_ *Form, field *Field) error {
		if predicate == nil {
			return nil
		}
		if !predicate(field.Value) {
			return errors.New(message)
		}
		return nil
	}
}
