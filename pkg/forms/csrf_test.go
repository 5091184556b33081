package forms

import (
	"errors"
	"testing"
	"time"
)

func TestCSRFRoundTrip(t *testing.T) {
	csrf, err := NewCSRF([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}

	token := csrf.Token("session-1")
	if err := csrf.Verify("session-1", token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestCSRFRejectionCases(t *testing.T) {
	csrf, err := NewCSRF([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	token := csrf.Token("session-1")

	if err := csrf.Verify("session-2", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong session: got %v, want ErrTokenInvalid", err)
	}
	if err := csrf.Verify("session-1", "garbage!!"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("malformed token: got %v, want ErrTokenInvalid", err)
	}

	other, err := NewCSRF([]byte("different"), time.Hour)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	if err := other.Verify("session-1", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret: got %v, want ErrTokenInvalid", err)
	}
}

func TestCSRFExpiry(t *testing.T) {
	csrf, err := NewCSRF([]byte("secret"), time.Minute)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	issued := time.Now()
	csrf.now = func() time.Time { return issued }
	token := csrf.Token("session-1")

	csrf.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if err := csrf.Verify("session-1", token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestCSRFHiddenField(t *testing.T) {
	csrf, err := NewCSRF([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	field := csrf.HiddenField("session-1")
	if field.Name != CSRFFieldName || field.Kind != KindHidden {
		t.Fatalf("unexpected field: %+v", field)
	}
	if err := csrf.Verify("session-1", field.Value); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestNewCSRFRequiresSecret(t *testing.T) {
	if _, err := NewCSRF(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
