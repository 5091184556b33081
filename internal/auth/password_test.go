package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("abc")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "abc" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "abc") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "xyz") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPassword("abc")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("abc")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}
