package config

import "testing"

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.PostsPerPage != 10 || cfg.CommentsPerPage != 10 {
		t.Fatalf("per-page defaults = %d/%d, want 10/10", cfg.PostsPerPage, cfg.CommentsPerPage)
	}
	if cfg.DatabasePath != "my-site.db" {
		t.Fatalf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("POSTS_PER_PAGE", "5")
	t.Setenv("ADMIN_EMAIL", "kyle@example.com")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv: %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.PostsPerPage != 5 || cfg.AdminEmail != "kyle@example.com" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParseEnvRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	if _, err := ParseEnv(); err == nil {
		t.Fatal("expected error without SECRET_KEY")
	}
}

func TestParseEnvRejectsNonPositivePageSizes(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("POSTS_PER_PAGE", "0")

	if _, err := ParseEnv(); err == nil {
		t.Fatal("expected error for zero page size")
	}
}
