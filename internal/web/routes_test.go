package web

import (
	"net/url"
	"strings"
	"testing"
)

func TestURLFor(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		params url.Values
		want   string
	}{
		{name: "index", route: routeIndex, want: "/"},
		{name: "path param", route: routePost, params: url.Values{"id": {"7"}}, want: "/post/7"},
		{name: "escapes param", route: routeUser, params: url.Values{"username": {"a b"}}, want: "/user/a%20b"},
		{
			name:   "leftover params become query",
			route:  routeUser,
			params: url.Values{"username": {"brian"}, "page": {"3"}},
			want:   "/user/brian?page=3",
		},
		{name: "static route", route: routeLogin, want: "/auth/login"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := URLFor(tc.route, tc.params)
			if err != nil {
				t.Fatalf("URLFor: %v", err)
			}
			if got != tc.want {
				t.Fatalf("URLFor(%q) = %q, want %q", tc.route, got, tc.want)
			}
		})
	}
}

func TestURLForUnknownRoute(t *testing.T) {
	if _, err := URLFor("nope", nil); err == nil {
		t.Fatal("expected error for unknown route")
	}
}

func TestURLForMissingParam(t *testing.T) {
	_, err := URLFor(routePost, nil)
	if err == nil || !strings.Contains(err.Error(), "missing parameter") {
		t.Fatalf("got %v, want missing parameter error", err)
	}
}

func TestURLFilter(t *testing.T) {
	got, err := urlFilter("post", 12)
	if err != nil {
		t.Fatalf("urlFilter: %v", err)
	}
	if got != "/post/12" {
		t.Fatalf("got %v, want /post/12", got)
	}

	got, err = urlFilter("index", nil)
	if err != nil {
		t.Fatalf("urlFilter: %v", err)
	}
	if got != "/" {
		t.Fatalf("got %v, want /", got)
	}

	if _, err := urlFilter("login", "extra"); err == nil {
		t.Fatal("expected error for parameter on static route")
	}
	if _, err := urlFilter(42, nil); err == nil {
		t.Fatal("expected error for non-string route")
	}
}

func TestPlaceholderName(t *testing.T) {
	if got := placeholderName("/post/{id}"); got != "id" {
		t.Fatalf("got %q, want id", got)
	}
	if got := placeholderName("/auth/login"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
