package model

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Mixed CASE & symbols! ", "mixed-case-symbols"},
		{"already-slugged", "already-slugged"},
		{"___", ""},
		{"", ""},
		{"100% true", "100-true"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
