package model

import (
	"regexp"
	"strings"
	"time"
)

// Post is a published entry. Slug is unique and addressable.
type Post struct {
	ID        int64
	Title     string
	Slug      string
	AuthorID  int64
	Author    *User
	Body      string
	Summary   string
	Timestamp time.Time
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a title: lowercase, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
