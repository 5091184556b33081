package model

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Comment is a reader response on a post. ParentID threads replies; a
// disabled comment stays stored but is hidden from display. BodyHTML is
// derived from Body and is the only markup ever rendered.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Author    *User
	Body      string
	BodyHTML  string
	Disabled  bool
	Timestamp time.Time
	EditTime  time.Time
	ParentID  int64
}

// SetBody updates the comment text and regenerates the sanitized HTML.
func (c *Comment) SetBody(body string) {
	c.Body = body
	c.BodyHTML = RenderCommentBody(body)
}

var (
	commentPolicyOnce sync.Once
	commentPolicy     *bluemonday.Policy

	newlineRuns = regexp.MustCompile(`\n+`)
	bareURL     = regexp.MustCompile(`\bhttps?://[^\s<]+`)
)

// RenderCommentBody converts untrusted comment text into safe display HTML:
// all markup is stripped, blank-line runs become paragraph breaks, and bare
// URLs become links.
func RenderCommentBody(body string) string {
	cleaned := sanitizeComment(strings.TrimSpace(body))
	cleaned = newlineRuns.ReplaceAllString(cleaned, "</p><p>")
	cleaned = bareURL.ReplaceAllStringFunc(cleaned, func(href string) string {
		return `<a href="` + href + `" rel="nofollow">` + href + `</a>`
	})
	return "<p>" + cleaned + "</p>"
}

func sanitizeComment(raw string) string {
	commentPolicyOnce.Do(func() {
		commentPolicy = bluemonday.StrictPolicy()
	})
	return commentPolicy.Sanitize(raw)
}
