package view

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
)

// Cursor describes a position in a paginated listing. It is supplied by the
// storage layer and read-only for the duration of rendering.
type Cursor struct {
	// Page is the current page, 1-based.
	Page int
	// PerPage is the number of items on a full page.
	PerPage int
	// Total is the number of items across all pages.
	Total int
}

// PageRef is one entry in the windowed page sequence. A Gap entry stands for
// the pages elided between two windows and renders as an ellipsis.
type PageRef struct {
	Number int
	Gap    bool
}

// TotalPages returns the number of pages, at least 1.
func (c Cursor) TotalPages() int {
	if c.PerPage <= 0 || c.Total <= 0 {
		return 1
	}
	pages := (c.Total + c.PerPage - 1) / c.PerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (c Cursor) HasPrev() bool {
	return c.Page > 1
}

// HasNext reports whether a next page exists.
func (c Cursor) HasNext() bool {
	return c.Page < c.TotalPages()
}

// Offset returns the item offset of the current page for storage queries.
func (c Cursor) Offset() int {
	if c.Page <= 1 || c.PerPage <= 0 {
		return 0
	}
	return (c.Page - 1) * c.PerPage
}

// Window parameters for Pages. Zero values fall back to the defaults.
type Window struct {
	LeftEdge     int
	LeftCurrent  int
	RightCurrent int
	RightEdge    int
}

var defaultWindow = Window{LeftEdge: 2, LeftCurrent: 2, RightCurrent: 5, RightEdge: 2}

// Pages yields the page-number sequence to display: the left edge, a window
// around the current page, and the right edge, with a single Gap entry
// wherever consecutive numbers are elided.
func (c Cursor) Pages(window ...Window) []PageRef {
	win := defaultWindow
	if len(window) > 0 {
		win = window[0]
		if win.LeftEdge <= 0 {
			win.LeftEdge = defaultWindow.LeftEdge
		}
		if win.LeftCurrent <= 0 {
			win.LeftCurrent = defaultWindow.LeftCurrent
		}
		if win.RightCurrent <= 0 {
			win.RightCurrent = defaultWindow.RightCurrent
		}
		if win.RightEdge <= 0 {
			win.RightEdge = defaultWindow.RightEdge
		}
	}

	total := c.TotalPages()
	refs := make([]PageRef, 0, total)
	last := 0
	for num := 1; num <= total; num++ {
		inLeftEdge := num <= win.LeftEdge
		inCurrent := num > c.Page-win.LeftCurrent-1 && num < c.Page+win.RightCurrent
		inRightEdge := num > total-win.RightEdge
		if !inLeftEdge && !inCurrent && !inRightEdge {
			continue
		}
		if last+1 != num {
			refs = append(refs, PageRef{Gap: true})
		}
		refs = append(refs, PageRef{Number: num})
		last = num
	}
	return refs
}

// Widget renders the pagination navigation list for the cursor. Link targets
// are resolved through the renderer's URLResolver from the route name, the
// page number, and any extra parameters, which are preserved on every link.
func (r *Renderer) Widget(cursor Cursor, route string, extra url.Values) (string, error) {
	if r.urlFor == nil {
		return "", fmt.Errorf("view: pagination widget requires a URL resolver")
	}

	pageURL := func(page int) (string, error) {
		params := url.Values{}
		for key, values := range extra {
			for _, value := range values {
				params.Add(key, value)
			}
		}
		params.Set("page", strconv.Itoa(page))
		href, err := r.urlFor(route, params)
		if err != nil {
			return "", fmt.Errorf("view: resolve %q: %w", route, err)
		}
		return href, nil
	}

	var b strings.Builder
	b.WriteString("<nav aria-label=\"Page navigation\">\n<ul class=\"pagination\">\n")

	if cursor.HasPrev() {
		href, err := pageURL(cursor.Page - 1)
		if err != nil {
			return "", err
		}
		writePageLink(&b, href, "&laquo;", "")
	} else {
		writePageSpan(&b, "&laquo;", "disabled")
	}

	for _, ref := range cursor.Pages() {
		switch {
		case ref.Gap:
			writePageSpan(&b, "&hellip;", "disabled")
		case ref.Number == cursor.Page:
			href, err := pageURL(ref.Number)
			if err != nil {
				return "", err
			}
			writePageLink(&b, href, strconv.Itoa(ref.Number), "active")
		default:
			href, err := pageURL(ref.Number)
			if err != nil {
				return "", err
			}
			writePageLink(&b, href, strconv.Itoa(ref.Number), "")
		}
	}

	if cursor.HasNext() {
		href, err := pageURL(cursor.Page + 1)
		if err != nil {
			return "", err
		}
		writePageLink(&b, href, "&raquo;", "")
	} else {
		writePageSpan(&b, "&raquo;", "disabled")
	}

	b.WriteString("</ul>\n</nav>\n")
	return b.String(), nil
}

func writePageLink(b *strings.Builder, href, label, class string) {
	b.WriteString(`<li class="page-item`)
	if class != "" {
		b.WriteByte(' ')
		b.WriteString(class)
	}
	b.WriteString(`"><a class="page-link" href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`">`)
	b.WriteString(label)
	b.WriteString("</a></li>\n")
}

func writePageSpan(b *strings.Builder, label, class string) {
	b.WriteString(`<li class="page-item`)
	if class != "" {
		b.WriteByte(' ')
		b.WriteString(class)
	}
	b.WriteString(`"><span class="page-link">`)
	b.WriteString(label)
	b.WriteString("</span></li>\n")
}
