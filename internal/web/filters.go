package web

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MisterKipper/my-site/pkg/view/template"
)

// pongo2 filters are process-global, so registration happens once even when
// tests build several servers.
var urlFilterOnce sync.Once

func registerTemplateFilters(engine template.Renderer) error {
	var err error
	urlFilterOnce.Do(func() {
		err = engine.RegisterFilter("url", urlFilter)
	})
	return err
}

// urlFilter expands a named route inside a template. The optional parameter
// fills the route's single path placeholder, so "user"|url:"brian" yields
// /user/brian.
func urlFilter(input any, param any) (any, error) {
	route, ok := input.(string)
	if !ok {
		return nil, fmt.Errorf("web: url filter needs a route name, got %T", input)
	}
	params := url.Values{}
	if param != nil {
		name := placeholderName(routePatterns[route])
		if name == "" {
			return nil, fmt.Errorf("web: route %q takes no parameter", route)
		}
		params.Set(name, fmt.Sprint(param))
	}
	return URLFor(route, params)
}

func placeholderName(pattern string) string {
	start := strings.IndexByte(pattern, '{')
	end := strings.IndexByte(pattern, '}')
	if start < 0 || end <= start {
		return ""
	}
	return pattern[start+1 : end]
}
