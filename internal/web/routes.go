package web

import (
	"fmt"
	"net/url"
	"strings"
)

// Named routes. Handlers and templates build links through URLFor so paths
// live in one place.
const (
	routeIndex           = "index"
	routePost            = "post"
	routeEditPost        = "edit_post"
	routeEditComment     = "edit_comment"
	routeReplyComment    = "reply_comment"
	routeModerateComment = "moderate_comment"
	routeUser            = "user"
	routeEditProfile     = "edit_profile"
	routeRegister        = "register"
	routeLogin           = "login"
	routeLogout          = "logout"
	routeActivate        = "activate"
)

var routePatterns = map[string]string{
	routeIndex:           "/",
	routePost:            "/post/{id}",
	routeEditPost:        "/post/edit/{id}",
	routeEditComment:     "/comment/edit/{id}",
	routeReplyComment:    "/comment/reply/{id}",
	routeModerateComment: "/comment/moderate/{id}",
	routeUser:            "/user/{username}",
	routeEditProfile:     "/edit-profile",
	routeRegister:        "/auth/register",
	routeLogin:           "/auth/login",
	routeLogout:          "/auth/logout",
	routeActivate:        "/auth/activate/{token}",
}

// URLFor expands a named route. Params matching a path placeholder fill the
// path; the rest become the query string.
func URLFor(route string, params url.Values) (string, error) {
	pattern, ok := routePatterns[route]
	if !ok {
		return "", fmt.Errorf("web: unknown route %q", route)
	}

	query := url.Values{}
	for key, vals := range params {
		query[key] = append([]string(nil), vals...)
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := seg[1 : len(seg)-1]
		value := query.Get(name)
		if value == "" {
			return "", fmt.Errorf("web: route %q missing parameter %q", route, name)
		}
		segments[i] = url.PathEscape(value)
		query.Del(name)
	}

	path := strings.Join(segments, "/")
	if path == "" {
		path = "/"
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path, nil
}
