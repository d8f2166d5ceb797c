package validation

import (
	"net/url"
	"strings"
)

// SafeRedirect validates a client-supplied "next" URL against the requesting
// host before it is used as a redirect target. Relative paths are allowed;
// absolute URLs must match the request host and use http(s), with https
// required when the request itself was secure. It returns the cleaned target
// and whether it is safe to use.
func SafeRedirect(next, requestHost string, requireHTTPS bool) (string, bool) {
	next = strings.TrimSpace(next)
	if next == "" {
		return "", false
	}
	// Backslashes are treated as slashes by some browsers; reject outright.
	if strings.Contains(next, "\\") {
		return "", false
	}
	// Scheme-relative URLs ("//evil.com") escape the origin.
	if strings.HasPrefix(next, "//") {
		return "", false
	}

	u, err := url.Parse(next)
	if err != nil {
		return "", false
	}

	if u.Scheme == "" && u.Host == "" {
		// Relative target; require an absolute path so "next=evil.com"
		// cannot resolve against the current path.
		if !strings.HasPrefix(u.Path, "/") {
			return "", false
		}
		return next, true
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if requireHTTPS && u.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(u.Host, requestHost) {
		return "", false
	}
	return next, true
}
