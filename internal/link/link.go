// Package link composes the shareable link, persists it to the link file,
// and watches that file for external navigation.
//
// The link file is the Go-side stand-in for a browser location bar: our
// commit path rewrites it, and any write we did not make ourselves (a
// pasted link, a sync tool, back/forward restore) is treated as navigation
// and surfaced as a link.navigated event.
package link

import "strings"

// Navigation is the payload of a link.navigated event.
type Navigation struct {
	// Token is the fragment token of the new link. Empty means the link
	// carries no shared content.
	Token string
}

// Compose builds the shareable URL from a base and a fragment token.
// An empty token yields the bare base URL.
func Compose(base, token string) string {
	if token == "" {
		return base
	}
	return base + "#" + token
}

// Split separates a URL into its base and fragment token. A URL with no
// fragment yields an empty token.
func Split(url string) (base, token string) {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[:i], url[i+1:]
	}
	return url, ""
}
