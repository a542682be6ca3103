package edgeauth

import (
	"net/url"
	"strings"
)

const (
	// NoStore keeps browsers and intermediaries from caching the redirect.
	NoStore = "no-cache, no-store, must-revalidate"

	loginScope = "openid+email+profile"
)

// RedirectResponder builds the response sending a caller to the hosted login.
type RedirectResponder struct {
	LoginURL    string
	ClientID    string
	CallbackURL string
}

// Location is the login URL with the authorization-code query attached.
func (r RedirectResponder) Location() string {
	var b strings.Builder
	b.WriteString(r.LoginURL)
	b.WriteString("?client_id=")
	b.WriteString(url.QueryEscape(r.ClientID))
	b.WriteString("&response_type=code&scope=")
	b.WriteString(loginScope)
	b.WriteString("&redirect_uri=")
	b.WriteString(escapeComponent(r.CallbackURL))
	return b.String()
}

func (r RedirectResponder) Build() *Response {
	return &Response{
		Status:            "302",
		StatusDescription: "Found",
		Headers: Headers{
			"location":      {{Key: "Location", Value: r.Location()}},
			"cache-control": {{Key: "Cache-Control", Value: NoStore}},
		},
	}
}

// componentUnescapes maps QueryEscape output back for the characters that
// URI-component encoding leaves as-is. Spaces become %20.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s for use as a query value the way
// browsers' encodeURIComponent does.
func escapeComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}
