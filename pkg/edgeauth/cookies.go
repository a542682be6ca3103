package edgeauth

import "strings"

// DefaultTokenCookies are checked in priority order.
var DefaultTokenCookies = []string{"id_token", "access_token"}

// TokenExtractor pulls a bearer token out of a request.
type TokenExtractor interface {
	Extract(req *Request) (string, bool)
}

// CookieExtractor reads the token from named cookies. The first name in
// Names with a non-empty value wins; within a name the first occurrence wins.
type CookieExtractor struct {
	Names []string
}

func NewCookieExtractor() *CookieExtractor {
	return &CookieExtractor{Names: DefaultTokenCookies}
}

func (e *CookieExtractor) Extract(req *Request) (string, bool) {
	pairs := parseCookies(req.Cookies())
	if len(pairs) == 0 {
		return "", false
	}
	for _, name := range e.Names {
		for _, p := range pairs {
			if p.name == name && p.value != "" {
				return p.value, true
			}
		}
	}
	return "", false
}

type cookiePair struct {
	name, value string
}

// parseCookies splits header values on ';' and each pair on its first '='.
// Pairs without '=' or with an empty name are dropped.
func parseCookies(headers []string) []cookiePair {
	var out []cookiePair
	for _, h := range headers {
		for _, part := range strings.Split(h, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok {
				continue
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			out = append(out, cookiePair{name: name, value: strings.TrimSpace(value)})
		}
	}
	return out
}
