package edgeauth

import "strings"

const (
	DefaultCallbackPath = "/callback"
	DefaultLogoutPath   = "/logout"
	DefaultAPIPrefix    = "/api/"
)

// BypassPolicy lists the paths served without authentication.
type BypassPolicy struct {
	CallbackPath string
	LogoutPath   string
	APIPrefix    string
}

func DefaultBypassPolicy() BypassPolicy {
	return BypassPolicy{
		CallbackPath: DefaultCallbackPath,
		LogoutPath:   DefaultLogoutPath,
		APIPrefix:    DefaultAPIPrefix,
	}
}

// Exempt reports whether path skips authentication: an exact match on the
// callback or logout path, or any path under the API prefix. Empty fields
// match nothing.
func (p BypassPolicy) Exempt(path string) bool {
	switch {
	case p.CallbackPath != "" && path == p.CallbackPath:
		return true
	case p.LogoutPath != "" && path == p.LogoutPath:
		return true
	case p.APIPrefix != "" && strings.HasPrefix(path, p.APIPrefix):
		return true
	}
	return false
}
