package edgeauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBypassPolicy_Exempt(t *testing.T) {
	p := DefaultBypassPolicy()
	cases := map[string]bool{
		"/callback":        true,
		"/logout":          true,
		"/api/":            true,
		"/api/users":       true,
		"/api/v1/items/42": true,
		"/":                false,
		"/index.html":      false,
		"/callback/extra":  false,
		"/logout?x=1":      false,
		"/api":             false,
		"/apis/x":          false,
		"/CALLBACK":        false,
	}
	for path, want := range cases {
		require.Equal(t, want, p.Exempt(path), path)
	}
}

func TestBypassPolicy_EmptyFieldsMatchNothing(t *testing.T) {
	var p BypassPolicy
	require.False(t, p.Exempt(""))
	require.False(t, p.Exempt("/"))
	require.False(t, p.Exempt("/api/x"))
}
