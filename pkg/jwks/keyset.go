// Package jwks fetches, parses and caches published JSON Web Key Sets.
//
// A Cache holds at most one Entry per source URL. Entries are immutable and
// are swapped whole on refresh, so concurrent readers see either the old or
// the new key set, never a mix of both.
package jwks

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
)

// SigningKey is a single published verification key.
type SigningKey struct {
	KeyType   string `json:"kty"`
	KeyID     string `json:"kid"`
	Use       string `json:"use,omitempty"`
	Algorithm string `json:"alg,omitempty"`
	N         string `json:"n,omitempty"`
	E         string `json:"e,omitempty"`
}

// KeySet is the ordered collection of keys served at a JWKS endpoint.
type KeySet struct {
	Keys []SigningKey `json:"keys"`
}

// Find returns the key with the given id. A missing key is not an error;
// the caller decides how to treat it.
func (s KeySet) Find(kid string) (SigningKey, bool) {
	for _, k := range s.Keys {
		if k.KeyID == kid {
			return k, true
		}
	}
	return SigningKey{}, false
}

// KeyIDs lists the key ids in publication order.
func (s KeySet) KeyIDs() []string {
	out := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		out = append(out, k.KeyID)
	}
	return out
}

// PublicKey decodes the key material into an RSA public key.
func (k SigningKey) PublicKey() (*rsa.PublicKey, error) {
	raw, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("jwks: key %q: %w", k.KeyID, err)
	}
	pub, ok := jwk.Key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("jwks: key %q is not an RSA public key", k.KeyID)
	}
	return pub, nil
}

// ParseKeySet decodes a JWKS document. The document must carry a "keys"
// array and key ids must be unique within it.
func ParseKeySet(b []byte) (KeySet, error) {
	var doc struct {
		Keys *[]SigningKey `json:"keys"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return KeySet{}, err
	}
	if doc.Keys == nil {
		return KeySet{}, errors.New(`missing "keys" array`)
	}
	seen := make(map[string]struct{}, len(*doc.Keys))
	for _, k := range *doc.Keys {
		if _, dup := seen[k.KeyID]; dup {
			return KeySet{}, fmt.Errorf("duplicate kid %q", k.KeyID)
		}
		seen[k.KeyID] = struct{}{}
	}
	return KeySet{Keys: *doc.Keys}, nil
}
