package jwks

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/require"
)

func genRSA(t *testing.T, kid string) (*rsa.PrivateKey, []byte) {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &pk.PublicKey, KeyID: kid, Algorithm: "RS256", Use: "sig"},
	}}
	b, err := json.Marshal(set)
	require.NoError(t, err)
	return pk, b
}

func TestKeySet_Find(t *testing.T) {
	set := KeySet{Keys: []SigningKey{
		{KeyType: "RSA", KeyID: "test-kid-1", Use: "sig", Algorithm: "RS256", N: "test-n", E: "AQAB"},
		{KeyType: "RSA", KeyID: "test-kid-2", Use: "sig", Algorithm: "RS256", N: "test-n-2", E: "AQAB"},
	}}

	k, ok := set.Find("test-kid-1")
	require.True(t, ok)
	require.Equal(t, set.Keys[0], k)

	k, ok = set.Find("test-kid-2")
	require.True(t, ok)
	require.Equal(t, set.Keys[1], k)

	_, ok = set.Find("non-existent-kid")
	require.False(t, ok)

	require.Equal(t, []string{"test-kid-1", "test-kid-2"}, set.KeyIDs())
}

func TestParseKeySet(t *testing.T) {
	pk, doc := genRSA(t, "k1")

	set, err := ParseKeySet(doc)
	require.NoError(t, err)
	require.Len(t, set.Keys, 1)

	k, ok := set.Find("k1")
	require.True(t, ok)
	require.Equal(t, "RSA", k.KeyType)
	require.Equal(t, "RS256", k.Algorithm)

	pub, err := k.PublicKey()
	require.NoError(t, err)
	require.True(t, pk.PublicKey.Equal(pub))
}

func TestParseKeySet_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `invalid json`,
		"missing keys":  `{"foo":[]}`,
		"keys not list": `{"keys":{}}`,
		"duplicate kid": `{"keys":[{"kty":"RSA","kid":"a","n":"AQAB","e":"AQAB"},{"kty":"RSA","kid":"a","n":"AQAB","e":"AQAB"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseKeySet([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestParseKeySet_EmptyKeysAllowed(t *testing.T) {
	set, err := ParseKeySet([]byte(`{"keys":[]}`))
	require.NoError(t, err)
	require.Empty(t, set.Keys)
}

func TestSigningKey_PublicKeyRejectsNonRSA(t *testing.T) {
	k := SigningKey{KeyType: "oct", KeyID: "sym", Algorithm: "HS256"}
	_, err := k.PublicKey()
	require.Error(t, err)

	k = SigningKey{KeyType: "RSA", KeyID: "broken", N: "!!!", E: "AQAB"}
	_, err = k.PublicKey()
	require.Error(t, err)
}
