package jwtx_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/authlane/authlane-go/pkg/jwtx"
)

const testIssuer = "https://authlane.myapp.example.com"

// jwksServer serves a JWKS for the given keys and counts fetches.
type jwksServer struct {
	*httptest.Server
	fetches atomic.Int64
}

func newJWKSServer(t *testing.T, keys map[string]*rsa.PublicKey) *jwksServer {
	t.Helper()

	s := &jwksServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)

		var jwks jwtx.JWKS
		for kid, pub := range keys {
			jwks.Keys = append(jwks.Keys, jwtx.JWK{
				Kty: "RSA",
				Use: "sig",
				Alg: "RS256",
				Kid: kid,
				N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			})
		}
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(s.Close)
	return s
}

func TestRemoteVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &key.PublicKey})
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	token := signToken(t, key, "key-1", testClaims(testIssuer, time.Now().UTC()))

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user_1", claims.Subject)
	require.Equal(t, "sess_1", claims.SID)
	require.Equal(t, testIssuer, claims.Issuer)
}

func TestRemoteVerifyCachesKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &key.PublicKey})
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	token := signToken(t, key, "key-1", testClaims(testIssuer, time.Now().UTC()))

	// Same valid token twice: identical claims, at most one key fetch.
	first, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	second, err := v.Verify(context.Background(), token)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int64(1), srv.fetches.Load())
}

func TestRemoteVerifyRefetchesExpiredKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &key.PublicKey})

	now := time.Now().UTC()
	cache := jwtx.NewKeyCache(time.Hour)
	cache.SetClock(func() time.Time { return now })

	v := jwtx.NewRemoteVerifier(srv.URL, "test_key", jwtx.WithKeyCache(cache))

	token := signToken(t, key, "key-1", testClaims(testIssuer, now))

	_, err = v.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(1), srv.fetches.Load())

	// Advance past the max-age: the next verify must refetch.
	now = now.Add(2 * time.Hour)

	_, err = v.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(2), srv.fetches.Load())
}

func TestRemoteVerifyRejectsWrongIssuer(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &key.PublicKey})
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	// Validly signed, but not our issuer domain.
	token := signToken(t, key, "key-1", testClaims("https://evil.example.com", time.Now().UTC()))

	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestRemoteVerifyRejectsWrongKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	// The server publishes a different key under the same kid.
	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &otherKey.PublicKey})
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	token := signToken(t, key, "key-1", testClaims(testIssuer, time.Now().UTC()))

	_, err = v.Verify(context.Background(), token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestRemoteVerifyRejectsUnknownKID(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &key.PublicKey})
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	token := signToken(t, key, "key-other", testClaims(testIssuer, time.Now().UTC()))

	_, err = v.Verify(context.Background(), token)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}

func TestRemoteVerifyRejectsMissingKID(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := newJWKSServer(t, map[string]*rsa.PublicKey{"key-1": &key.PublicKey})
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	token := signToken(t, key, "", testClaims(testIssuer, time.Now().UTC()))

	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestRemoteVerifyRejectsDisallowedAlg(t *testing.T) {
	srv := newJWKSServer(t, nil)
	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")

	// HS256 isn't in the allow-list, so this must fail before any key work.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims(testIssuer, time.Now().UTC()))
	token.Header["kid"] = "key-1"
	signed, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	require.Error(t, err)
	require.Equal(t, int64(0), srv.fetches.Load())
}

func TestRemoteVerifyKeyLookupFailure(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	v := jwtx.NewRemoteVerifier(srv.URL, "test_key")
	token := signToken(t, key, "key-1", testClaims(testIssuer, time.Now().UTC()))

	_, err = v.Verify(context.Background(), token)
	require.ErrorIs(t, err, jwtx.ErrKeyLookup)
}

func TestRemoteFetchAuthorization(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var gotAuthz string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthz = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{{
			Kty: "RSA",
			Kid: "key-1",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   "AQAB",
		}}})
	}))
	t.Cleanup(srv.Close)

	v := jwtx.NewRemoteVerifier(srv.URL, "test_secret")
	token := signToken(t, key, "key-1", testClaims(testIssuer, time.Now().UTC()))

	_, err = v.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "Bearer test_secret", gotAuthz)
}
