package jwtx

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultFetchTimeout bounds a single key-set retrieval. The provider's
// network layer budgets about five seconds for this call.
const DefaultFetchTimeout = 5 * time.Second

// RemoteVerifier validates session tokens against the provider's remote key
// set. Keys are fetched lazily by kid and cached (see KeyCache); a verify
// whose kid is already cached never touches the network.
type RemoteVerifier struct {
	jwksURL      string
	apiKey       string
	algs         []string
	issuerPrefix string
	cache        *KeyCache
	httpClient   *http.Client
}

// RemoteVerifierOption tweaks a RemoteVerifier at construction time.
type RemoteVerifierOption func(*RemoteVerifier)

// WithAlgorithms replaces the signature algorithm allow-list.
func WithAlgorithms(algs ...string) RemoteVerifierOption {
	return func(v *RemoteVerifier) { v.algs = algs }
}

// WithIssuerPrefix replaces the expected issuer domain prefix.
func WithIssuerPrefix(prefix string) RemoteVerifierOption {
	return func(v *RemoteVerifier) { v.issuerPrefix = prefix }
}

// WithKeyCache injects the cache instance. Tests use this to control the
// clock and observe entries.
func WithKeyCache(cache *KeyCache) RemoteVerifierOption {
	return func(v *RemoteVerifier) { v.cache = cache }
}

// WithHTTPClient replaces the HTTP client used for key-set retrieval.
func WithHTTPClient(client *http.Client) RemoteVerifierOption {
	return func(v *RemoteVerifier) { v.httpClient = client }
}

// NewRemoteVerifier creates a verifier backed by the JWKS endpoint at
// jwksURL. The apiKey authorizes the key-set fetch.
func NewRemoteVerifier(jwksURL, apiKey string, opts ...RemoteVerifierOption) *RemoteVerifier {
	v := &RemoteVerifier{
		jwksURL:      jwksURL,
		apiKey:       apiKey,
		algs:         DefaultAlgorithms,
		issuerPrefix: DefaultIssuerPrefix,
		cache:        NewKeyCache(DefaultKeyMaxAge),
		httpClient:   &http.Client{Timeout: DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates the token's signature against the remote key set and
// checks the issuer. All failure modes, bad signature, wrong issuer,
// unknown kid, key fetch trouble, come back as a non-nil error; callers
// must not try to tell them apart for the authentication decision.
func (v *RemoteVerifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(v.algs))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// Need the kid to know which key to use
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}
		return v.signingKey(ctx, kid)
	})
	if err != nil {
		// Surface key-lookup trouble under its own sentinel, everything
		// else is an invalid token as far as callers are concerned.
		if errors.Is(err, ErrKeyLookup) || errors.Is(err, ErrUnknownKID) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSig, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSig
	}

	if err := claims.ValidateIssuerPrefix(v.issuerPrefix); err != nil {
		return nil, err
	}

	return claims, nil
}

// signingKey returns the public key for kid, refreshing the cache from the
// remote key set on a miss or an expired entry.
func (v *RemoteVerifier) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := v.cache.Get(kid); ok {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		return nil, err
	}

	key, ok := v.cache.Get(kid)
	if !ok {
		return nil, ErrUnknownKID
	}
	return key, nil
}

// refreshKeys fetches the full key set and stores every RSA key. The fetch
// happens outside the cache's lock, so a slow provider can't stall verifies
// that already have their key cached.
func (v *RemoteVerifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyLookup, err)
	}
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrKeyLookup, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: %w", ErrKeyLookup, err)
	}

	for _, jwk := range jwks.Keys {
		if jwk.Kty != "RSA" || jwk.Kid == "" {
			continue
		}
		key, err := jwk.ParseRSA()
		if err != nil {
			continue
		}
		v.cache.Put(jwk.Kid, key)
	}

	return nil
}
