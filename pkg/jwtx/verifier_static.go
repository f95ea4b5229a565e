package jwtx

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// StaticVerifier validates session tokens against one preconfigured public
// key. No remote call, no cache; the alternative to RemoteVerifier for
// deployments that pin the provider's key material at startup.
type StaticVerifier struct {
	key          *rsa.PublicKey
	algs         []string
	issuerPrefix string
}

// StaticVerifierOption tweaks a StaticVerifier at construction time.
type StaticVerifierOption func(*StaticVerifier)

// WithStaticAlgorithms replaces the signature algorithm allow-list.
func WithStaticAlgorithms(algs ...string) StaticVerifierOption {
	return func(v *StaticVerifier) { v.algs = algs }
}

// WithStaticIssuerPrefix replaces the expected issuer domain prefix.
func WithStaticIssuerPrefix(prefix string) StaticVerifierOption {
	return func(v *StaticVerifier) { v.issuerPrefix = prefix }
}

// NewStaticVerifier builds a verifier from a base64url RSA modulus as handed
// out in the provider dashboard. An empty exponent means the usual 65537.
func NewStaticVerifier(modulus, exponent string, opts ...StaticVerifierOption) (*StaticVerifier, error) {
	key, err := ParseRSAPublicKey(modulus, exponent)
	if err != nil {
		return nil, err
	}
	return NewStaticVerifierFromKey(key, opts...), nil
}

// NewStaticVerifierFromKey builds a verifier around an already-parsed key.
func NewStaticVerifierFromKey(key *rsa.PublicKey, opts ...StaticVerifierOption) *StaticVerifier {
	v := &StaticVerifier{
		key:          key,
		algs:         DefaultAlgorithms,
		issuerPrefix: DefaultIssuerPrefix,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates the token's signature with the pinned key and checks the
// issuer. Same contract as RemoteVerifier.Verify.
func (v *StaticVerifier) Verify(_ context.Context, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(v.algs))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
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
