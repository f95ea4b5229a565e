package jwtx

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session-token claims minted by the provider. We keep this
// additive to preserve compatibility with older token revisions.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session ID the token was minted for.
	SID string `json:"sid,omitempty"`
}

// IssuedAtUnix returns the iat claim in seconds, or 0 when absent.
func (c *Claims) IssuedAtUnix() int64 {
	if c.IssuedAt == nil {
		return 0
	}
	return c.IssuedAt.Unix()
}

// ValidateIssuerPrefix checks that the issuer starts with the provider's
// issuer domain. An empty prefix means "don't care".
func (c *Claims) ValidateIssuerPrefix(prefix string) error {
	if prefix == "" {
		return nil
	}

	if !strings.HasPrefix(c.Issuer, prefix) {
		return ErrIssuer
	}

	return nil
}

// Decode parses a token WITHOUT verifying its signature and returns the
// claims as-is. The result is untrusted: use it to recognise a token's shape
// before paying for real verification, never for an authorization decision.
// That's what Verifier.Verify is for.
func Decode(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &claims, nil
}
