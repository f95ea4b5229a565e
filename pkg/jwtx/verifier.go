package jwtx

import (
	"context"
	"errors"
)

// Verifier validates a session token and gives you back the claims if it's
// legit. Implementations differ in where the verification key comes from
// (remote key set vs a statically configured key), never in what they
// guarantee: a nil error means the signature AND the issuer both checked out.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrKeyLookup   = errors.New("jwtx: key lookup failed")
)

// DefaultIssuerPrefix is the issuer domain prefix every verified token must
// carry. Tokens minted by the provider always use an issuer of the form
// https://authlane.<instance>, so anything else is treated exactly like a bad
// signature.
const DefaultIssuerPrefix = "https://authlane."

// DefaultAlgorithms is the signature algorithm allow-list applied when a
// verifier is constructed without an explicit one.
var DefaultAlgorithms = []string{"RS256"}
