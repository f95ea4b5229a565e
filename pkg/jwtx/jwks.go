package jwtx

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
)

// JWK represents a public key in JSON Web Key format (RFC 7517). The
// provider only signs session tokens with RSA today, so that's all we
// decode; keys of other types in the set are skipped rather than rejected.
type JWK struct {
	Kty string `json:"kty"`           // key type: "RSA"
	Use string `json:"use,omitempty"` // what it's used for: "sig"
	Alg string `json:"alg,omitempty"` // algorithm: "RS256"
	Kid string `json:"kid,omitempty"` // key ID

	// RSA stuff
	N string `json:"n,omitempty"` // modulus (base64url)
	E string `json:"e,omitempty"` // exponent (base64url)
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// ParseRSA converts the JWK into an *rsa.PublicKey.
func (j JWK) ParseRSA() (*rsa.PublicKey, error) {
	if j.Kty != "RSA" {
		return nil, errors.New("jwtx: unsupported kty " + j.Kty)
	}
	return ParseRSAPublicKey(j.N, j.E)
}

// ParseRSAPublicKey builds an *rsa.PublicKey from base64url-encoded modulus
// and exponent. An empty exponent means the usual 65537 ("AQAB").
func ParseRSAPublicKey(modulus, exponent string) (*rsa.PublicKey, error) {
	if modulus == "" {
		return nil, errors.New("jwtx: missing RSA modulus")
	}
	if exponent == "" {
		exponent = "AQAB"
	}

	nb, err := base64.RawURLEncoding.DecodeString(modulus)
	if err != nil {
		return nil, errors.New("jwtx: invalid RSA modulus encoding")
	}
	eb, err := base64.RawURLEncoding.DecodeString(exponent)
	if err != nil {
		return nil, errors.New("jwtx: invalid RSA exponent encoding")
	}

	n := new(big.Int).SetBytes(nb)
	e := new(big.Int).SetBytes(eb).Int64()
	if e <= 0 {
		return nil, errors.New("jwtx: invalid RSA exponent")
	}

	return &rsa.PublicKey{N: n, E: int(e)}, nil
}
