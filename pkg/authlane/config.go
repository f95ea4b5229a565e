package authlane

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultAPIURL     = "https://api.authlane.com"
	DefaultAPIVersion = "v1"

	// DefaultJWKSCacheMaxAge is how long fetched verification keys stay
	// fresh before the next verify refetches them.
	DefaultJWKSCacheMaxAge = time.Hour

	// DefaultHTTPTimeout bounds every call to the provider API.
	DefaultHTTPTimeout = 10 * time.Second
)

// Config holds everything the SDK needs to talk to the provider.
type Config struct {
	// APIKey is the server-side credential (sk-style). Keys starting with
	// "test_" select development/staging behaviour in the middleware.
	APIKey string `env:"AUTHLANE_API_KEY,required"`

	// APIURL is the base URL of the provider API.
	APIURL string `env:"AUTHLANE_API_URL,default=https://api.authlane.com"`

	// APIVersion is the path version segment, e.g. "v1".
	APIVersion string `env:"AUTHLANE_API_VERSION,default=v1"`

	// JWKSCacheMaxAge controls the remote verifier's key cache lifetime.
	JWKSCacheMaxAge time.Duration `env:"AUTHLANE_JWKS_CACHE_MAX_AGE,default=1h"`

	// HTTPTimeout bounds each provider API call.
	HTTPTimeout time.Duration `env:"AUTHLANE_HTTP_TIMEOUT,default=10s"`

	// PublicKeyModulus / PublicKeyExponent configure the static-key
	// verification strategy (base64url, exponent defaults to AQAB). Leave
	// empty to use the remote key set.
	PublicKeyModulus  string `env:"AUTHLANE_PUBLIC_KEY_MODULUS"`
	PublicKeyExponent string `env:"AUTHLANE_PUBLIC_KEY_EXPONENT"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return Config{}, fmt.Errorf("authlane: config from env: %w", err)
	}
	return cfg, nil
}

// withDefaults fills zero-valued fields so a hand-built Config behaves like
// an env-decoded one.
func (c Config) withDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.JWKSCacheMaxAge <= 0 {
		c.JWKSCacheMaxAge = DefaultJWKSCacheMaxAge
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	return c
}
