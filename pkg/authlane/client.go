package authlane

import (
	"net/http"
	"strings"

	"github.com/authlane/authlane-go/pkg/jwtx"
)

// SDKClient is a client for the Authlane server API. It exposes the
// provider's resources (users, sessions, clients, emails, SMS messages) and
// builds the verifiers and middleware that authenticate inbound requests.
type SDKClient struct {
	cfg Config

	// HTTPClient performs every provider API call. Swap it out for tests.
	HTTPClient *http.Client
}

// New creates an SDK client from an explicit Config.
func New(cfg Config) *SDKClient {
	cfg = cfg.withDefaults()
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")

	return &SDKClient{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// NewFromEnv creates an SDK client configured from AUTHLANE_* environment
// variables.
func NewFromEnv() (*SDKClient, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// APIKey returns the configured server credential.
func (c *SDKClient) APIKey() string {
	return c.cfg.APIKey
}

// JWKSURL is where the provider publishes its verification keys:
// {base}/{version}/jwks.
func (c *SDKClient) JWKSURL() string {
	return c.cfg.APIURL + "/" + c.cfg.APIVersion + "/jwks"
}

// NewRemoteVerifier builds a token verifier backed by the provider's key
// set, wired with this client's credential and cache lifetime.
func (c *SDKClient) NewRemoteVerifier(opts ...jwtx.RemoteVerifierOption) *jwtx.RemoteVerifier {
	base := []jwtx.RemoteVerifierOption{
		jwtx.WithKeyCache(jwtx.NewKeyCache(c.cfg.JWKSCacheMaxAge)),
		jwtx.WithHTTPClient(&http.Client{Timeout: jwtx.DefaultFetchTimeout}),
	}
	return jwtx.NewRemoteVerifier(c.JWKSURL(), c.cfg.APIKey, append(base, opts...)...)
}

// NewStaticVerifier builds the pinned-key verifier from the configured
// public key modulus. Fails if no modulus is configured.
func (c *SDKClient) NewStaticVerifier(opts ...jwtx.StaticVerifierOption) (*jwtx.StaticVerifier, error) {
	return jwtx.NewStaticVerifier(c.cfg.PublicKeyModulus, c.cfg.PublicKeyExponent, opts...)
}

// NewVerifier picks a verification strategy from configuration: the static
// key when a modulus is configured, the remote key set otherwise. Selection
// happens once here, never at call time.
func (c *SDKClient) NewVerifier() (jwtx.Verifier, error) {
	if c.cfg.PublicKeyModulus != "" {
		return c.NewStaticVerifier()
	}
	return c.NewRemoteVerifier(), nil
}
