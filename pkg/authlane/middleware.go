package authlane

import (
	"context"
	"net/http"

	"github.com/authlane/authlane-go/pkg/httpx"
	"github.com/authlane/authlane-go/pkg/jwtx"
	"github.com/authlane/authlane-go/pkg/slogx"
)

// ErrorPolicy decides what happens when resolution fails or the request is
// signed out.
type ErrorPolicy int

const (
	// PolicySwallow logs and lets the request continue without a session.
	// Handlers must check SessionFromContext themselves.
	PolicySwallow ErrorPolicy = iota

	// PolicyPropagate halts the chain with a 401 JSON response.
	PolicyPropagate
)

type middlewareConfig struct {
	policy    ErrorPolicy
	policySet bool
	verifier  jwtx.Verifier
}

// MiddlewareOption tweaks the session middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorPolicy overrides the preset's error policy.
func WithErrorPolicy(policy ErrorPolicy) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.policy = policy
		cfg.policySet = true
	}
}

// WithVerifier substitutes the token verifier. By default the middleware
// picks one from the SDK configuration (static key if pinned, remote key
// set otherwise).
func WithVerifier(v jwtx.Verifier) MiddlewareOption {
	return func(cfg *middlewareConfig) { cfg.verifier = v }
}

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyClaims
)

// SessionFromContext returns the session attached by the middleware, if the
// request was authenticated.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKeySession).(*Session)
	return s, ok
}

// ClaimsFromContext returns the verified token claims attached by the
// middleware. Only set on the stateless paths; the legacy path attaches a
// session without claims.
func ClaimsFromContext(ctx context.Context) (*jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(*jwtx.Claims)
	return c, ok
}

func contextWithResult(ctx context.Context, res AuthResult) context.Context {
	if res.Session != nil {
		ctx = context.WithValue(ctx, ctxKeySession, res.Session)
	}
	if res.Claims != nil {
		ctx = context.WithValue(ctx, ctxKeyClaims, res.Claims)
	}
	return ctx
}

// WithSession resolves the request's authentication state and attaches the
// session and claims to the request context. Lax preset: a signed-out
// request continues unauthenticated; an undecided one gets the
// provider's interstitial (401, text/html) so the browser can refresh its
// cookie and retry.
func (c *SDKClient) WithSession(opts ...MiddlewareOption) httpx.Middleware {
	return c.sessionMiddleware(PolicySwallow, false, opts)
}

// RequireSession is the strict preset: anything short of an authenticated
// session halts the chain with a 401.
func (c *SDKClient) RequireSession(opts ...MiddlewareOption) httpx.Middleware {
	return c.sessionMiddleware(PolicyPropagate, false, opts)
}

// WithLegacySession resolves authentication statefully: the cookie token is
// confirmed with the provider (client verify, then session verify) instead
// of being verified locally. A `_authlane_session_id` query parameter picks
// the session directly.
func (c *SDKClient) WithLegacySession(opts ...MiddlewareOption) httpx.Middleware {
	return c.sessionMiddleware(PolicySwallow, true, opts)
}

func (c *SDKClient) sessionMiddleware(defaultPolicy ErrorPolicy, legacy bool, opts []MiddlewareOption) httpx.Middleware {
	cfg := middlewareConfig{policy: defaultPolicy}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.policySet {
		cfg.policy = defaultPolicy
	}

	verifier := cfg.verifier
	if verifier == nil {
		v, err := c.NewVerifier()
		if err != nil {
			// A broken pinned key is a configuration bug; surface it on
			// every request rather than panicking at wire-up time.
			return brokenConfigMiddleware(err)
		}
		verifier = v
	}

	auth := NewAuthenticator(verifier, c, c.cfg.APIKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			req, err := NewAuthRequest(r)
			if err != nil {
				// Malformed request (e.g. Origin without Host).
				if cfg.policy == PolicyPropagate {
					log.Error("authentication failed", "err", err)
					httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
						"error": "unauthenticated",
					})
					return
				}
				log.Warn("authentication skipped", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			var res AuthResult
			if legacy {
				res = auth.ResolveLegacy(ctx, req)
			} else {
				res = auth.Resolve(ctx, req)
			}

			switch res.Status {
			case StatusSignedIn:
				next.ServeHTTP(w, r.WithContext(contextWithResult(ctx, res)))

			case StatusInterstitial:
				c.serveInterstitial(w, r, cfg.policy)

			default: // StatusSignedOut
				if cfg.policy == PolicyPropagate {
					log.Info("request unauthenticated", "reason", res.Reason)
					httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
						"error":  "unauthenticated",
						"reason": string(res.Reason),
					})
					return
				}
				log.Debug("request unauthenticated", "reason", res.Reason)
				next.ServeHTTP(w, r)
			}
		})
	}
}

// serveInterstitial fetches the provider's interstitial page and serves it
// with status 401. The 401 keeps generic error handling from mistaking it
// for success while the HTML payload lets the browser self-heal.
func (c *SDKClient) serveInterstitial(w http.ResponseWriter, r *http.Request, policy ErrorPolicy) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	body, err := c.FetchInterstitial(ctx)
	if err != nil {
		log.Error("interstitial fetch failed", "err", err)
		if policy == PolicyPropagate {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "unauthenticated",
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	httpx.WriteHTML(w, http.StatusUnauthorized, body)
}

// brokenConfigMiddleware fails every request with a 500. Only reachable
// through an unparseable pinned public key.
func brokenConfigMiddleware(err error) httpx.Middleware {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slogx.FromContext(r.Context()).Error("session middleware misconfigured", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "authentication misconfigured",
			})
		})
	}
}
