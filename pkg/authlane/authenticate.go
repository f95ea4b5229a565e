package authlane

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/authlane/authlane-go/pkg/httpx"
	"github.com/authlane/authlane-go/pkg/jwtx"
	"github.com/authlane/authlane-go/pkg/slogx"
)

// Cookie and query-parameter names the resolver reads.
const (
	// SessionCookie carries the signed session token.
	SessionCookie = "__session"

	// ClientUatCookie carries the client's last-known-auth-state timestamp
	// (unix seconds), or the sentinel "0" for an explicit signed-out state.
	ClientUatCookie = "__client_uat"

	// SessionIDQueryParam overrides session selection on the legacy
	// stateful path.
	SessionIDQueryParam = "_authlane_session_id"

	// clientUatSignedOut is the sentinel: the browser explicitly says
	// there is no session, so don't bother verifying anything.
	clientUatSignedOut = "0"
)

// AuthStatus is the resolver's verdict for one request.
type AuthStatus int

const (
	// StatusSignedOut: no valid session. Downstream sees no session on the
	// request context.
	StatusSignedOut AuthStatus = iota

	// StatusSignedIn: a session was established; claims (and a session
	// ref) are attached to the request context.
	StatusSignedIn

	// StatusInterstitial: can't decide yet, the cookie may be stale. The
	// caller gets a 401 HTML page that refreshes client state and retries.
	// Deliberately neither a success nor a failure.
	StatusInterstitial
)

// Reason explains a non-signed-in verdict. Reasons feed logs and the
// propagate error policy's response body; they never change control flow.
type Reason string

const (
	ReasonNoCredential      Reason = "no_credential"
	ReasonCrossOrigin       Reason = "cross_origin_rejected"
	ReasonMalformed         Reason = "token_malformed"
	ReasonVerifyFailed      Reason = "verification_failed"
	ReasonSentinelSignedOut Reason = "sentinel_signed_out"
	ReasonStaleSession      Reason = "stale_session"
	ReasonRemoteRejected    Reason = "remote_verification_rejected"
)

// AuthResult is the outcome of resolving one request.
type AuthResult struct {
	Status  AuthStatus
	Reason  Reason
	Claims  *jwtx.Claims
	Session *Session
}

// AuthRequest is everything the resolver needs from one inbound request.
type AuthRequest struct {
	// CookieToken is the __session cookie value, if any.
	CookieToken string

	// ClientUat is the raw __client_uat cookie value, if any.
	ClientUat string

	// HeaderToken is the bearer token from the Authorization header with
	// the "Bearer " prefix stripped, if any.
	HeaderToken string

	// SessionID is the legacy query-string session override, if any.
	SessionID string

	// CrossOrigin is the cross-origin classification of the request.
	CrossOrigin bool

	// HasReferer reports whether a Referer header was present.
	HasReferer bool
}

// NewAuthRequest extracts an AuthRequest from an inbound HTTP request. It
// fails only on a malformed request (missing Host with a declared Origin).
func NewAuthRequest(r *http.Request) (AuthRequest, error) {
	req := AuthRequest{
		SessionID:  r.URL.Query().Get(SessionIDQueryParam),
		HasReferer: r.Header.Get("Referer") != "",
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		req.CookieToken = cookie.Value
	}
	if cookie, err := r.Cookie(ClientUatCookie); err == nil {
		req.ClientUat = cookie.Value
	}

	// Header lookup is case-insensitive via http.Header
	if authz := r.Header.Get("Authorization"); authz != "" {
		req.HeaderToken = strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}

	crossOrigin, err := httpx.IsCrossOriginRequest(r)
	if err != nil {
		return AuthRequest{}, err
	}
	req.CrossOrigin = crossOrigin

	return req, nil
}

// SessionResolver confirms sessions with the provider. It's the stateful
// counterpart to jwtx.Verifier and is only consulted on the legacy path.
// SDKClient implements it.
type SessionResolver interface {
	VerifyClient(ctx context.Context, token string) (*Client, error)
	VerifySession(ctx context.Context, sessionID, token string) (*Session, error)
}

// Authenticator resolves the authentication state of inbound requests. It
// holds no per-request state; one instance serves all requests.
type Authenticator struct {
	verifier     jwtx.Verifier
	sessions     SessionResolver
	devOrStaging bool
}

// NewAuthenticator wires a resolver from its collaborators. The apiKey only
// matters for its prefix (test_ keys tolerate missing cookies by serving the
// interstitial instead of signing out).
func NewAuthenticator(verifier jwtx.Verifier, sessions SessionResolver, apiKey string) *Authenticator {
	return &Authenticator{
		verifier:     verifier,
		sessions:     sessions,
		devOrStaging: IsDevelopmentOrStaging(apiKey),
	}
}

// Resolve runs the authentication state machine for one request. States are
// evaluated in order; the first terminal wins.
//
// A header token, when present, decides the request by itself: it's either
// verified (signed in) or rejected (signed out), and the cookie is never
// consulted. Cookie auth only applies same-origin, and only counts when the
// token's issued-at is not older than the client's last known auth state
// (the __client_uat cookie, inclusive comparison). Anything in between -
// missing uat in dev, stale or unverifiable cookie - yields the
// interstitial so the browser can refresh and retry.
func (a *Authenticator) Resolve(ctx context.Context, req AuthRequest) AuthResult {
	log := slogx.FromContext(ctx)

	// 1. Header-token fast path: terminal whichever way it goes.
	if req.HeaderToken != "" {
		if _, err := jwtx.Decode(req.HeaderToken); err != nil {
			return AuthResult{Status: StatusSignedOut, Reason: ReasonMalformed}
		}

		claims, err := a.verifier.Verify(ctx, req.HeaderToken)
		if err != nil {
			log.Warn("header token verification failed", "err", err)
			return AuthResult{Status: StatusSignedOut, Reason: ReasonVerifyFailed}
		}

		return signedIn(claims)
	}

	// 2. No bearer credential: cookies aren't trusted cross-origin.
	if req.CrossOrigin {
		return AuthResult{Status: StatusSignedOut, Reason: ReasonCrossOrigin}
	}

	// 3. Dev/staging clients may not have a fresh cookie yet; let the
	// interstitial sort it out rather than failing outright.
	if a.devOrStaging && (!req.HasReferer || req.CrossOrigin) {
		return AuthResult{Status: StatusInterstitial, Reason: ReasonNoCredential}
	}

	// 4. Production with no client auth state at all.
	if !a.devOrStaging && req.ClientUat == "" {
		return AuthResult{Status: StatusSignedOut, Reason: ReasonNoCredential}
	}

	// 5. The client explicitly says "signed out".
	if req.ClientUat == clientUatSignedOut {
		return AuthResult{Status: StatusSignedOut, Reason: ReasonSentinelSignedOut}
	}

	// 6. Stateless cookie verification with the staleness check: the
	// token must not predate the client's last known auth state. The
	// comparison is inclusive (iat >= uat) per current provider
	// semantics.
	if req.CookieToken != "" && req.ClientUat != "" {
		claims, err := a.verifier.Verify(ctx, req.CookieToken)
		if err != nil {
			log.Debug("cookie token verification failed", "err", err)
			return AuthResult{Status: StatusInterstitial, Reason: ReasonVerifyFailed}
		}

		uat, err := strconv.ParseInt(req.ClientUat, 10, 64)
		if err == nil && claims.IssuedAtUnix() > 0 && claims.IssuedAtUnix() >= uat {
			return signedIn(claims)
		}

		return AuthResult{Status: StatusInterstitial, Reason: ReasonStaleSession}
	}

	// 7. Nothing left to try; hand it to the interstitial.
	return AuthResult{Status: StatusInterstitial, Reason: ReasonNoCredential}
}

// ResolveLegacy runs the stateful path: confirm the session with the
// provider instead of verifying the token locally. Used when stateless
// verification is unavailable or a session-id override came in on the query
// string. Any failure, remote rejection or transport trouble alike, is
// signed out; the distinction is only logged.
func (a *Authenticator) ResolveLegacy(ctx context.Context, req AuthRequest) AuthResult {
	log := slogx.FromContext(ctx)

	if req.CookieToken == "" {
		return AuthResult{Status: StatusSignedOut, Reason: ReasonNoCredential}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		client, err := a.sessions.VerifyClient(ctx, req.CookieToken)
		if err != nil {
			log.Warn("client verification failed", "err", err)
			return AuthResult{Status: StatusSignedOut, Reason: ReasonRemoteRejected}
		}

		sessionID = client.LastActiveSessionID
		if sessionID == "" {
			return AuthResult{Status: StatusSignedOut, Reason: ReasonRemoteRejected}
		}
	}

	session, err := a.sessions.VerifySession(ctx, sessionID, req.CookieToken)
	if err != nil {
		log.Warn("session verification failed", "session_id", sessionID, "err", err)
		return AuthResult{Status: StatusSignedOut, Reason: ReasonRemoteRejected}
	}

	return AuthResult{Status: StatusSignedIn, Session: session}
}

// signedIn builds the authenticated result: verified claims plus a session
// ref carrying the session and user ids from those claims.
func signedIn(claims *jwtx.Claims) AuthResult {
	return AuthResult{
		Status: StatusSignedIn,
		Claims: claims,
		Session: &Session{
			ID:     claims.SID,
			UserID: claims.Subject,
		},
	}
}
