/*
Package authlane provides a server-side client SDK for the Authlane
identity/session service, plus net/http middleware that authenticates
inbound requests.

# Overview

The package is organized around one main type, SDKClient, which wraps the
Authlane server API (users, sessions, clients, emails, SMS messages) and
builds the token verifiers and middleware used to authenticate requests
coming from your own users' browsers.

	client, err := authlane.NewFromEnv() // reads AUTHLANE_API_KEY etc.

	// Or configure explicitly:
	client := authlane.New(authlane.Config{
		APIKey: "live_...",
	})

	// Server API calls
	user, err := client.GetUser(ctx, "user_123")
	sessions, err := client.ListSessions(ctx, authlane.SessionListParams{UserID: user.ID})

# Request authentication

The middleware decides, per request, whether a valid session exists. A
bearer Authorization header is verified statelessly against the provider's
signing keys. Session cookies (__session) are trusted only same-origin and
only when the token is not older than the client's last known auth state
(the __client_uat cookie). When the middleware can't decide, it serves the
provider's interstitial page with status 401; the page refreshes client
state in the browser and retries.

Two presets are exposed:

	// Lax: unauthenticated requests continue without a session.
	mux.Handle("/feed", client.WithSession()(feedHandler))

	// Strict: anything short of an authenticated session gets a 401.
	mux.Handle("/account", client.RequireSession()(accountHandler))

Handlers read the outcome from the request context:

	func feedHandler(w http.ResponseWriter, r *http.Request) {
		if session, ok := authlane.SessionFromContext(r.Context()); ok {
			// signed in as session.UserID
		}
	}

# Verification strategies

Token verification defaults to the provider's remote key set with an
in-process cache (see pkg/jwtx). Deployments that pin key material instead
set Config.PublicKeyModulus, which switches every middleware and verifier
built from the client to the static strategy. The choice is made once at
construction.

# Legacy stateful authentication

WithLegacySession confirms the cookie token with the provider instead of
verifying it locally: the client handle is verified first, then its
last-active session. A _authlane_session_id query parameter selects the
session directly. Prefer the stateless middleware; this path exists for
instances that predate signed session tokens.

# Error handling

Server API operations return *APIError for non-2xx responses; use
IsUnauthorized and IsNotFound for the common checks. The middleware never
surfaces verification errors to handlers. Its behaviour on failure is
governed by an ErrorPolicy: PolicySwallow (default for WithSession) logs
and continues unauthenticated, PolicyPropagate (default for RequireSession)
halts the chain with a 401.
*/
package authlane
