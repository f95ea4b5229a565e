package authlane

import (
	"context"
	"net/http"
	"net/url"
)

// SessionListParams filters ListSessions. Zero-valued fields are omitted.
type SessionListParams struct {
	ClientID string
	UserID   string
}

// ListSessions retrieves sessions, optionally filtered by client or user.
func (c *SDKClient) ListSessions(ctx context.Context, params SessionListParams) ([]Session, error) {
	query := url.Values{}
	if params.ClientID != "" {
		query.Set("client_id", params.ClientID)
	}
	if params.UserID != "" {
		query.Set("user_id", params.UserID)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/sessions", query, nil)
	if err != nil {
		return nil, err
	}

	var sessions []Session
	if err := decodeJSON(resp, &sessions, http.StatusOK); err != nil {
		return nil, err
	}

	return sessions, nil
}

// GetSession retrieves a single session by id.
func (c *SDKClient) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID), nil, nil)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := decodeJSON(resp, &session, http.StatusOK); err != nil {
		return nil, err
	}

	return &session, nil
}

// VerifySession confirms a specific session id against a cookie token. The
// provider answers 404 for an unknown session and 401 for a token that
// doesn't match; both surface as *APIError.
func (c *SDKClient) VerifySession(ctx context.Context, sessionID, token string) (*Session, error) {
	form := url.Values{"token": {token}}

	resp, err := c.doRequest(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/verify", nil, form)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := decodeJSON(resp, &session, http.StatusOK); err != nil {
		return nil, err
	}

	return &session, nil
}

// RevokeSession revokes a session, signing its user out of that device.
func (c *SDKClient) RevokeSession(ctx context.Context, sessionID string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/revoke", nil, nil)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := decodeJSON(resp, &session, http.StatusOK); err != nil {
		return nil, err
	}

	return &session, nil
}
