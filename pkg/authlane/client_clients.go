package authlane

import (
	"context"
	"net/http"
	"net/url"
)

// ListClients retrieves all client handles for the instance.
func (c *SDKClient) ListClients(ctx context.Context) ([]Client, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/clients", nil, nil)
	if err != nil {
		return nil, err
	}

	var clients []Client
	if err := decodeJSON(resp, &clients, http.StatusOK); err != nil {
		return nil, err
	}

	return clients, nil
}

// GetClient retrieves a single client handle by id.
func (c *SDKClient) GetClient(ctx context.Context, clientID string) (*Client, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/clients/"+url.PathEscape(clientID), nil, nil)
	if err != nil {
		return nil, err
	}

	var client Client
	if err := decodeJSON(resp, &client, http.StatusOK); err != nil {
		return nil, err
	}

	return &client, nil
}

// VerifyClient asks the provider to confirm a session cookie token and
// returns the client handle it belongs to, including its session list and
// last-active session id. An invalid token comes back as *APIError with
// status 401.
func (c *SDKClient) VerifyClient(ctx context.Context, token string) (*Client, error) {
	form := url.Values{"token": {token}}

	resp, err := c.doRequest(ctx, http.MethodPost, "/clients/verify", nil, form)
	if err != nil {
		return nil, err
	}

	var client Client
	if err := decodeJSON(resp, &client, http.StatusOK); err != nil {
		return nil, err
	}

	return &client, nil
}
