package authlane

import (
	"context"
	"net/http"
)

// FetchInterstitial retrieves the provider's interstitial HTML snippet. The
// middleware serves it with status 401 when it can't yet decide whether a
// session exists; the page runs client-side logic that refreshes the session
// cookie and retries.
func (c *SDKClient) FetchInterstitial(ctx context.Context) ([]byte, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/internal/interstitial", nil, nil)
	if err != nil {
		return nil, err
	}

	return readText(resp, http.StatusOK)
}
