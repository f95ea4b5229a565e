package authlane

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const userAgent = "authlane-go/1 (https://github.com/authlane/authlane-go)"

// The provider API takes form-encoded writes and returns JSON.
const contentTypeForm = "application/x-www-form-urlencoded"

// url builds a complete versioned URL for the given path and query.
func (c *SDKClient) url(path string, query url.Values) string {
	u := c.cfg.APIURL + "/" + c.cfg.APIVersion + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doRequest performs a provider API request with the client's credential.
// A non-nil form becomes the request body.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	form url.Values,
) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", userAgent)
	if form != nil {
		req.Header.Set("Content-Type", contentTypeForm)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// decodeJSON decodes a JSON response into the target.
// Returns a typed *APIError if the response status is not the expected one.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// readText returns the raw response body, or a typed *APIError on an
// unexpected status.
func readText(resp *http.Response, expectedStatus int) ([]byte, error) {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return nil, parseErrorResponse(resp, bodyBytes)
	}

	return bodyBytes, nil
}

// checkStatusNoContent returns a typed error if the response status is not
// 204 No Content.
func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}

	return nil
}
