package authlane

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers retrieves all users for the instance.
func (c *SDKClient) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser retrieves a single user by id.
func (c *SDKClient) GetUser(ctx context.Context, userID string) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// UserUpdateParams are the user attributes the server API lets us change.
// Nil fields are left untouched.
type UserUpdateParams struct {
	Username  *string
	FirstName *string
	LastName  *string
}

// UpdateUser patches a user's attributes.
func (c *SDKClient) UpdateUser(ctx context.Context, userID string, params UserUpdateParams) (*User, error) {
	form := url.Values{}
	if params.Username != nil {
		form.Set("username", *params.Username)
	}
	if params.FirstName != nil {
		form.Set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		form.Set("last_name", *params.LastName)
	}

	resp, err := c.doRequest(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID), nil, form)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteUser permanently removes a user.
func (c *SDKClient) DeleteUser(ctx context.Context, userID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}
