package authlane

import (
	"context"
	"net/http"
	"net/url"
)

// EmailParams describe a transactional email to send.
type EmailParams struct {
	FromEmailName  string // local part, e.g. "support"
	EmailAddressID string // recipient's registered email address id
	Subject        string
	Body           string
}

// CreateEmail sends a transactional email to one of a user's verified email
// addresses.
func (c *SDKClient) CreateEmail(ctx context.Context, params EmailParams) (*Email, error) {
	form := url.Values{
		"from_email_name":  {params.FromEmailName},
		"email_address_id": {params.EmailAddressID},
		"subject":          {params.Subject},
		"body":             {params.Body},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/emails", nil, form)
	if err != nil {
		return nil, err
	}

	var email Email
	if err := decodeJSON(resp, &email, http.StatusOK); err != nil {
		return nil, err
	}

	return &email, nil
}

// SMSMessageParams describe a transactional SMS to send.
type SMSMessageParams struct {
	PhoneNumberID string // recipient's registered phone number id
	Message       string
}

// CreateSMSMessage sends a transactional SMS to one of a user's verified
// phone numbers.
func (c *SDKClient) CreateSMSMessage(ctx context.Context, params SMSMessageParams) (*SMSMessage, error) {
	form := url.Values{
		"phone_number_id": {params.PhoneNumberID},
		"message":         {params.Message},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/sms_messages", nil, form)
	if err != nil {
		return nil, err
	}

	var sms SMSMessage
	if err := decodeJSON(resp, &sms, http.StatusOK); err != nil {
		return nil, err
	}

	return &sms, nil
}
