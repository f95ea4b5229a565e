package authlane

// ============================================================================
// Session
// ============================================================================

// Session statuses as reported by the provider. The SDK only ever reads
// these; sessions are created and transitioned provider-side.
const (
	SessionStatusActive    = "active"
	SessionStatusExpired   = "expired"
	SessionStatusAbandoned = "abandoned"
	SessionStatusRevoked   = "revoked"
)

// Session identifies an authenticated principal. Timestamps are unix
// seconds.
type Session struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id,omitempty"`
	UserID       string `json:"user_id"`
	Status       string `json:"status,omitempty"`
	LastActiveAt int64  `json:"last_active_at,omitempty"`
	ExpireAt     int64  `json:"expire_at,omitempty"`
	AbandonAt    int64  `json:"abandon_at,omitempty"`
}

// Active reports whether this session is usable for authentication.
func (s *Session) Active() bool {
	return s.Status == SessionStatusActive
}

// ============================================================================
// Client (a browser/device handle, not to be confused with SDKClient)
// ============================================================================

// Client is an opaque browser/device handle with its associated sessions.
type Client struct {
	ID                  string    `json:"id"`
	SessionIDs          []string  `json:"session_ids,omitempty"`
	Sessions            []Session `json:"sessions,omitempty"`
	SignInAttemptID     string    `json:"sign_in_attempt_id,omitempty"`
	SignUpAttemptID     string    `json:"sign_up_attempt_id,omitempty"`
	LastActiveSessionID string    `json:"last_active_session_id,omitempty"`
	CreatedAt           int64     `json:"created_at,omitempty"`
	UpdatedAt           int64     `json:"updated_at,omitempty"`
}

// ============================================================================
// User
// ============================================================================

// User is the provider's user record, trimmed to the fields the server API
// actually returns.
type User struct {
	ID                    string         `json:"id"`
	Username              string         `json:"username,omitempty"`
	FirstName             string         `json:"first_name,omitempty"`
	LastName              string         `json:"last_name,omitempty"`
	ProfileImageURL       string         `json:"profile_image_url,omitempty"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id,omitempty"`
	PrimaryPhoneNumberID  string         `json:"primary_phone_number_id,omitempty"`
	EmailAddresses        []EmailAddress `json:"email_addresses,omitempty"`
	PhoneNumbers          []PhoneNumber  `json:"phone_numbers,omitempty"`
	CreatedAt             int64          `json:"created_at,omitempty"`
	UpdatedAt             int64          `json:"updated_at,omitempty"`
}

// EmailAddress is one of a user's registered email addresses.
type EmailAddress struct {
	ID           string        `json:"id"`
	EmailAddress string        `json:"email_address"`
	Verification *Verification `json:"verification,omitempty"`
}

// PhoneNumber is one of a user's registered phone numbers.
type PhoneNumber struct {
	ID                      string        `json:"id"`
	PhoneNumber             string        `json:"phone_number"`
	ReservedForSecondFactor bool          `json:"reserved_for_second_factor,omitempty"`
	Verification            *Verification `json:"verification,omitempty"`
}

// Verification records how an identifier was verified.
type Verification struct {
	Status   string `json:"status"`
	Strategy string `json:"strategy,omitempty"`
}

// ============================================================================
// Messaging
// ============================================================================

// Email is a transactional email sent through the provider.
type Email struct {
	ID             string `json:"id"`
	FromEmailName  string `json:"from_email_name"`
	EmailAddressID string `json:"email_address_id"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Status         string `json:"status,omitempty"`
}

// SMSMessage is a transactional SMS sent through the provider.
type SMSMessage struct {
	ID              string `json:"id"`
	FromPhoneNumber string `json:"from_phone_number,omitempty"`
	PhoneNumberID   string `json:"phone_number_id"`
	Message         string `json:"message"`
	Status          string `json:"status,omitempty"`
}
