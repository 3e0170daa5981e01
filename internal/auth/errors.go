package auth

import "errors"

var (
	// ErrInvalidCredentials hides whether the email or the password
	// failed, so login cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAuthenticationDenied is a provider refusing the federated
	// handshake before any local resolution happens.
	ErrAuthenticationDenied = errors.New("authentication denied")
	// ErrStateNotFound means the OIDC state was never issued, expired,
	// or was already consumed.
	ErrStateNotFound = errors.New("oidc state not found")
)

// Form-validation messages rendered back into the originating form.
const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgDuplicateEmail   = "Email already exists"
)
