package auth

import "errors"

// Typed authorization failures. Every failure is terminal for the current
// request; the HTTP layer maps each kind to a fixed status and the request
// ends. The split between verification errors and stale-session errors is
// deliberate: a forged or corrupt token is unsalvageable, while a revoked or
// expired one just means "log in again".
var (
	// ErrAuthHeaderMissing means no credential was presented at all.
	ErrAuthHeaderMissing = errors.New("no authentication header was provided")
	// ErrInvalidAuthHeader means a credential was presented but malformed.
	ErrInvalidAuthHeader = errors.New("provided authentication header was invalid")
	// ErrTokenVerification covers signature, structure, and algorithm failures.
	ErrTokenVerification = errors.New("token verification failed")
	// ErrInvalidAuthToken means the token no longer matches the stored
	// session record: it has been revoked or superseded by a newer login.
	ErrInvalidAuthToken = errors.New("provided authentication token was invalid")
	// ErrAuthTokenExpired means the token was valid but its expiry passed.
	ErrAuthTokenExpired = errors.New("authentication token expired")
	// ErrSessionNotFound means no session record exists for the subject.
	ErrSessionNotFound = errors.New("no active session for subject")
	// ErrInvalidRole means the claims carried an unknown role string.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUnauthorizedAccess means the user is authenticated but their role
	// does not meet the route's requirement.
	ErrUnauthorizedAccess = errors.New("user is not authorized to access this resource")
	// ErrInvalidPassword covers both unknown users and wrong passwords.
	// Callers must not distinguish the two in responses.
	ErrInvalidPassword = errors.New("provided credentials were invalid")
	// ErrInvalidTimestamp means the expiry computation overflowed.
	ErrInvalidTimestamp = errors.New("timestamp was invalid")
)
