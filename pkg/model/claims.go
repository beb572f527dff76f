package model

import "time"

// Claims is the token payload and the mirrored server-side session record.
// One record exists per subject at most; overwriting it invalidates every
// outstanding token for that subject even though the tokens remain
// cryptographically valid until their natural expiry.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	Exp  int64  `json:"exp"` // seconds since epoch
}

// Equal reports exact structural equality between two claims. A decoded
// token is only honored when it equals the stored record field for field.
func (c Claims) Equal(other Claims) bool {
	return c == other
}

// IsExpired reports whether the claims have expired at the given time.
func (c Claims) IsExpired(now time.Time) bool {
	return c.Exp < now.Unix()
}

// Expiry returns the expiry as a time.Time.
func (c Claims) Expiry() time.Time {
	return time.Unix(c.Exp, 0)
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Pass     string `json:"pass"`
}

// Token is the login response payload carrying a signed bearer token.
type Token struct {
	Token string `json:"token"`
}
