package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wojciechkepka/notor/pkg/model"
)

// TokenTTL is the lifetime of every issued token. Session cookies use the
// same value for their max-age.
const TokenTTL = 2 * time.Minute

// Codec signs and verifies session tokens. It is stateless; the signing key
// is injected at construction so it can come from configuration or a secret
// store rather than a compiled-in literal.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec creates a Codec signing with the given symmetric key.
func NewCodec(key []byte) *Codec {
	return &Codec{key: key, ttl: TokenTTL}
}

// TTL returns the token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// tokenClaims is the wire shape of the payload: {"sub", "role", "exp"}.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue mints claims expiring at now+TTL and the matching signed token.
func (c *Codec) Issue(subject string, role model.UserRole, now time.Time) (model.Claims, string, error) {
	exp := now.Add(c.ttl)
	if exp.Before(now) {
		return model.Claims{}, "", ErrInvalidTimestamp
	}

	claims := model.Claims{
		Sub:  subject,
		Role: string(role),
		Exp:  exp.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, tokenClaims{
		Role: claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(c.key)
	if err != nil {
		return model.Claims{}, "", fmt.Errorf("sign token: %w", err)
	}
	return claims, signed, nil
}

// Verify checks the token's signature, structure, and algorithm and returns
// the decoded claims. It does not compare expiry against the clock: expired
// tokens are a recoverable condition the caller maps to its own error kind,
// not a verification failure.
func (c *Codec) Verify(token string) (model.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var tc tokenClaims
	if _, err := parser.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return c.key, nil
	}); err != nil {
		return model.Claims{}, fmt.Errorf("%w: %v", ErrTokenVerification, err)
	}

	if tc.Subject == "" || tc.ExpiresAt == nil {
		return model.Claims{}, fmt.Errorf("%w: missing claims", ErrTokenVerification)
	}

	return model.Claims{
		Sub:  tc.Subject,
		Role: tc.Role,
		Exp:  tc.ExpiresAt.Unix(),
	}, nil
}
