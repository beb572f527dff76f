package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wojciechkepka/notor/pkg/model"
)

// CredentialStore persists the single active session record per subject.
// GetClaims returns (nil, nil) when no record exists.
type CredentialStore interface {
	PutClaims(ctx context.Context, c model.Claims) error
	GetClaims(ctx context.Context, sub string) (*model.Claims, error)
	DeleteClaims(ctx context.Context, sub string) error
}

// Gate is the per-request authorization filter protecting every route that
// needs an authenticated user. It is read-only with respect to the
// credential store.
type Gate struct {
	codec  *Codec
	creds  CredentialStore
	logger *slog.Logger
	now    func() time.Time
}

// NewGate creates an authorization gate backed by the given codec and store.
func NewGate(codec *Codec, creds CredentialStore, logger *slog.Logger) *Gate {
	return &Gate{
		codec:  codec,
		creds:  creds,
		logger: logger.With("component", "auth"),
		now:    time.Now,
	}
}

// Authorize runs the per-request checks in order: extract, decode, role
// check, store lookup, equality check, expiry check. Every failure is
// terminal; on success the authenticated subject is returned. The whole
// sequence performs exactly one store lookup and one signature verification.
func (g *Gate) Authorize(ctx context.Context, required model.UserRole, cred CredentialSource) (string, error) {
	token, err := cred.Token()
	if err != nil {
		return "", err
	}

	decoded, err := g.codec.Verify(token)
	if err != nil {
		return "", err
	}

	role, err := model.ParseRole(decoded.Role)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidRole, decoded.Role)
	}
	if !role.Satisfies(required) {
		return "", ErrUnauthorizedAccess
	}

	stored, err := g.creds.GetClaims(ctx, decoded.Sub)
	if err != nil {
		return "", fmt.Errorf("load claims for %s: %w", decoded.Sub, err)
	}
	if stored == nil {
		return "", ErrSessionNotFound
	}

	// The token stays cryptographically valid until its natural expiry, so
	// matching against the stored record is what makes revocation work.
	if !decoded.Equal(*stored) {
		return "", ErrInvalidAuthToken
	}

	if decoded.IsExpired(g.now()) {
		return "", ErrAuthTokenExpired
	}

	return decoded.Sub, nil
}
