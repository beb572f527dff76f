package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wojciechkepka/notor/pkg/model"
)

// UserStore loads user accounts for credential checks.
// GetUser returns (nil, nil) when the username is unknown.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*model.User, error)
}

// Issuer handles the login flow: credential validation, minting a token,
// and replacing any prior session for the user. It is the only writer of
// session records.
type Issuer struct {
	codec  *Codec
	users  UserStore
	creds  CredentialStore
	logger *slog.Logger
	now    func() time.Time
}

// NewIssuer creates a session issuer.
func NewIssuer(codec *Codec, users UserStore, creds CredentialStore, logger *slog.Logger) *Issuer {
	return &Issuer{
		codec:  codec,
		users:  users,
		creds:  creds,
		logger: logger.With("component", "auth"),
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.codec.TTL()
}

// Login validates the credentials and issues a fresh signed token, storing
// the matching session record. An unknown username and a wrong password
// produce the same error so responses cannot reveal which half failed.
// Any failure aborts the whole flow with no partial state.
func (i *Issuer) Login(ctx context.Context, username, password string) (string, error) {
	user, err := i.users.GetUser(ctx, username)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	claims, token, err := i.codec.Issue(user.Username, user.Role, i.now())
	if err != nil {
		return "", err
	}

	// The upsert replaces any previous session for this subject in one
	// statement, so concurrent logins cannot leave two live records.
	if err := i.creds.PutClaims(ctx, claims); err != nil {
		return "", fmt.Errorf("store claims: %w", err)
	}

	i.logger.Info("session issued", "username", user.Username, "expires", claims.Expiry())
	return token, nil
}

// Logout revokes the subject's session record. Outstanding tokens keep
// verifying cryptographically but fail the gate's equality check afterwards.
func (i *Issuer) Logout(ctx context.Context, username string) error {
	if err := i.creds.DeleteClaims(ctx, username); err != nil {
		return fmt.Errorf("delete claims: %w", err)
	}
	i.logger.Info("session revoked", "username", username)
	return nil
}

// HashPassword produces the bcrypt hash stored for a new user account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
