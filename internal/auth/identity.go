package auth

import (
	"context"
	"errors"
)

// ErrIdentity is wrapped by every failure reported by the identity provider.
// It is never a storage failure.
var ErrIdentity = errors.New("identity failure")

// identityErr is a sentinel that also matches ErrIdentity.
type identityErr string

func (e identityErr) Error() string { return string(e) }

func (e identityErr) Is(target error) bool { return target == ErrIdentity }

var (
	ErrInvalidCredentials     error = identityErr("invalid email or password")
	ErrUserNotFound           error = identityErr("no account for this email")
	ErrEmailAlreadyRegistered error = identityErr("email already registered")
	ErrWeakPassword           error = identityErr("password is too weak")
	ErrPopupClosedByUser      error = identityErr("sign-in was cancelled")
	ErrInvalidToken           error = identityErr("invalid or expired token")
	ErrProviderError          error = identityErr("identity provider error")
)

// MinPasswordLength is the shortest password the provider accepts.
const MinPasswordLength = 6

// Principal is an authenticated identity as reported by the provider.
type Principal struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoURL,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// FederatedCredential is what a client obtains from a federated provider's
// own sign-in flow. At least one of IDToken and AccessToken is required.
type FederatedCredential struct {
	ProviderID  string // defaults to google.com
	IDToken     string
	AccessToken string
	RequestURI  string
}

// IdentityProvider is the authentication backend the Manager drives.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Principal, error)
	CreateAccount(ctx context.Context, email, password string) (*Principal, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	FederatedSignIn(ctx context.Context, cred FederatedCredential) (*Principal, error)
	// SignOut revokes the identity's refresh tokens.
	SignOut(ctx context.Context, uid string) error
	SendPasswordReset(ctx context.Context, email string) error
	VerifyIDToken(ctx context.Context, idToken string) (*Principal, error)
}
