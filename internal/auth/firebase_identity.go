package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

const (
	googleProviderID  = "google.com"
	defaultRequestURI = "http://localhost"
)

// FirebaseIdentity implements IdentityProvider with the Firebase Admin SDK
// for account management and token checks, and the Identity Toolkit API for
// the flows that need the user's password or a federated credential.
type FirebaseIdentity struct {
	admin  *fbauth.Client
	rp     *identitytoolkit.RelyingpartyService
	logger *zap.Logger
}

// NewFirebaseIdentity creates a FirebaseIdentity. webAPIKey is the project's
// public Web API key.
func NewFirebaseIdentity(ctx context.Context, admin *fbauth.Client, webAPIKey string, logger *zap.Logger) (*FirebaseIdentity, error) {
	if admin == nil {
		return nil, errors.New("firebase auth client is nil")
	}
	if webAPIKey == "" {
		return nil, errors.New("firebase web API key is required")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}
	return &FirebaseIdentity{admin: admin, rp: svc.Relyingparty, logger: logger}, nil
}

func (f *FirebaseIdentity) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	resp, err := f.rp.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, f.providerError("sign in", err)
	}
	return &Principal{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoUrl,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// CreateAccount creates the account with the Admin SDK and then signs in to
// obtain tokens for it.
func (f *FirebaseIdentity) CreateAccount(ctx context.Context, email, password string) (*Principal, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	params := (&fbauth.UserToCreate{}).Email(email).Password(password)
	if _, err := f.admin.CreateUser(ctx, params); err != nil {
		return nil, f.providerError("create account", err)
	}
	return f.SignInWithPassword(ctx, email, password)
}

func (f *FirebaseIdentity) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	if _, err := f.admin.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).DisplayName(displayName)); err != nil {
		return f.providerError("update display name", err)
	}
	return nil
}

func (f *FirebaseIdentity) FederatedSignIn(ctx context.Context, cred FederatedCredential) (*Principal, error) {
	if cred.IDToken == "" && cred.AccessToken == "" {
		return nil, ErrPopupClosedByUser
	}
	providerID := cred.ProviderID
	if providerID == "" {
		providerID = googleProviderID
	}
	requestURI := cred.RequestURI
	if requestURI == "" {
		requestURI = defaultRequestURI
	}
	body := url.Values{"providerId": {providerID}}
	if cred.IDToken != "" {
		body.Set("id_token", cred.IDToken)
	}
	if cred.AccessToken != "" {
		body.Set("access_token", cred.AccessToken)
	}

	resp, err := f.rp.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:            body.Encode(),
		RequestUri:          requestURI,
		ReturnSecureToken:   true,
		ReturnIdpCredential: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, f.providerError("federated sign in", err)
	}
	if resp.ErrorMessage != "" {
		return nil, f.providerError("federated sign in", errors.New(resp.ErrorMessage))
	}
	name := resp.DisplayName
	if name == "" {
		name = resp.FullName
	}
	return &Principal{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  name,
		PhotoURL:     resp.PhotoUrl,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (f *FirebaseIdentity) SignOut(ctx context.Context, uid string) error {
	if err := f.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return f.providerError("sign out", err)
	}
	return nil
}

func (f *FirebaseIdentity) SendPasswordReset(ctx context.Context, email string) error {
	_, err := f.rp.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return f.providerError("password reset", err)
	}
	return nil
}

// VerifyIDToken checks the token's signature, expiry and revocation.
func (f *FirebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (*Principal, error) {
	token, err := f.admin.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		if fbauth.IsIDTokenInvalid(err) || fbauth.IsIDTokenExpired(err) || fbauth.IsIDTokenRevoked(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, f.providerError("verify token", err)
	}
	p := &Principal{UID: token.UID, IDToken: idToken}
	if email, ok := token.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		p.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		p.PhotoURL = picture
	}
	return p, nil
}

// providerError maps a provider failure onto the identity error family.
func (f *FirebaseIdentity) providerError(op string, err error) error {
	var mapped error
	switch {
	case fbauth.IsEmailAlreadyExists(err):
		mapped = ErrEmailAlreadyRegistered
	case fbauth.IsUserNotFound(err):
		mapped = ErrUserNotFound
	default:
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			mapped = classifyProviderCode(gerr.Message)
		} else {
			mapped = classifyProviderCode(err.Error())
		}
	}
	if mapped == ErrProviderError && f.logger != nil {
		f.logger.Warn("Identity provider call failed", zap.String("op", op), zap.Error(err))
	}
	return fmt.Errorf("%s: %w", op, mapped)
}

// classifyProviderCode maps an Identity Toolkit error message such as
// "WEAK_PASSWORD : Password should be at least 6 characters" to a sentinel.
func classifyProviderCode(message string) error {
	code := strings.TrimSpace(message)
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	switch code {
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED", "MISSING_PASSWORD":
		return ErrInvalidCredentials
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return ErrUserNotFound
	case "EMAIL_EXISTS", "DUPLICATE_EMAIL":
		return ErrEmailAlreadyRegistered
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "INVALID_IDP_RESPONSE", "USER_CANCELLED", "MISSING_OR_INVALID_NONCE":
		return ErrPopupClosedByUser
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED":
		return ErrInvalidToken
	default:
		return ErrProviderError
	}
}
