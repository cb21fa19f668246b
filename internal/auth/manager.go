package auth

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/models"
)

// ProfileStore reads and creates users/{uid} profile documents. GetByID
// returns nil when no profile exists.
type ProfileStore interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Manager drives sessions through sign-up, sign-in, sign-out and password
// reset, and mirrors each principal into its profile document.
type Manager struct {
	provider IdentityProvider
	profiles ProfileStore
	logger   *zap.Logger
}

// NewManager creates a Manager.
func NewManager(provider IdentityProvider, profiles ProfileStore, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{provider: provider, profiles: profiles, logger: logger}
}

// Restore reports the identity behind idToken to the session. An empty
// token is the provider reporting no identity. An invalid token leaves the
// session unauthenticated and returns ErrInvalidToken.
func (m *Manager) Restore(ctx context.Context, sess *Session, idToken string) (Snapshot, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return sess.identified(nil, nil), nil
	}
	p, err := m.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		sess.identified(nil, nil)
		return sess.Snapshot(), err
	}
	return sess.identified(p, m.resolveProfile(ctx, p, true)), nil
}

// SignIn authenticates with email and password. On failure the session
// returns to its previous state.
func (m *Manager) SignIn(ctx context.Context, sess *Session, email, password string) (Snapshot, error) {
	prev := sess.begin()
	p, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		sess.rollback(prev)
		return sess.Snapshot(), err
	}
	return sess.identified(p, m.resolveProfile(ctx, p, true)), nil
}

// SignUp creates the identity, sets its display name and then tries to
// create the profile with an empty club list. A profile failure is logged
// and leaves the session authenticated without a profile; it is repaired on
// the next identity change.
func (m *Manager) SignUp(ctx context.Context, sess *Session, email, password, displayName string) (Snapshot, error) {
	prev := sess.begin()
	p, err := m.provider.CreateAccount(ctx, email, password)
	if err != nil {
		sess.rollback(prev)
		return sess.Snapshot(), err
	}
	if err := m.provider.UpdateDisplayName(ctx, p.UID, displayName); err != nil {
		m.logger.Warn("Failed to set display name on new account", zap.String("uid", p.UID), zap.Error(err))
	}
	p.DisplayName = displayName

	if err := m.profiles.Create(ctx, newProfile(p)); err != nil {
		m.logger.Warn("Failed to create profile for new account", zap.String("uid", p.UID), zap.Error(err))
	}
	return sess.identified(p, m.resolveProfile(ctx, p, false)), nil
}

// SignInWithGoogle exchanges a federated credential for a session, creating
// the profile from the provider's data when none exists.
func (m *Manager) SignInWithGoogle(ctx context.Context, sess *Session, cred FederatedCredential) (Snapshot, error) {
	prev := sess.begin()
	p, err := m.provider.FederatedSignIn(ctx, cred)
	if err != nil {
		sess.rollback(prev)
		return sess.Snapshot(), err
	}
	return sess.identified(p, m.resolveProfile(ctx, p, true)), nil
}

// SignOut clears the session and revokes the principal's refresh tokens. The
// session is cleared even when revocation fails.
func (m *Manager) SignOut(ctx context.Context, sess *Session) error {
	p := sess.Principal()
	sess.identified(nil, nil)
	if p == nil {
		return nil
	}
	if err := m.provider.SignOut(ctx, p.UID); err != nil {
		return fmt.Errorf("failed to revoke tokens of '%s': %w", p.UID, err)
	}
	return nil
}

// ResetPassword sends a password-reset mail. The session is not involved.
func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	return m.provider.SendPasswordReset(ctx, email)
}

// resolveProfile loads the principal's profile. A missing profile is created
// from the principal when repair is set. Failures are logged and yield nil;
// they never block authentication.
func (m *Manager) resolveProfile(ctx context.Context, p *Principal, repair bool) *models.User {
	log := m.logger.With(zap.String("uid", p.UID))
	user, err := m.profiles.GetByID(ctx, p.UID)
	if err != nil {
		log.Warn("Failed to read profile", zap.Error(err))
		return nil
	}
	if user != nil {
		return user
	}
	if !repair {
		log.Warn("Profile missing after sign up")
		return nil
	}

	if err := m.profiles.Create(ctx, newProfile(p)); err != nil {
		log.Warn("Failed to repair missing profile", zap.Error(err))
		return nil
	}
	log.Info("Created missing profile")
	user, err = m.profiles.GetByID(ctx, p.UID)
	if err != nil || user == nil {
		log.Warn("Failed to read repaired profile", zap.Error(err))
		return nil
	}
	return user
}

func newProfile(p *Principal) *models.User {
	user := &models.User{
		UID:         p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Clubs:       []string{},
	}
	if p.PhotoURL != "" {
		photo := p.PhotoURL
		user.PhotoURL = &photo
	}
	return user
}
