package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type localAccount struct {
	uid          string
	email        string
	displayName  string
	passwordHash []byte
}

// LocalIdentity is an in-process IdentityProvider used with the memory store
// driver. Accounts and tokens live only as long as the process. Federated
// sign-in is not available and reset mails are only logged.
type LocalIdentity struct {
	mu       sync.RWMutex
	byEmail  map[string]*localAccount
	byUID    map[string]*localAccount
	tokens   map[string]string // token -> uid
	logger   *zap.Logger
	hashCost int
}

// NewLocalIdentity returns an empty LocalIdentity.
func NewLocalIdentity(logger *zap.Logger) *LocalIdentity {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalIdentity{
		byEmail:  make(map[string]*localAccount),
		byUID:    make(map[string]*localAccount),
		tokens:   make(map[string]string),
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *LocalIdentity) SignInWithPassword(_ context.Context, email, password string) (*Principal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return l.issueLocked(acc), nil
}

func (l *LocalIdentity) CreateAccount(_ context.Context, email, password string) (*Principal, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidCredentials)
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrWeakPassword, err)
		}
		return nil, fmt.Errorf("%w: hashing password: %v", ErrProviderError, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byEmail[email]; ok {
		return nil, ErrEmailAlreadyRegistered
	}
	acc := &localAccount{uid: strings.ReplaceAll(uuid.NewString(), "-", ""), email: email, passwordHash: hash}
	l.byEmail[email] = acc
	l.byUID[acc.uid] = acc
	return l.issueLocked(acc), nil
}

func (l *LocalIdentity) UpdateDisplayName(_ context.Context, uid, displayName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.byUID[uid]
	if !ok {
		return ErrUserNotFound
	}
	acc.displayName = displayName
	return nil
}

func (l *LocalIdentity) FederatedSignIn(context.Context, FederatedCredential) (*Principal, error) {
	return nil, fmt.Errorf("%w: federated sign-in is not available", ErrProviderError)
}

// SignOut invalidates every token issued to uid.
func (l *LocalIdentity) SignOut(_ context.Context, uid string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for token, owner := range l.tokens {
		if owner == uid {
			delete(l.tokens, token)
		}
	}
	return nil
}

func (l *LocalIdentity) SendPasswordReset(_ context.Context, email string) error {
	l.mu.RLock()
	acc, ok := l.byEmail[normalizeEmail(email)]
	l.mu.RUnlock()
	if !ok {
		return ErrUserNotFound
	}
	l.logger.Info("Password reset requested", zap.String("uid", acc.uid), zap.String("email", acc.email))
	return nil
}

func (l *LocalIdentity) VerifyIDToken(_ context.Context, idToken string) (*Principal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	uid, ok := l.tokens[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	acc := l.byUID[uid]
	return &Principal{UID: acc.uid, Email: acc.email, DisplayName: acc.displayName}, nil
}

func (l *LocalIdentity) issueLocked(acc *localAccount) *Principal {
	token := uuid.NewString()
	l.tokens[token] = acc.uid
	return &Principal{
		UID:          acc.uid,
		Email:        acc.email,
		DisplayName:  acc.displayName,
		IDToken:      token,
		RefreshToken: uuid.NewString(),
	}
}
