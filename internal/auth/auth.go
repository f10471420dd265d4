package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/config"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// MinPasswordLength is the shortest password accepted for new credentials
const MinPasswordLength = 6

// Session is returned by a successful login
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// Service authenticates admin users against the Credentials collection
// and answers admin and permission lookups
type Service struct {
	store  docstore.Store
	cache  PermissionCache
	tokens   *TokenIssuer
	notifier ResetNotifier
	logger   *zap.Logger
}

// NewService creates an auth service. A nil cache disables permission caching.
func NewService(store docstore.Store, cache PermissionCache, cfg config.JWTConfig, logger *zap.Logger, opts ...Option) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	s := &Service{
		store:    store,
		cache:    cache,
		tokens:   NewTokenIssuer(cfg.Secret, cfg.TokenTTL, cfg.ResetTTL),
		notifier: NewLogResetNotifier(logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tokens exposes the issuer used to sign and validate tokens
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Login checks the password and issues an access token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.credential(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPasswordHash(password, cred.PasswordHash) {
		s.logger.Info("Login rejected", zap.String("email", cred.Email))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(cred)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", cred.UserID))
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    cred.UserID,
		Email:     cred.Email,
		Name:      cred.DisplayName,
	}, nil
}

// Reauthenticate confirms the signed-in user still knows their password
func (s *Service) Reauthenticate(ctx context.Context, email, password string) error {
	cred, err := s.credential(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if !CheckPasswordHash(password, cred.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// RequestPasswordReset issues a short-lived reset token for a known email
// and hands it to the reset notifier. Unknown emails and delivery failures
// are only logged so callers cannot tell which accounts exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if !validation.IsEmail(email) {
		return ErrInvalidEmail
	}
	cred, err := s.credential(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}
	token, expiresAt, err := s.tokens.IssueReset(cred)
	if err != nil {
		return err
	}
	if err := s.notifier.DeliverResetToken(ctx, cred.Email, token, expiresAt); err != nil {
		s.logger.Error("Failed to deliver reset token", zap.String("user_id", cred.UserID), zap.Error(err))
		return nil
	}
	s.logger.Info("Password reset requested", zap.String("user_id", cred.UserID))
	return nil
}

// ConfirmPasswordReset replaces the password of the user named by a reset token
func (s *Service) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.ValidateReset(resetToken)
	if err != nil {
		return err
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	ref := s.store.Collection(domain.CollectionCredentials).Doc(normalizeEmail(claims.Email))
	if err := ref.Update(ctx, map[string]any{"passwordHash": hash}); err != nil {
		if docstore.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Info("Password reset completed", zap.String("user_id", claims.UserID))
	return nil
}

// IsUserAdmin reports whether admins/{uid} exists
func (s *Service) IsUserAdmin(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	snap, err := s.store.Collection(domain.CollectionAdmins).Doc(uid).Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return snap.Exists, nil
}

// GetUserPermissions reads the permission flags of the employee keyed by email.
// An unknown employee has no permissions.
func (s *Service) GetUserPermissions(ctx context.Context, email string) (domain.Permissions, error) {
	email = normalizeEmail(email)
	if perms, ok := s.cache.Get(ctx, email); ok {
		return perms, nil
	}

	snap, err := s.store.Collection(domain.CollectionEmployees).Doc(email).Get(ctx)
	if err != nil {
		return domain.Permissions{}, fmt.Errorf("failed to load permissions: %w", err)
	}
	if !snap.Exists {
		s.logger.Warn("No employee document for user, granting no permissions", zap.String("email", email))
		return domain.Permissions{}, nil
	}

	perms := domain.PermissionsFromDocument(snap.Data)
	s.cache.Set(ctx, email, perms)
	return perms, nil
}

// InvalidatePermissions drops the cached permissions of an employee
func (s *Service) InvalidatePermissions(ctx context.Context, email string) {
	s.cache.Delete(ctx, normalizeEmail(email))
}

// ValidateToken parses an access token and returns its claims
func (s *Service) ValidateToken(_ context.Context, token string) (*Claims, error) {
	return s.tokens.Validate(token)
}

// EnsureAdmin creates the credential and admins entry for cfg.Email when missing
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" {
		return nil
	}
	email := normalizeEmail(cfg.Email)
	if !validation.IsEmail(email) {
		return ErrInvalidEmail
	}

	credRef := s.store.Collection(domain.CollectionCredentials).Doc(email)
	snap, err := credRef.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read admin credential: %w", err)
	}

	cred := domain.CredentialFromDocument(snap.Data)
	if !snap.Exists {
		if len(cfg.Password) < MinPasswordLength {
			return ErrWeakPassword
		}
		hash, err := HashPassword(cfg.Password)
		if err != nil {
			return err
		}
		cred = domain.Credential{
			UserID:       uuid.NewString(),
			Email:        email,
			DisplayName:  cfg.DisplayName,
			PasswordHash: hash,
		}
		if err := credRef.Set(ctx, cred.Document()); err != nil {
			return fmt.Errorf("failed to create admin credential: %w", err)
		}
		s.logger.Info("Seeded admin credential", zap.String("user_id", cred.UserID))
	}

	adminRef := s.store.Collection(domain.CollectionAdmins).Doc(cred.UserID)
	adminSnap, err := adminRef.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read admin entry: %w", err)
	}
	if adminSnap.Exists {
		return nil
	}
	return adminRef.Set(ctx, map[string]any{"email": email})
}

func (s *Service) credential(ctx context.Context, email string) (domain.Credential, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Credential{}, ErrUserNotFound
	}
	snap, err := s.store.Collection(domain.CollectionCredentials).Doc(email).Get(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}
	if !snap.Exists {
		return domain.Credential{}, ErrUserNotFound
	}
	return domain.CredentialFromDocument(snap.Data), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
