package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ventaboard/sales-api/internal/core/domain"
	"github.com/ventaboard/sales-api/internal/core/ports"
)

const defaultTokenTTL = 30 * time.Minute

// AuthService implements credential verification, token issuance/validation,
// and user administration. Tokens carry only subject and expiry; role is
// always re-resolved against the user repository at the time of a privileged
// action so role changes take effect without re-login.
type AuthService struct {
	repo              ports.UserRepository
	jwtSecret         []byte
	tokenTTL          time.Duration
	bootstrapUsername string
	log               zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, bootstrapUsername string, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:              repo,
		jwtSecret:         []byte(jwtSecret),
		tokenTTL:          tokenTTL,
		bootstrapUsername: bootstrapUsername,
		log:               log,
	}
}

// Login verifies the credentials and returns a signed token plus the user.
// Unknown usernames and wrong passwords both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Register creates a new account. An empty role defaults to "user".
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// ValidateToken checks signature and expiry and returns the token's subject.
// An otherwise-valid token past its expiry is ErrTokenExpired; every other
// failure is ErrTokenInvalid.
func (s *AuthService) ValidateToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// ResolveRole looks up the subject's current role. Unknown or errored lookups
// resolve to the unprivileged role so a stale token never grants admin.
func (s *AuthService) ResolveRole(ctx context.Context, username string) string {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Str("username", username).Msg("resolve role")
		}
		return domain.RoleUser
	}
	return user.Role
}

// UpdateProfile renames and/or re-passwords the account after verifying the
// current password. A rename issues a fresh token for the new subject.
func (s *AuthService) UpdateProfile(ctx context.Context, in ports.ProfileUpdateInput) (*ports.ProfileUpdateResult, error) {
	user, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	renamed := false
	if in.NewUsername != "" && in.NewUsername != user.Username {
		existing, err := s.repo.FindByUsername(ctx, in.NewUsername)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = in.NewUsername
		renamed = true
	}

	if in.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	result := &ports.ProfileUpdateResult{User: user}
	if renamed {
		token, err := s.issueToken(user.Username)
		if err != nil {
			return nil, err
		}
		result.Token = token
	}
	return result, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes the account unless it is the protected bootstrap admin.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == s.bootstrapUsername {
		return domain.ErrProtectedAccount
	}
	return s.repo.Delete(ctx, id)
}

// EnsureBootstrapAdmin creates the initial admin account when it does not
// exist yet. Called once at startup.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, password string) error {
	_, err := s.repo.FindByUsername(ctx, s.bootstrapUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	s.log.Info().Str("username", s.bootstrapUsername).Msg("creating bootstrap admin")
	_, err = s.Register(ctx, s.bootstrapUsername, password, domain.RoleAdmin)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func (s *AuthService) issueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
