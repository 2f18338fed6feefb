package ports

import (
	"context"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

// ProfileUpdateInput carries a profile change request. NewUsername and
// NewPassword are both optional; CurrentPassword is always required.
type ProfileUpdateInput struct {
	Username        string
	CurrentPassword string
	NewUsername     string
	NewPassword     string
}

// ProfileUpdateResult reports the applied change. Token is non-empty only when
// the username changed and a fresh token was issued for the new subject.
type ProfileUpdateResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	ValidateToken(token string) (string, error)
	ResolveRole(ctx context.Context, username string) string
	UpdateProfile(ctx context.Context, in ProfileUpdateInput) (*ProfileUpdateResult, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
