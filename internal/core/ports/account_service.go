package ports

import (
	"context"

	"github.com/accountd/account-service/internal/core/domain"
)

// AuthPayload is the result of every successful authentication operation:
// the public projection of the account plus a freshly issued access token.
type AuthPayload struct {
	User        domain.PublicView
	AccessToken string
}

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	DisplayName string
	Email       string
	Password    string
	RemoteIP    string
}

// AccountService orchestrates registration, credential verification and
// token-based sign-in.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthPayload, error)
	SignIn(ctx context.Context, email, password, remoteIP string) (*AuthPayload, error)
	SignInWithToken(ctx context.Context, token, remoteIP string) (*AuthPayload, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.PublicView, error)
}
