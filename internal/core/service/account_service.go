package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/accountd/account-service/internal/api/metrics"
	"github.com/accountd/account-service/internal/core/auth"
	"github.com/accountd/account-service/internal/core/domain"
	"github.com/accountd/account-service/internal/core/ports"
)

// UserCache abstracts the read-through profile cache (Redis). Get returns
// (nil, nil) on a miss. Cache failures must never fail the request; the
// service degrades to a store read.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}

// AccountService implements registration, credential sign-in and
// token-based sign-in. Each operation is a single request-scoped sequence;
// the only cross-request invariant (email uniqueness) lives in the store.
type AccountService struct {
	repo   ports.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
	cache  UserCache
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

func NewAccountService(
	repo ports.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	cache UserCache,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		audit:  audit,
		log:    log,
	}
}

// Register creates a new account and returns its public view with a fresh
// access token. Duplicate emails are rejected twice: a fast pre-check here,
// and atomically by the store's unique index, which is what actually closes
// the concurrent sign-up race.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthPayload, error) {
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		s.record(domain.ActionSignUp, "", in.Email, in.RemoteIP, false)
		return nil, domain.ErrEmailInUse
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        []string{domain.RoleUser},
		Photo:        domain.DefaultPhoto,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			s.record(domain.ActionSignUp, "", in.Email, in.RemoteIP, false)
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	s.record(domain.ActionSignUp, created.ID, created.Email, in.RemoteIP, true)
	s.log.Info().Str("user_id", created.ID).Msg("account registered")

	return s.buildPayload(created)
}

// SignIn verifies credentials and returns the auth payload. An unknown
// email and a wrong password both report ErrInvalidCredentials so that
// failure responses do not reveal which field was wrong.
func (s *AccountService) SignIn(ctx context.Context, email, password, remoteIP string) (*ports.AuthPayload, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.SignInsTotal.WithLabelValues("password", "failure").Inc()
			s.record(domain.ActionSignIn, "", email, remoteIP, false)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.SignInsTotal.WithLabelValues("password", "failure").Inc()
		s.record(domain.ActionSignIn, user.ID, email, remoteIP, false)
		return nil, domain.ErrInvalidCredentials
	}

	metrics.SignInsTotal.WithLabelValues("password", "success").Inc()
	s.record(domain.ActionSignIn, user.ID, email, remoteIP, true)

	return s.buildPayload(user)
}

// SignInWithToken exchanges a valid access token for a fresh auth payload.
// The token's signature is verified before its user id is trusted.
func (s *AccountService) SignInWithToken(ctx context.Context, token, remoteIP string) (*ports.AuthPayload, error) {
	claims, err := s.tokens.VerifyAndDecode(token)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("token", "failure").Inc()
		s.record(domain.ActionSignInToken, "", "", remoteIP, false)
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.SignInsTotal.WithLabelValues("token", "failure").Inc()
			s.record(domain.ActionSignInToken, claims.UserID, "", remoteIP, false)
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("sign in with token: %w", err)
	}

	metrics.SignInsTotal.WithLabelValues("token", "success").Inc()
	s.record(domain.ActionSignInToken, user.ID, user.Email, remoteIP, true)

	return s.buildPayload(user)
}

// GetUserByID returns the account with the password hash cleared. Reads go
// through the profile cache when one is configured.
func (s *AccountService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed, falling back to store")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.PasswordHash = ""
	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
		}
	}
	return user, nil
}

// ListUsers returns the public projection of every account.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.PublicView, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]domain.PublicView, 0, len(users))
	for _, u := range users {
		views = append(views, u.Public())
	}
	return views, nil
}

// buildPayload projects the user and attaches a freshly issued token.
func (s *AccountService) buildPayload(user *domain.User) (*ports.AuthPayload, error) {
	token, err := s.tokens.Issue(user.ID, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthPayload{User: user.Public(), AccessToken: token}, nil
}

func (s *AccountService) record(action domain.AuthAction, userID, email, remoteIP string, success bool) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuthEvent{
		UserID:     userID,
		Email:      email,
		Action:     action,
		Success:    success,
		RemoteIP:   remoteIP,
		RecordedAt: time.Now().UTC(),
	})
}
