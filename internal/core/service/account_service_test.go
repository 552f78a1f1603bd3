package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/accountd/account-service/internal/core/auth"
	"github.com/accountd/account-service/internal/core/domain"
	"github.com/accountd/account-service/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository with the same atomicity
// guarantee as the real store: Create rejects a duplicate email under a
// single lock, so concurrent registrations cannot both succeed.
type stubUserRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*domain.User
	byMail map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:   make(map[string]*domain.User),
		byMail: make(map[string]*domain.User),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMail[user.Email]; exists {
		return nil, domain.ErrEmailInUse
	}
	copy := cloneUser(user)
	r.seq++
	copy.ID = "user_" + strconv.Itoa(r.seq)
	r.byID[copy.ID] = cloneUser(copy)
	r.byMail[copy.Email] = r.byID[copy.ID]
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byMail[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// captureRecorder collects audit events synchronously.
type captureRecorder struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (c *captureRecorder) Enqueue(event domain.AuthEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureRecorder) last() (domain.AuthEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return domain.AuthEvent{}, false
	}
	return c.events[len(c.events)-1], true
}

func newTestService(repo ports.UserRepository, audit ports.AuditRecorder) (*AccountService, *auth.TokenService) {
	tokens := auth.NewTokenService("secret", 0)
	svc := NewAccountService(repo, auth.NewPasswordHasher(), tokens, nil, audit, zerolog.Nop())
	return svc, tokens
}

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	audit := &captureRecorder{}
	svc, tokens := newTestService(repo, audit)

	payload, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Alice",
		Email:       "alice@example.com",
		Password:    "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if payload.User.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if payload.User.Email != "alice@example.com" || payload.User.DisplayName != "Alice" {
		t.Fatalf("unexpected public view: %+v", payload.User)
	}
	if len(payload.User.Roles) != 1 || payload.User.Roles[0] != domain.RoleUser {
		t.Fatalf("expected default role set, got %v", payload.User.Roles)
	}
	if payload.User.Photo != domain.DefaultPhoto {
		t.Fatalf("expected default photo, got %q", payload.User.Photo)
	}

	claims, err := tokens.VerifyAndDecode(payload.AccessToken)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.UserID != payload.User.ID {
		t.Fatalf("token bound to %q, expected %q", claims.UserID, payload.User.ID)
	}

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "pass123" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}

	if event, ok := audit.last(); !ok || event.Action != domain.ActionSignUp || !event.Success {
		t.Fatalf("expected successful sign_up audit event, got %+v", event)
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	in := ports.RegisterInput{DisplayName: "Bob", Email: "bob@example.com", Password: "pass"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one persisted user, got %d", repo.count())
	}
}

func TestAccountService_Register_ConcurrentDuplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), ports.RegisterInput{
				DisplayName: "Racer",
				Email:       "race@example.com",
				Password:    "pass",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else if !errors.Is(err, domain.ErrEmailInUse) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", successes)
	}
	if repo.count() != 1 {
		t.Fatalf("expected exactly one persisted user, got %d", repo.count())
	}
}

func TestAccountService_SignIn(t *testing.T) {
	repo := newStubUserRepo()
	audit := &captureRecorder{}
	svc, _ := newTestService(repo, audit)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Carol",
		Email:       "a@x.com",
		Password:    "right",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.SignIn(context.Background(), "a@x.com", "wrong", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if event, ok := audit.last(); !ok || event.Action != domain.ActionSignIn || event.Success {
		t.Fatalf("expected failed sign_in audit event, got %+v", event)
	}

	payload, err := svc.SignIn(context.Background(), "a@x.com", "right", "")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if payload.User.Email != "a@x.com" {
		t.Fatalf("unexpected email %q", payload.User.Email)
	}
	if payload.AccessToken == "" {
		t.Fatalf("expected access token")
	}
}

func TestAccountService_SignIn_UnknownEmailIsIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Dave",
		Email:       "dave@example.com",
		Password:    "goodpass",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, unknownErr := svc.SignIn(context.Background(), "ghost@example.com", "goodpass", "")
	_, wrongErr := svc.SignIn(context.Background(), "dave@example.com", "badpass", "")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("failure messages must not reveal which field was wrong: %q vs %q",
			unknownErr.Error(), wrongErr.Error())
	}
}

func TestAccountService_SignInWithToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestService(repo, nil)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Eve",
		Email:       "eve@example.com",
		Password:    "pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	payload, err := svc.SignInWithToken(context.Background(), registered.AccessToken, "")
	if err != nil {
		t.Fatalf("SignInWithToken failed: %v", err)
	}
	if payload.User.ID != registered.User.ID {
		t.Fatalf("expected same user id %q, got %q", registered.User.ID, payload.User.ID)
	}

	if _, err := svc.SignInWithToken(context.Background(), "not-a-token", ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// a valid token for a user the store no longer knows
	orphan, err := tokens.Issue("user_999", nil)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := svc.SignInWithToken(context.Background(), orphan, ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_GetUserByID(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Frank",
		Email:       "frank@example.com",
		Password:    "pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.GetUserByID(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatalf("password hash must be cleared before leaving the service")
	}
	if user.Email != "frank@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}

	if _, err := svc.GetUserByID(context.Background(), "user_999"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// cacheStub returns a canned user and records writes.
type cacheStub struct {
	stored map[string]*domain.User
}

func (c *cacheStub) Get(_ context.Context, id string) (*domain.User, error) {
	return c.stored[id], nil
}

func (c *cacheStub) Set(_ context.Context, user *domain.User) error {
	c.stored[user.ID] = user
	return nil
}

func TestAccountService_GetUserByID_CacheReadThrough(t *testing.T) {
	repo := newStubUserRepo()
	cache := &cacheStub{stored: make(map[string]*domain.User)}
	tokens := auth.NewTokenService("secret", 0)
	svc := NewAccountService(repo, auth.NewPasswordHasher(), tokens, cache, nil, zerolog.Nop())

	registered, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Grace",
		Email:       "grace@example.com",
		Password:    "pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// first read populates the cache
	if _, err := svc.GetUserByID(context.Background(), registered.User.ID); err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	cached, ok := cache.stored[registered.User.ID]
	if !ok {
		t.Fatalf("expected cache to be populated")
	}
	if cached.PasswordHash != "" {
		t.Fatalf("cached entry must not carry a password hash")
	}

	// second read is served from the cache even if the store forgets the user
	repo.byID = make(map[string]*domain.User)
	repo.byMail = make(map[string]*domain.User)
	user, err := svc.GetUserByID(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("cached GetUserByID failed: %v", err)
	}
	if user.Email != "grace@example.com" {
		t.Fatalf("unexpected cached user: %+v", user)
	}
}

func TestAccountService_ListUsers_NeverLeaksHashes(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	for _, email := range []string{"one@example.com", "two@example.com", "three@example.com"} {
		if _, err := svc.Register(context.Background(), ports.RegisterInput{
			DisplayName: strings.SplitN(email, "@", 2)[0],
			Email:       email,
			Password:    "pass",
		}); err != nil {
			t.Fatalf("Register %s failed: %v", email, err)
		}
	}

	views, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 users, got %d", len(views))
	}

	raw, err := json.Marshal(views)
	if err != nil {
		t.Fatalf("marshal views: %v", err)
	}
	lower := strings.ToLower(string(raw))
	if strings.Contains(lower, "password") || strings.Contains(lower, "hash") || strings.Contains(lower, "$2a$") {
		t.Fatalf("serialized listing leaks password material: %s", raw)
	}
}
