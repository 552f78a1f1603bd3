package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/accountd/account-service/internal/core/domain"
	"github.com/accountd/account-service/internal/core/ports"
)

// stubAccounts returns canned results for each operation.
type stubAccounts struct {
	payload *ports.AuthPayload
	user    *domain.User
	views   []domain.PublicView
	err     error
}

func (s *stubAccounts) Register(context.Context, ports.RegisterInput) (*ports.AuthPayload, error) {
	return s.payload, s.err
}

func (s *stubAccounts) SignIn(context.Context, string, string, string) (*ports.AuthPayload, error) {
	return s.payload, s.err
}

func (s *stubAccounts) SignInWithToken(context.Context, string, string) (*ports.AuthPayload, error) {
	return s.payload, s.err
}

func (s *stubAccounts) GetUserByID(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAccounts) ListUsers(context.Context) ([]domain.PublicView, error) {
	return s.views, s.err
}

func testPayload() *ports.AuthPayload {
	return &ports.AuthPayload{
		User: domain.PublicView{
			ID:          "user_1",
			Roles:       []string{domain.RoleUser},
			DisplayName: "Alice",
			Email:       "alice@example.com",
			Photo:       domain.DefaultPhoto,
		},
		AccessToken: "signed.token.value",
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAccountHandler_SignUp(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccounts{payload: testPayload()})

	rec := doJSON(e, h.SignUp, http.MethodPost, "/api/auth/sign-up",
		`{"displayName":"Alice","email":"alice@example.com","password":"pass123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			ID   string   `json:"id"`
			Role []string `json:"role"`
			Data struct {
				DisplayName string `json:"displayName"`
				Email       string `json:"email"`
				Photo       string `json:"photo"`
			} `json:"data"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.ID != "user_1" || resp.User.Data.Email != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if resp.AccessToken != "signed.token.value" {
		t.Fatalf("unexpected token %q", resp.AccessToken)
	}

	lower := strings.ToLower(rec.Body.String())
	if strings.Contains(lower, "password") || strings.Contains(lower, "hash") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}
}

func TestAccountHandler_SignUp_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccounts{payload: testPayload()})

	rec := doJSON(e, h.SignUp, http.MethodPost, "/api/auth/sign-up",
		`{"displayName":"Alice","email":"not-an-email","password":"pass123"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_SignIn_WireShape(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccounts{payload: testPayload()})

	// credentials ride under "data"
	rec := doJSON(e, h.SignIn, http.MethodPost, "/api/auth/sign-in",
		`{"data":{"email":"alice@example.com","password":"pass123"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// missing wrapper fails validation
	rec = doJSON(e, h.SignIn, http.MethodPost, "/api/auth/sign-in",
		`{"email":"alice@example.com","password":"pass123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without data wrapper, got %d", rec.Code)
	}
}

func TestAccountHandler_SignInWithToken(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccounts{payload: testPayload()})

	rec := doJSON(e, h.SignInWithToken, http.MethodPost, "/api/auth/sign-in-with-token",
		`{"data":{"access_token":"signed.token.value"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
