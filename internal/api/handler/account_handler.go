package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accountd/account-service/internal/core/ports"
)

// AccountHandler handles the authentication endpoints. It is a thin
// adapter: bind, validate, call the account service, serialize. Domain
// errors pass through to the central error handler for status mapping.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// SignUp registers a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/sign-up [post]
func (h *AccountHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payload, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		RemoteIP:    c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		User:        toUserResponse(payload.User),
		AccessToken: payload.AccessToken,
	})
}

// SignIn authenticates by email and password.
//
// @Summary      Sign in with credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials wrapped in data"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/sign-in [post]
func (h *AccountHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req.Data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payload, err := h.accounts.SignIn(c.Request().Context(), req.Data.Email, req.Data.Password, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		User:        toUserResponse(payload.User),
		AccessToken: payload.AccessToken,
	})
}

// SignInWithToken exchanges a valid access token for a fresh session.
//
// @Summary      Sign in with an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInWithTokenRequest  true  "Token wrapped in data"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/sign-in-with-token [post]
func (h *AccountHandler) SignInWithToken(c echo.Context) error {
	var req signInWithTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req.Data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payload, err := h.accounts.SignInWithToken(c.Request().Context(), req.Data.AccessToken, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		User:        toUserResponse(payload.User),
		AccessToken: payload.AccessToken,
	})
}
