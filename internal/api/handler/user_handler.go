package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accountd/account-service/internal/core/ports"
)

// UserHandler handles user lookup and listing endpoints.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// List returns every account as its public projection.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  userResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	views, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toUserResponse(v))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID returns the public projection of one account.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	user, err := h.accounts.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user.Public()))
}

// AdminGetByID returns the full record (timestamps included, hash never)
// for privileged callers. Guarded by the admin RBAC middleware.
//
// @Summary      Get a user's full record
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  adminUserResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/users/{id} [get]
func (h *UserHandler) AdminGetByID(c echo.Context) error {
	user, err := h.accounts.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminUserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Roles,
		Photo:       user.Photo,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
