package handler

import "github.com/accountd/account-service/internal/core/domain"

// --- Request types ---

type signUpRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// signInRequest nests the credentials under "data", matching the wire
// format the web client already sends.
type signInRequest struct {
	Data credentials `json:"data"`
}

type tokenData struct {
	AccessToken string `json:"access_token" validate:"required"`
}

type signInWithTokenRequest struct {
	Data tokenData `json:"data"`
}

// --- Response types ---

type userData struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Photo       string `json:"photo"`
}

type userResponse struct {
	ID   string   `json:"id"`
	Role []string `json:"role"`
	Data userData `json:"data"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

type adminUserResponse struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email"`
	Role        []string `json:"role"`
	Photo       string   `json:"photo"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toUserResponse(v domain.PublicView) userResponse {
	return userResponse{
		ID:   v.ID,
		Role: v.Roles,
		Data: userData{
			DisplayName: v.DisplayName,
			Email:       v.Email,
			Photo:       v.Photo,
		},
	}
}
