package dto

import "github.com/thereayou/rawrchat/internal/models"

// LoginRequest is the profile form; there are no passwords.
type LoginRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=32"`
	Age     string `json:"age" binding:"max=3"`
	Gender  string `json:"gender" binding:"max=32"`
	Country string `json:"country" binding:"max=64"`
	Avatar  string `json:"avatar"`
}

type LoginResponse struct {
	SessionID      string      `json:"sessionId"`
	Token          string      `json:"token"`
	TokenExpiresAt string      `json:"tokenExpiresAt"`
	User           models.User `json:"user"`
}
