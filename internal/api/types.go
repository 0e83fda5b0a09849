package api

import "github.com/saravenpi/parley/internal/models"

// Every response body carries an application-level status code alongside the
// transport status; non-success bodies carry a human-readable description.

// AuthResponse is the body returned by the login and register endpoints.
type AuthResponse struct {
	Status       int    `json:"status"`
	Description  string `json:"description,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	PrivateKey   string `json:"private_key"`
}

// ChatDetail is the body returned when fetching a single chat.
type ChatDetail struct {
	Status      int              `json:"status"`
	Description string           `json:"description,omitempty"`
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Avatar      string           `json:"avatar"`
	Messages    []models.Message `json:"messages"`
}

// CreateChatResponse is the body returned by the chat-creation endpoint.
type CreateChatResponse struct {
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	ChatID      string `json:"chatId"`
}

type userChatsResponse struct {
	Status      int           `json:"status"`
	Description string        `json:"description,omitempty"`
	ChatIDs     []models.Chat `json:"chatIds"`
}

type searchUserResponse struct {
	Status      int          `json:"status"`
	Description string       `json:"description,omitempty"`
	User        *models.User `json:"user"`
}

type createChatRequest struct {
	MemberIDs []string `json:"memberIds"`
	Direct    bool     `json:"direct"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"createdBy"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
