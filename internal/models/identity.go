package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity - текущий аутентифицированный пользователь рабочей сессии браузера
type Identity struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// AuthUser - пользователь в ответах сервиса аутентификации
type AuthUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthSession - сессия, выданная сервисом аутентификации
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *AuthUser `json:"user,omitempty"`
}

// Expired сообщает, истек ли access token к моменту now
func (s *AuthSession) Expired(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// StoredSession - то, что сохраняется между запросами для рабочей сессии
type StoredSession struct {
	Session  AuthSession `json:"session"`
	Username string      `json:"username,omitempty"`
}

type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "signed_in"
	AuthEventSignedOut      AuthEventType = "signed_out"
	AuthEventTokenRefreshed AuthEventType = "token_refreshed"
)

// AuthEvent - асинхронное уведомление об изменении сессии.
// AccessToken - токен, к которому относится событие; пустой означает текущий.
type AuthEvent struct {
	Type        AuthEventType
	Session     *AuthSession
	AccessToken string
}

// NewIdentity строит Identity из пользователя сервиса аутентификации.
// Если username пуст, берется локальная часть e-mail, а затем "User".
func NewIdentity(user *AuthUser, username string, now time.Time) *Identity {
	if username == "" {
		username, _, _ = strings.Cut(user.Email, "@")
	}
	if username == "" {
		username = "User"
	}
	return &Identity{
		ID:              user.ID,
		Username:        username,
		Email:           user.Email,
		CreatedAt:       now,
		UpdatedAt:       now,
		IsAuthenticated: true,
	}
}
