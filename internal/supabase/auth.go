package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shenikar/incident_reporter/internal/models"
)

// sessionResponse - ответ GoTrue на выдачу токена или регистрацию.
// При включенном подтверждении e-mail регистрация возвращает голого пользователя,
// поэтому поля пользователя продублированы на верхнем уровне.
type sessionResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	ExpiresAt    int64            `json:"expires_at"`
	User         *models.AuthUser `json:"user"`

	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) toSession(resp *sessionResponse) (*models.AuthSession, error) {
	session := &models.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}
	switch {
	case resp.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		session.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	case resp.AccessToken != "":
		// старые версии GoTrue не возвращают срок жизни, берем exp из самого токена
		if exp, ok := TokenExpiry(resp.AccessToken); ok {
			session.ExpiresAt = exp
		}
	}

	if session.User == nil && resp.ID != "" {
		user := &models.AuthUser{Email: resp.Email, CreatedAt: resp.CreatedAt}
		if err := user.ID.UnmarshalText([]byte(resp.ID)); err != nil {
			return nil, fmt.Errorf("invalid user id in auth response: %w", err)
		}
		session.User = user
	}
	return session, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword аутентифицирует пользователя по e-mail и паролю
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.toSession(&resp)
}

// SignUp регистрирует нового пользователя. Токены могут отсутствовать,
// если проект требует подтверждения e-mail.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.AuthSession, error) {
	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.toSession(&resp)
}

// SignOut отзывает сессию на стороне GoTrue
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  accessToken,
	}, nil)
}

// GetUser возвращает пользователя, которому принадлежит access token
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.AuthUser, error) {
	var user models.AuthUser
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  accessToken,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshSession обменивает refresh token на новую сессию
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	var resp sessionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.toSession(&resp)
}
