// Package supabase - клиент удаленного хранилища: GoTrue (аутентификация)
// и PostgREST (строки таблиц) поверх HTTPS.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shenikar/incident_reporter/internal/models"
)

// Client - клиент проекта Supabase, адресуемый URL и anon-ключом
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient создает клиент. timeout ограничивает каждый запрос целиком.
func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
	header map[string]string
}

// do выполняет запрос и декодирует JSON ответа в out (если out != nil)
func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token := r.token
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range r.header {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", r.path, err)
	}
	return nil
}

// errorBody покрывает форматы ошибок GoTrue (старый и новый) и PostgREST
type errorBody struct {
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorCode        string `json:"error_code"`
	Code             any    `json:"code"`
}

func decodeError(status int, raw []byte) error {
	remote := &models.RemoteError{Status: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		remote.Message = strings.TrimSpace(string(raw))
		if remote.Message == "" {
			remote.Message = http.StatusText(status)
		}
		return remote
	}

	for _, msg := range []string{body.Msg, body.ErrorDescription, body.Message, body.Error} {
		if msg != "" {
			remote.Message = msg
			break
		}
	}
	if remote.Message == "" {
		remote.Message = http.StatusText(status)
	}

	switch {
	case body.ErrorCode != "":
		remote.Code = body.ErrorCode
	case body.Code != nil:
		// PostgREST отдает строковый код, GoTrue - числовой статус
		if code, ok := body.Code.(string); ok {
			remote.Code = code
		}
	case body.Error != "" && body.Error != remote.Message:
		remote.Code = body.Error
	}
	return remote
}

// IsRemote сообщает, что ошибка пришла от самого хранилища, а не от сети
func IsRemote(err error) bool {
	var remote *models.RemoteError
	return errors.As(err, &remote)
}
