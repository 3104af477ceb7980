package models

import "fmt"

// Result - единый формат результата операций сессии и хранилища инцидентов
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func Ok() Result {
	return Result{Success: true}
}

func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// RemoteError - ошибка, которую вернуло удаленное хранилище.
// Сообщение показывается пользователю как есть.
type RemoteError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote store: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("remote store: %d: %s", e.Status, e.Message)
}
