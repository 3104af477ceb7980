package v1

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest DTO для входа
// @Description DTO для входа по e-mail и паролю
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest DTO для регистрации
// @Description DTO для регистрации нового пользователя
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,min=1,max=50"`
}

// LocationRequest - координата инцидента; address необязателен.
// Нулевая широта или долгота считается невыбранной точкой.
type LocationRequest struct {
	Lat     float64 `json:"lat" validate:"latitude"`
	Lng     float64 `json:"lng" validate:"longitude"`
	Address string  `json:"address,omitempty" validate:"omitempty,max=500"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=255"`
	Description string          `json:"description" validate:"required"`
	Severity    string          `json:"severity" validate:"required,oneof=low medium high critical"`
	Location    *LocationRequest `json:"location" validate:"required"`
}

// UpdateIncidentRequest DTO для частичного обновления инцидента
// @Description DTO для частичного обновления инцидента; передаются только изменяемые поля
type UpdateIncidentRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Severity    *string  `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved closed"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Address     *string  `json:"address,omitempty" validate:"omitempty,max=500"`
}

// ListIncidentsQuery - параметры фильтра списка
type ListIncidentsQuery struct {
	Severity string `form:"severity" validate:"omitempty,oneof=all low medium high critical"`
	Status   string `form:"status" validate:"omitempty,oneof=all open in_progress resolved closed"`
}

// ResultResponse DTO результата операции
// @Description Единый результат операции: success и сообщение об ошибке
type ResultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// IdentityResponse DTO текущего пользователя
// @Description DTO текущего пользователя
type IdentityResponse struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// MeResponse DTO состояния сессии
type MeResponse struct {
	Identity *IdentityResponse `json:"identity"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListIncidentsResponse DTO отфильтрованного списка
type ListIncidentsResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	Total     int                `json:"total"`
	Severity  string             `json:"severity"`
	Status    string             `json:"status"`
	Loading   bool               `json:"loading"`
}

// SummaryResponse DTO карточек дашборда
type SummaryResponse struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByStatus   map[string]int `json:"by_status"`
}

// PointResponse - координата на карте
type PointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MarkerResponse - маркер карты
type MarkerResponse struct {
	Incident IncidentResponse `json:"incident"`
	Color    string           `json:"color"`
	Label    string           `json:"label"`
}

// BoundsResponse - охват маркеров
type BoundsResponse struct {
	SouthWest PointResponse `json:"south_west"`
	NorthEast PointResponse `json:"north_east"`
}

// MarkersResponse DTO карты
// @Description Маркеры карты, центр по умолчанию и охват маркеров
type MarkersResponse struct {
	Markers       []MarkerResponse `json:"markers"`
	DefaultCenter PointResponse    `json:"default_center"`
	Bounds        *BoundsResponse  `json:"bounds,omitempty"`
}

// OptionResponse - значение справочника для форм и фильтров
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// MetaResponse DTO справочников
type MetaResponse struct {
	Severities []OptionResponse `json:"severities"`
	Statuses   []OptionResponse `json:"statuses"`
}
