package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity - уровень важности инцидента, закрытое множество значений
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status - состояние обработки инцидента
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

var severityColors = map[Severity]string{
	SeverityLow:      "#10B981",
	SeverityMedium:   "#F59E0B",
	SeverityHigh:     "#F97316",
	SeverityCritical: "#EF4444",
}

var severityLabels = map[Severity]string{
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

// Severities возвращает все уровни важности по возрастанию
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// Statuses возвращает все статусы в порядке жизненного цикла
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
}

func (s Severity) Valid() bool {
	_, ok := severityLabels[s]
	return ok
}

// Color - цвет маркера и карточек на дашборде
func (s Severity) Color() string {
	return severityColors[s]
}

func (s Severity) Label() string {
	return severityLabels[s]
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Incident struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location - выбранная на карте точка
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// IncidentFormData - данные формы сообщения об инциденте
type IncidentFormData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Location    Location `json:"location"`
}

// IncidentPatch - частичное обновление инцидента. Nil означает "не менять".
type IncidentPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Severity    *Severity  `json:"severity,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Address     *string    `json:"address,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Empty сообщает, что в патче нет ни одного пользовательского поля
func (p IncidentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Severity == nil && p.Status == nil &&
		p.Latitude == nil && p.Longitude == nil && p.Address == nil
}

// Apply переносит заданные пользователем поля в инцидент.
// UpdatedAt не переносится: локальная копия меняется только на переданные поля.
func (p IncidentPatch) Apply(incident *Incident) {
	if p.Title != nil {
		incident.Title = *p.Title
	}
	if p.Description != nil {
		incident.Description = *p.Description
	}
	if p.Severity != nil {
		incident.Severity = *p.Severity
	}
	if p.Status != nil {
		incident.Status = *p.Status
	}
	if p.Latitude != nil {
		incident.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		incident.Longitude = *p.Longitude
	}
	if p.Address != nil {
		incident.Address = *p.Address
	}
}
