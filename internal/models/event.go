package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentEventType string

const (
	IncidentCreated IncidentEventType = "incident.created"
	IncidentUpdated IncidentEventType = "incident.updated"
	IncidentDeleted IncidentEventType = "incident.deleted"
)

// IncidentEvent - событие об изменении инцидента для внешних подписчиков
type IncidentEvent struct {
	Type       IncidentEventType `json:"type"`
	IncidentID uuid.UUID         `json:"incident_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Incident   *Incident         `json:"incident,omitempty"`
	Patch      *IncidentPatch    `json:"patch,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
