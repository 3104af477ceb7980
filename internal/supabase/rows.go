package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/models"
)

const incidentsPath = "/rest/v1/incidents"

// incidentInsert - тело вставки: id и временные метки назначает хранилище
type incidentInsert struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Severity    models.Severity `json:"severity"`
	Status      models.Status   `json:"status"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Address     string          `json:"address,omitempty"`
	UserID      uuid.UUID       `json:"user_id"`
}

// ListIncidents возвращает все видимые сессии строки, новые первыми
func (c *Client) ListIncidents(ctx context.Context, accessToken string) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   incidentsPath,
		query:  url.Values{"select": {"*"}, "order": {"created_at.desc"}},
		token:  accessToken,
	}, &incidents)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return incidents, nil
}

// InsertIncident вставляет строку и заполняет incident тем, что вернуло хранилище
func (c *Client) InsertIncident(ctx context.Context, accessToken string, incident *models.Incident) error {
	var rows []*models.Incident
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   incidentsPath,
		query:  url.Values{"select": {"*"}},
		token:  accessToken,
		body: incidentInsert{
			Title:       incident.Title,
			Description: incident.Description,
			Severity:    incident.Severity,
			Status:      incident.Status,
			Latitude:    incident.Latitude,
			Longitude:   incident.Longitude,
			Address:     incident.Address,
			UserID:      incident.UserID,
		},
		header: map[string]string{"Prefer": "return=representation"},
	}, &rows)
	if err != nil {
		return fmt.Errorf("failed to insert incident: %w", err)
	}
	if len(rows) != 1 {
		return fmt.Errorf("failed to insert incident: expected 1 row, got %d", len(rows))
	}
	*incident = *rows[0]
	return nil
}

// UpdateIncident применяет патч к строке с данным id
func (c *Client) UpdateIncident(ctx context.Context, accessToken string, id uuid.UUID, patch models.IncidentPatch) error {
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   incidentsPath,
		query:  url.Values{"id": {"eq." + id.String()}},
		token:  accessToken,
		body:   patch,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to update incident %s: %w", id, err)
	}
	return nil
}

// DeleteIncident удаляет строку с данным id
func (c *Client) DeleteIncident(ctx context.Context, accessToken string, id uuid.UUID) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   incidentsPath,
		query:  url.Values{"id": {"eq." + id.String()}},
		token:  accessToken,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete incident %s: %w", id, err)
	}
	return nil
}
