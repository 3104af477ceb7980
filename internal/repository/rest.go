package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/shenikar/incident_reporter/internal/service"
	"github.com/shenikar/incident_reporter/internal/supabase"
)

// RESTIncidentRepository работает с таблицей incidents через PostgREST
// от имени пользователя; видимость строк определяют политики RLS проекта.
type RESTIncidentRepository struct {
	client *supabase.Client
}

func NewRESTIncidentRepository(client *supabase.Client) service.IncidentRepository {
	return &RESTIncidentRepository{client: client}
}

// List возвращает все строки, новые первыми
func (r *RESTIncidentRepository) List(ctx context.Context, accessToken string) ([]*models.Incident, error) {
	return r.client.ListIncidents(ctx, accessToken)
}

// Create вставляет строку; incident заполняется тем, что вернуло хранилище
func (r *RESTIncidentRepository) Create(ctx context.Context, accessToken string, incident *models.Incident) error {
	return r.client.InsertIncident(ctx, accessToken, incident)
}

func (r *RESTIncidentRepository) Update(ctx context.Context, accessToken string, id uuid.UUID, patch models.IncidentPatch) error {
	return r.client.UpdateIncident(ctx, accessToken, id, patch)
}

func (r *RESTIncidentRepository) Delete(ctx context.Context, accessToken string, id uuid.UUID) error {
	return r.client.DeleteIncident(ctx, accessToken, id)
}
