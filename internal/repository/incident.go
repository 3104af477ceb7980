package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/shenikar/incident_reporter/internal/service"
)

const incidentColumns = `id, title, description, severity, status, latitude, longitude, address, user_id, created_at, updated_at`

// dbExecutor - часть pgxpool.Pool, которой пользуется репозиторий
type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresIncidentRepository работает с таблицей incidents напрямую через пул pgx.
// Соединение идет с правами DATABASE_URL, accessToken не используется.
type PostgresIncidentRepository struct {
	db dbExecutor
}

func NewPostgresIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &PostgresIncidentRepository{db: db}
}

// List возвращает все инциденты, новые первыми
func (r *PostgresIncidentRepository) List(ctx context.Context, _ string) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeError("list incidents", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		if err := scanIncident(rows, incident); err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// Create вставляет инцидент; id и временные метки назначает база
func (r *PostgresIncidentRepository) Create(ctx context.Context, _ string, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (title, description, severity, status, latitude, longitude, address, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + incidentColumns + `;
	`
	var address *string
	if incident.Address != "" {
		address = &incident.Address
	}
	row := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Severity,
		incident.Status,
		incident.Latitude,
		incident.Longitude,
		address,
		incident.UserID,
	)
	if err := scanIncident(row, incident); err != nil {
		return storeError("create incident", err)
	}
	return nil
}

// Update применяет только переданные поля патча.
// Как и фильтр id=eq. в PostgREST, отсутствие строки ошибкой не считается.
func (r *PostgresIncidentRepository) Update(ctx context.Context, _ string, id uuid.UUID, patch models.IncidentPatch) error {
	query, args := buildUpdate(id, patch)
	if _, err := r.db.Exec(ctx, query, args); err != nil {
		return storeError("update incident", err)
	}
	return nil
}

func (r *PostgresIncidentRepository) Delete(ctx context.Context, _ string, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id); err != nil {
		return storeError("delete incident", err)
	}
	return nil
}

// buildUpdate собирает UPDATE с именованными аргументами pgx
func buildUpdate(id uuid.UUID, patch models.IncidentPatch) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{"id": id}
	sets := make([]string, 0, 8)

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = @%s", column, column))
		args[column] = value
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Severity != nil {
		set("severity", *patch.Severity)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Latitude != nil {
		set("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		set("longitude", *patch.Longitude)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.UpdatedAt != nil {
		set("updated_at", *patch.UpdatedAt)
	} else {
		sets = append(sets, "updated_at = NOW()")
	}

	return fmt.Sprintf("UPDATE incidents SET %s WHERE id = @id;", strings.Join(sets, ", ")), args
}

func scanIncident(row pgx.Row, incident *models.Incident) error {
	var address *string
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Severity,
		&incident.Status,
		&incident.Latitude,
		&incident.Longitude,
		&address,
		&incident.UserID,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return err
	}
	incident.Address = ""
	if address != nil {
		incident.Address = *address
	}
	return nil
}

// storeError переводит ошибки Postgres в RemoteError, чтобы сообщение базы
// дошло до пользователя так же, как через PostgREST
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	status := http.StatusInternalServerError
	switch pgErr.Code {
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation:
		status = http.StatusBadRequest
	case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation:
		status = http.StatusConflict
	case pgerrcode.InsufficientPrivilege:
		status = http.StatusForbidden
	}
	return fmt.Errorf("failed to %s: %w", op, &models.RemoteError{
		Status:  status,
		Code:    pgErr.Code,
		Message: pgErr.Message,
	})
}
