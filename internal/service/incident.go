package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/metrics"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	msgNotAuthenticated = "User not authenticated"
	msgReportFailed     = "Error reporting incident. Please try again."
	unknownLocation     = "Unknown location"
)

// IncidentRepository определяет контракт удаленного хранилища инцидентов.
// accessToken задает сессию, от имени которой выполняется вызов.
type IncidentRepository interface {
	List(ctx context.Context, accessToken string) ([]*models.Incident, error)
	Create(ctx context.Context, accessToken string, incident *models.Incident) error
	Update(ctx context.Context, accessToken string, id uuid.UUID, patch models.IncidentPatch) error
	Delete(ctx context.Context, accessToken string, id uuid.UUID) error
}

// Geocoder находит адрес по координатам. Пустая строка без ошибки
// означает, что сервис не вернул названия.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// EventPublisher публикует события об изменении инцидентов
type EventPublisher interface {
	Publish(ctx context.Context, event models.IncidentEvent) error
}

// SessionSource - то, что хранилищу инцидентов нужно от менеджера сессии
type SessionSource interface {
	Identity() *models.Identity
	AccessToken() string
}

// IncidentStoreOptions - настраиваемое поведение хранилища
type IncidentStoreOptions struct {
	// GeocodeFailureBlocks - сетевой сбой геокодирования отменяет создание инцидента
	GeocodeFailureBlocks bool
}

// IncidentStore - зеркало коллекции инцидентов в памяти для одной рабочей сессии.
// Источник истины - удаленное хранилище; синхронизация только через FetchAll.
type IncidentStore struct {
	repo      IncidentRepository
	geocoder  Geocoder
	publisher EventPublisher
	session   SessionSource
	logger    *logrus.Logger
	opts      IncidentStoreOptions
	now       func() time.Time

	mu        sync.RWMutex
	incidents []models.Incident
	loading   bool
}

func NewIncidentStore(repo IncidentRepository, geocoder Geocoder, publisher EventPublisher, session SessionSource, logger *logrus.Logger, opts IncidentStoreOptions) *IncidentStore {
	return &IncidentStore{
		repo:      repo,
		geocoder:  geocoder,
		publisher: publisher,
		session:   session,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
		incidents: make([]models.Incident, 0),
	}
}

// Incidents возвращает копию зеркала, новые первыми
func (s *IncidentStore) Incidents() []models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Incident, len(s.incidents))
	copy(out, s.incidents)
	return out
}

// Loading сообщает, идет ли сейчас полная загрузка
func (s *IncidentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Reset очищает зеркало
func (s *IncidentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = make([]models.Incident, 0)
	s.loading = false
}

// HandleIdentityChange - слушатель менеджера сессии: загрузка при входе, очистка при выходе
func (s *IncidentStore) HandleIdentityChange(ctx context.Context, prev, next *models.Identity) {
	switch {
	case prev == nil && next != nil:
		_ = s.FetchAll(ctx)
	case prev != nil && next == nil:
		s.Reset()
	}
}

func (s *IncidentStore) log(method string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  method,
	})
}

// FetchAll заменяет зеркало строками удаленного хранилища (created_at DESC).
// При ошибке зеркало остается пустым, частичного слияния нет.
func (s *IncidentStore) FetchAll(ctx context.Context) error {
	log := s.log("FetchAll")
	log.Info("Fetching incidents")

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	rows, err := s.repo.List(ctx, s.session.AccessToken())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		metrics.ObserveIncidentOp("fetch", false)
		log.WithError(err).Error("Error fetching incidents")
		s.incidents = make([]models.Incident, 0)
		return fmt.Errorf("service: could not fetch incidents: %w", err)
	}

	s.incidents = make([]models.Incident, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			s.incidents = append(s.incidents, *row)
		}
	}

	metrics.ObserveIncidentOp("fetch", true)
	log.WithField("count", len(s.incidents)).Info("Incidents fetched successfully")
	return nil
}

// Add создает инцидент со статусом open и добавляет его в начало зеркала
func (s *IncidentStore) Add(ctx context.Context, form models.IncidentFormData) models.Result {
	log := s.log("Add").WithField("title", form.Title)

	identity := s.session.Identity()
	if identity == nil {
		return models.Fail(msgNotAuthenticated)
	}
	log.Info("Attempting to report a new incident")

	address := strings.TrimSpace(form.Location.Address)
	if address == "" {
		name, err := s.geocoder.ReverseGeocode(ctx, form.Location.Lat, form.Location.Lng)
		switch {
		case err != nil && s.opts.GeocodeFailureBlocks:
			metrics.ObserveIncidentOp("add", false)
			log.WithError(err).Error("Error reporting incident: reverse geocoding failed")
			return models.Fail(msgReportFailed)
		case err != nil:
			log.WithError(err).Warn("Reverse geocoding failed, creating incident without address")
		case name == "":
			address = unknownLocation
		default:
			address = name
		}
	}

	incident := &models.Incident{
		Title:       form.Title,
		Description: form.Description,
		Severity:    form.Severity,
		Status:      models.StatusOpen,
		Latitude:    form.Location.Lat,
		Longitude:   form.Location.Lng,
		Address:     address,
		UserID:      identity.ID,
	}
	if err := s.repo.Create(ctx, s.session.AccessToken(), incident); err != nil {
		metrics.ObserveIncidentOp("add", false)
		return mutationFailure(log, err)
	}

	s.mu.Lock()
	s.incidents = append([]models.Incident{*incident}, s.incidents...)
	s.mu.Unlock()

	s.publish(ctx, log, models.IncidentEvent{
		Type:       models.IncidentCreated,
		IncidentID: incident.ID,
		UserID:     identity.ID,
		Incident:   incident,
	})

	metrics.ObserveIncidentOp("add", true)
	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return models.Ok()
}

// Update отправляет патч с новым updated_at и сливает переданные поля в локальную запись
func (s *IncidentStore) Update(ctx context.Context, id uuid.UUID, patch models.IncidentPatch) models.Result {
	log := s.log("Update").WithField("incident_id", id)
	log.Info("Attempting to update incident")

	now := s.now().UTC()
	patch.UpdatedAt = &now
	if err := s.repo.Update(ctx, s.session.AccessToken(), id, patch); err != nil {
		metrics.ObserveIncidentOp("update", false)
		return mutationFailure(log, err)
	}

	s.mu.Lock()
	for i := range s.incidents {
		if s.incidents[i].ID == id {
			patch.Apply(&s.incidents[i])
		}
	}
	s.mu.Unlock()

	event := models.IncidentEvent{Type: models.IncidentUpdated, IncidentID: id, Patch: &patch}
	if identity := s.session.Identity(); identity != nil {
		event.UserID = identity.ID
	}
	s.publish(ctx, log, event)

	metrics.ObserveIncidentOp("update", true)
	log.Info("Incident updated successfully")
	return models.Ok()
}

// Delete удаляет инцидент удаленно и из зеркала
func (s *IncidentStore) Delete(ctx context.Context, id uuid.UUID) models.Result {
	log := s.log("Delete").WithField("incident_id", id)
	log.Info("Attempting to delete incident")

	if err := s.repo.Delete(ctx, s.session.AccessToken(), id); err != nil {
		metrics.ObserveIncidentOp("delete", false)
		return mutationFailure(log, err)
	}

	s.mu.Lock()
	kept := s.incidents[:0:0]
	for _, incident := range s.incidents {
		if incident.ID != id {
			kept = append(kept, incident)
		}
	}
	s.incidents = kept
	s.mu.Unlock()

	event := models.IncidentEvent{Type: models.IncidentDeleted, IncidentID: id}
	if identity := s.session.Identity(); identity != nil {
		event.UserID = identity.ID
	}
	s.publish(ctx, log, event)

	metrics.ObserveIncidentOp("delete", true)
	log.Info("Incident deleted successfully")
	return models.Ok()
}

func (s *IncidentStore) publish(ctx context.Context, log *logrus.Entry, event models.IncidentEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish incident event")
	}
}

// mutationFailure: отказ хранилища - его сообщение, остальное - общее сообщение
func mutationFailure(log *logrus.Entry, err error) models.Result {
	var remote *models.RemoteError
	if errors.As(err, &remote) {
		log.WithError(err).Warn("Remote store rejected the mutation")
		return models.Fail(remote.Message)
	}
	log.WithError(err).Error("Unexpected failure while mutating incidents")
	return models.Fail(msgUnexpected)
}
