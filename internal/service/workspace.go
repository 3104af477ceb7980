package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shenikar/incident_reporter/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Workspace - состояние одной сессии браузера: identity и зеркало инцидентов
type Workspace struct {
	ID        string
	Session   *SessionManager
	Incidents *IncidentStore

	restoreMu sync.Mutex
	restored  bool
	lastSeen  atomic.Int64
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// LastSeen - время последнего обращения к рабочей сессии
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Registry владеет рабочими сессиями на время жизни приложения
type Registry struct {
	auth      AuthProvider
	sessions  SessionStore
	repo      IncidentRepository
	geocoder  Geocoder
	publisher EventPublisher
	logger    *logrus.Logger
	opts      IncidentStoreOptions
	now       func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(auth AuthProvider, sessions SessionStore, repo IncidentRepository, geocoder Geocoder, publisher EventPublisher, logger *logrus.Logger, opts IncidentStoreOptions) *Registry {
	return &Registry{
		auth:       auth,
		sessions:   sessions,
		repo:       repo,
		geocoder:   geocoder,
		publisher:  publisher,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get возвращает рабочую сессию по id, создавая ее при первом обращении.
// Пока сохраненная сессия не принята или не отклонена удаленно, каждый
// запрос повторяет попытку восстановления.
func (r *Registry) Get(ctx context.Context, id string) *Workspace {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	if !ok {
		ws = r.newWorkspace(id)
		r.workspaces[id] = ws
		metrics.ActiveWorkspaces.Set(float64(len(r.workspaces)))
	}
	r.mu.Unlock()

	ws.touch(r.now())
	r.restore(ctx, ws)
	return ws
}

// restore отмечает сессию восстановленной только после успеха или
// окончательного отказа; временные сбои повторяются следующим запросом
func (r *Registry) restore(ctx context.Context, ws *Workspace) {
	ws.restoreMu.Lock()
	defer ws.restoreMu.Unlock()
	if ws.restored {
		return
	}
	// после явного входа сохраненная сессия уже не нужна
	if ws.Session.Identity() != nil {
		ws.restored = true
		return
	}

	if err := ws.Session.Restore(ctx); err != nil {
		r.logger.WithFields(logrus.Fields{
			"service":   "registry",
			"method":    "Get",
			"workspace": ws.ID,
		}).WithError(err).Warn("Failed to restore stored session, will retry on next request")
		return
	}
	ws.restored = true
}

func (r *Registry) newWorkspace(id string) *Workspace {
	clock := func() time.Time { return r.now() }
	session := NewSessionManager(id, r.auth, r.sessions, r.logger)
	session.now = clock
	incidents := NewIncidentStore(r.repo, r.geocoder, r.publisher, session, r.logger, r.opts)
	incidents.now = clock
	session.OnChange(incidents.HandleIdentityChange)
	return &Workspace{ID: id, Session: session, Incidents: incidents}
}

// Snapshot возвращает все рабочие сессии в памяти
func (r *Registry) Snapshot() []*Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Workspace, 0, len(r.workspaces))
	for _, ws := range r.workspaces {
		out = append(out, ws)
	}
	return out
}

// Evict выгружает рабочие сессии, к которым не обращались дольше idle.
// Сохраненная сессия остается в SessionStore и будет принята при следующем запросе.
func (r *Registry) Evict(idle time.Duration) []string {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := make([]string, 0)
	for id, ws := range r.workspaces {
		if ws.LastSeen().Before(cutoff) {
			delete(r.workspaces, id)
			evicted = append(evicted, id)
		}
	}
	metrics.ActiveWorkspaces.Set(float64(len(r.workspaces)))
	return evicted
}

// Len - число рабочих сессий в памяти
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
