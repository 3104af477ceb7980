package service

import (
	"context"
	"errors"
	"time"

	"github.com/shenikar/incident_reporter/internal/metrics"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentRefreshes = 8

// SessionWatcher - фоновый обработчик, который продлевает истекшие сессии
// и рассылает уведомления об их завершении
type SessionWatcher struct {
	registry *Registry
	auth     AuthProvider
	logger   *logrus.Logger
	interval time.Duration
	idleTTL  time.Duration
	now      func() time.Time
}

func NewSessionWatcher(registry *Registry, auth AuthProvider, logger *logrus.Logger, interval, idleTTL time.Duration) *SessionWatcher {
	return &SessionWatcher{
		registry: registry,
		auth:     auth,
		logger:   logger,
		interval: interval,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Start запускает горутину наблюдателя до отмены ctx
func (w *SessionWatcher) Start(ctx context.Context) {
	w.logger.Info("Starting session watcher...")
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping session watcher.")
				return
			case <-ticker.C:
				if err := w.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
					w.logger.WithError(err).Error("Session sweep failed")
				}
			}
		}
	}()
}

// Sweep выгружает простаивающие рабочие сессии и обрабатывает истекшие токены
func (w *SessionWatcher) Sweep(ctx context.Context) error {
	if evicted := w.registry.Evict(w.idleTTL); len(evicted) > 0 {
		w.logger.WithField("count", len(evicted)).Info("Evicted idle workspaces")
	}

	now := w.now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRefreshes)
	for _, ws := range w.registry.Snapshot() {
		session := ws.Session.Session()
		// сессии без токена (регистрация с подтверждением e-mail) не продлеваются
		if session == nil || session.AccessToken == "" || !session.Expired(now) {
			continue
		}
		g.Go(func() error {
			w.refresh(gctx, ws, session)
			return nil
		})
	}
	return g.Wait()
}

func (w *SessionWatcher) refresh(ctx context.Context, ws *Workspace, session *models.AuthSession) {
	log := w.logger.WithFields(logrus.Fields{
		"service":   "watcher",
		"method":    "refresh",
		"workspace": ws.ID,
	})

	signedOut := models.AuthEvent{Type: models.AuthEventSignedOut, AccessToken: session.AccessToken}
	if session.RefreshToken == "" {
		metrics.SessionRefreshesTotal.WithLabelValues("signed_out").Inc()
		ws.Session.HandleAuthEvent(ctx, signedOut)
		return
	}

	refreshed, err := w.auth.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		var remote *models.RemoteError
		if errors.As(err, &remote) {
			metrics.SessionRefreshesTotal.WithLabelValues("signed_out").Inc()
			log.WithError(err).Info("Session expired and could not be refreshed")
			ws.Session.HandleAuthEvent(ctx, signedOut)
			return
		}
		// сетевой сбой: попробуем на следующем тике
		metrics.SessionRefreshesTotal.WithLabelValues("error").Inc()
		log.WithError(err).Warn("Failed to refresh session")
		return
	}
	if refreshed.User == nil {
		refreshed.User = session.User
	}

	metrics.SessionRefreshesTotal.WithLabelValues("refreshed").Inc()
	ws.Session.HandleAuthEvent(ctx, models.AuthEvent{
		Type:        models.AuthEventTokenRefreshed,
		Session:     refreshed,
		AccessToken: session.AccessToken,
	})
}
