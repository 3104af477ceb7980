package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shenikar/incident_reporter/internal/metrics"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	msgUnexpected   = "An unexpected error occurred"
	msgLoginFailed  = "Login failed"
	msgSignupFailed = "Signup failed"
)

// AuthProvider определяет контракт сервиса аутентификации удаленного хранилища
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignUp(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.AuthUser, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.AuthSession, error)
}

// SessionStore хранит сессии рабочих пространств между запросами и рестартами.
// Load возвращает nil, nil, если сессии нет.
type SessionStore interface {
	Load(ctx context.Context, workspaceID string) (*models.StoredSession, error)
	Save(ctx context.Context, workspaceID string, session *models.StoredSession) error
	Delete(ctx context.Context, workspaceID string) error
}

// IdentityListener вызывается при переходе identity между "нет" и "есть"
type IdentityListener func(ctx context.Context, prev, next *models.Identity)

// SessionManager держит identity одной рабочей сессии браузера
type SessionManager struct {
	workspaceID string
	auth        AuthProvider
	store       SessionStore
	logger      *logrus.Logger
	now         func() time.Time

	mu        sync.RWMutex
	identity  *models.Identity
	session   *models.AuthSession
	listeners []IdentityListener
}

func NewSessionManager(workspaceID string, auth AuthProvider, store SessionStore, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		workspaceID: workspaceID,
		auth:        auth,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// OnChange подписывает listener на смену identity
func (m *SessionManager) OnChange(listener IdentityListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Identity возвращает копию текущей identity или nil
func (m *SessionManager) Identity() *models.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	identity := *m.identity
	return &identity
}

// AccessToken возвращает токен текущей сессии или пустую строку
func (m *SessionManager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// Session возвращает копию текущей сессии или nil
func (m *SessionManager) Session() *models.AuthSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	session := *m.session
	return &session
}

func (m *SessionManager) log(method string) *logrus.Entry {
	return m.logger.WithFields(logrus.Fields{
		"service":   "session",
		"method":    method,
		"workspace": m.workspaceID,
	})
}

// Login аутентифицирует пользователя. Ошибки не выбрасываются наружу,
// а возвращаются в Result.
func (m *SessionManager) Login(ctx context.Context, email, password string) models.Result {
	log := m.log("Login").WithField("email", email)
	log.Info("Attempting to sign in")

	session, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		metrics.ObserveAuth("login", false)
		return failure(log, err, "Sign in rejected")
	}
	if session == nil || session.User == nil {
		metrics.ObserveAuth("login", false)
		log.Warn("Sign in returned no user")
		return models.Fail(msgLoginFailed)
	}

	identity := models.NewIdentity(session.User, "", m.now())
	m.persist(ctx, log, session, identity.Username)
	m.set(ctx, identity, session)

	metrics.ObserveAuth("login", true)
	log.WithField("user_id", identity.ID).Info("Signed in successfully")
	return models.Ok()
}

// Signup регистрирует пользователя; identity получает переданный username
func (m *SessionManager) Signup(ctx context.Context, email, password, username string) models.Result {
	log := m.log("Signup").WithField("email", email)
	log.Info("Attempting to sign up")

	session, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		metrics.ObserveAuth("signup", false)
		return failure(log, err, "Sign up rejected")
	}
	if session == nil || session.User == nil {
		metrics.ObserveAuth("signup", false)
		log.Warn("Sign up returned no user")
		return models.Fail(msgSignupFailed)
	}

	identity := models.NewIdentity(session.User, username, m.now())
	if session.AccessToken != "" {
		m.persist(ctx, log, session, identity.Username)
	}
	m.set(ctx, identity, session)

	metrics.ObserveAuth("signup", true)
	log.WithField("user_id", identity.ID).Info("Signed up successfully")
	return models.Ok()
}

// Logout отзывает удаленную сессию и безусловно очищает локальную identity
func (m *SessionManager) Logout(ctx context.Context) {
	log := m.log("Logout")

	if token := m.AccessToken(); token != "" {
		if err := m.auth.SignOut(ctx, token); err != nil {
			log.WithError(err).Warn("Failed to revoke remote session")
		}
	}
	if err := m.store.Delete(ctx, m.workspaceID); err != nil {
		log.WithError(err).Warn("Failed to delete stored session")
	}
	m.set(ctx, nil, nil)

	metrics.ObserveAuth("logout", true)
	log.Info("Signed out")
}

// Restore принимает уже действующую сохраненную сессию. Identity, выставленная
// через Login/Signup, не перезаписывается.
func (m *SessionManager) Restore(ctx context.Context) error {
	log := m.log("Restore")

	stored, err := m.store.Load(ctx, m.workspaceID)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	session := stored.Session
	if session.Expired(m.now()) {
		if session.RefreshToken == "" {
			log.Info("Stored session expired without refresh token, dropping it")
			m.drop(ctx, log)
			return nil
		}
		refreshed, err := m.auth.RefreshSession(ctx, session.RefreshToken)
		if err != nil {
			return m.restoreFailed(ctx, log, err)
		}
		session = *refreshed
	}

	user, err := m.auth.GetUser(ctx, session.AccessToken)
	if err != nil {
		return m.restoreFailed(ctx, log, err)
	}
	session.User = user

	identity := models.NewIdentity(user, stored.Username, m.now())
	if !m.adopt(ctx, identity, &session) {
		log.Debug("Identity already set, stored session ignored")
		return nil
	}
	m.persist(ctx, log, &session, identity.Username)

	metrics.ObserveAuth("restore", true)
	log.WithField("user_id", identity.ID).Info("Adopted stored session")
	return nil
}

func (m *SessionManager) restoreFailed(ctx context.Context, log *logrus.Entry, err error) error {
	metrics.ObserveAuth("restore", false)
	var remote *models.RemoteError
	if errors.As(err, &remote) {
		log.WithError(err).Info("Stored session rejected by remote store, dropping it")
		m.drop(ctx, log)
		return nil
	}
	return err
}

// HandleAuthEvent применяет асинхронное уведомление о сессии
func (m *SessionManager) HandleAuthEvent(ctx context.Context, event models.AuthEvent) {
	log := m.log("HandleAuthEvent").WithField("event", event.Type)

	if event.AccessToken != "" && event.AccessToken != m.AccessToken() {
		log.Debug("Event refers to a replaced session, ignoring")
		return
	}

	if event.Type == models.AuthEventSignedOut || event.Session == nil || event.Session.User == nil {
		log.Info("Session ended, clearing identity")
		m.drop(ctx, log)
		return
	}

	switch event.Type {
	case models.AuthEventSignedIn:
		identity := models.NewIdentity(event.Session.User, "", m.now())
		if m.adopt(ctx, identity, event.Session) {
			m.persist(ctx, log, event.Session, identity.Username)
			log.WithField("user_id", identity.ID).Info("Adopted signed in session")
		}
	case models.AuthEventTokenRefreshed:
		m.mu.Lock()
		if m.identity == nil {
			m.mu.Unlock()
			return
		}
		session := *event.Session
		m.session = &session
		username := m.identity.Username
		m.mu.Unlock()
		m.persist(ctx, log, &session, username)
		log.Debug("Session tokens refreshed")
	}
}

// drop удаляет сохраненную сессию и очищает identity
func (m *SessionManager) drop(ctx context.Context, log *logrus.Entry) {
	if err := m.store.Delete(ctx, m.workspaceID); err != nil {
		log.WithError(err).Warn("Failed to delete stored session")
	}
	m.set(ctx, nil, nil)
}

func (m *SessionManager) persist(ctx context.Context, log *logrus.Entry, session *models.AuthSession, username string) {
	stored := &models.StoredSession{Session: *session, Username: username}
	if err := m.store.Save(ctx, m.workspaceID, stored); err != nil {
		log.WithError(err).Warn("Failed to persist session")
	}
}

// set безусловно заменяет identity и сессию
func (m *SessionManager) set(ctx context.Context, identity *models.Identity, session *models.AuthSession) {
	m.mu.Lock()
	prev := m.identity
	m.identity = identity
	m.session = session
	listeners := append([]IdentityListener(nil), m.listeners...)
	m.mu.Unlock()

	notify(ctx, listeners, prev, identity)
}

// adopt выставляет identity только если ее еще нет
func (m *SessionManager) adopt(ctx context.Context, identity *models.Identity, session *models.AuthSession) bool {
	m.mu.Lock()
	if m.identity != nil {
		m.mu.Unlock()
		return false
	}
	copied := *session
	m.identity = identity
	m.session = &copied
	listeners := append([]IdentityListener(nil), m.listeners...)
	m.mu.Unlock()

	notify(ctx, listeners, nil, identity)
	return true
}

// notify сообщает слушателям о переходах. Смена пользователя без выхода
// раскладывается на два перехода: выход и вход.
func notify(ctx context.Context, listeners []IdentityListener, prev, next *models.Identity) {
	if prev != nil && next != nil {
		if prev.ID == next.ID {
			return
		}
		notify(ctx, listeners, prev, nil)
		notify(ctx, listeners, nil, next)
		return
	}
	if prev == nil && next == nil {
		return
	}
	for _, listener := range listeners {
		listener(ctx, prev, next)
	}
}

// failure превращает ошибку удаленного вызова в Result
func failure(log *logrus.Entry, err error, rejected string) models.Result {
	var remote *models.RemoteError
	if errors.As(err, &remote) {
		log.WithError(err).Warn(rejected)
		return models.Fail(remote.Message)
	}
	log.WithError(err).Error("Unexpected remote store failure")
	return models.Fail(msgUnexpected)
}
