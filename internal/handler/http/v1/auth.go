package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/shenikar/incident_reporter/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	// SessionCookie - cookie, по которой запрос привязывается к рабочей сессии
	SessionCookie = "incident_session"
	workspaceKey  = "workspace"
)

// WorkspaceMiddleware находит рабочую сессию браузера по cookie и создает
// новую, если cookie нет или она повреждена
func WorkspaceMiddleware(registry *service.Registry, cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err == nil {
			if _, parseErr := uuid.Parse(id); parseErr != nil {
				log.WithField("cookie", id).Warn("Malformed session cookie, issuing a new one")
				err = parseErr
			}
		}
		if err != nil {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(cfg.SessionTTL.Seconds()), "/", "", cfg.SessionCookieSecure, true)

		c.Set(workspaceKey, registry.Get(c.Request.Context(), id))
		c.Next()
	}
}

// RequireIdentity - middleware для маршрутов, доступных только после входа
func RequireIdentity(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspaceFrom(c)
		if ws == nil || ws.Session.Identity() == nil {
			log.WithField("path", c.FullPath()).Debug("Request without identity rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ResultResponse{Error: "User not authenticated"})
			return
		}
		c.Next()
	}
}

func workspaceFrom(c *gin.Context) *service.Workspace {
	value, ok := c.Get(workspaceKey)
	if !ok {
		return nil
	}
	ws, _ := value.(*service.Workspace)
	return ws
}
