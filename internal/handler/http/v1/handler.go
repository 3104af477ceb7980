package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/shenikar/incident_reporter/internal/service"
	"github.com/shenikar/incident_reporter/internal/view"
	"github.com/sirupsen/logrus"
)

const msgLocationRequired = "Please select a location on the map"

type Handler struct {
	registry *service.Registry
	logger   *logrus.Logger
	validate *validator.Validate
	cfg      *config.Config
}

func NewHandler(registry *service.Registry, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// bindJSON разбирает и валидирует тело запроса; при ошибке ответ уже отправлен
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ResultResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ResultResponse{Error: err.Error()})
		return false
	}
	return true
}

// writeResult отвечает результатом операции: success -> okStatus, иначе failStatus
func writeResult(c *gin.Context, result models.Result, okStatus, failStatus int) {
	status := okStatus
	if !result.Success {
		status = failStatus
	}
	c.JSON(status, ResultToResponse(result))
}

func parseIncidentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ResultResponse{Error: "invalid incident ID"})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Sign in
// @Description Sign in with e-mail and password. Binds the session to the browser cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} ResultResponse
// @Failure 400 {object} ResultResponse "Invalid request body or validation error"
// @Failure 401 {object} ResultResponse "Rejected credentials"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	log := h.logger.WithField("method", "login")

	var input LoginRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	result := workspaceFrom(c).Session.Login(c.Request.Context(), input.Email, input.Password)
	writeResult(c, result, http.StatusOK, http.StatusUnauthorized)
}

// @Summary Sign up
// @Description Register a new user. The username is kept for the session identity.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignupRequest true "Signup request"
// @Success 200 {object} ResultResponse
// @Failure 400 {object} ResultResponse "Invalid request, validation error or rejected signup"
// @Router /auth/signup [post]
func (h *Handler) signup(c *gin.Context) {
	log := h.logger.WithField("method", "signup")

	var input SignupRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	result := workspaceFrom(c).Session.Signup(c.Request.Context(), input.Email, input.Password, input.Username)
	writeResult(c, result, http.StatusOK, http.StatusBadRequest)
}

// @Summary Sign out
// @Description Invalidate the remote session and clear the local identity
// @Tags Auth
// @Produce json
// @Success 200 {object} ResultResponse
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	workspaceFrom(c).Session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, ResultToResponse(models.Ok()))
}

// @Summary Current identity
// @Description Get the identity bound to this browser session, or null
// @Tags Auth
// @Produce json
// @Success 200 {object} MeResponse
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	identity := workspaceFrom(c).Session.Identity()
	c.JSON(http.StatusOK, MeResponse{Identity: IdentityToResponse(identity)})
}

// @Summary Get a list of incidents
// @Description Get the incidents of the session mirror, newest first, filtered by severity and status
// @Tags Incidents
// @Produce json
// @Param severity query string false "Severity or all" Enums(all, low, medium, high, critical)
// @Param status query string false "Status or all" Enums(all, open, in_progress, resolved, closed)
// @Success 200 {object} ListIncidentsResponse
// @Failure 400 {object} ResultResponse "Invalid filter"
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	var query ListIncidentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, ResultResponse{Error: "invalid query"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ResultResponse{Error: err.Error()})
		return
	}

	store := workspaceFrom(c).Incidents
	filter := QueryToFilter(query)
	filtered := filter.Apply(store.Incidents())

	c.JSON(http.StatusOK, ListIncidentsResponse{
		Incidents: ModelsToIncidentResponses(filtered),
		Total:     len(filtered),
		Severity:  filter.Severity,
		Status:    filter.Status,
		Loading:   store.Loading(),
	})
}

// @Summary Report a new incident
// @Description Create an incident with status open. The address is looked up when not provided.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} ResultResponse
// @Failure 400 {object} ResultResponse "Invalid request body, validation error or no location selected"
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Failure 422 {object} ResultResponse "Rejected by the remote store"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	log := h.logger.WithField("method", "createIncident")

	var input CreateIncidentRequest
	if !h.bindJSON(c, log, &input) {
		return
	}
	if input.Location.Lat == 0 || input.Location.Lng == 0 {
		log.Warn("Incident location is not selected")
		c.JSON(http.StatusBadRequest, ResultResponse{Error: msgLocationRequired})
		return
	}

	result := workspaceFrom(c).Incidents.Add(c.Request.Context(), CreateRequestToFormData(input))
	writeResult(c, result, http.StatusCreated, http.StatusUnprocessableEntity)
}

// @Summary Reload incidents
// @Description Replace the session mirror with the rows of the remote store
// @Tags Incidents
// @Produce json
// @Success 200 {object} ResultResponse
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Failure 502 {object} ResultResponse "Remote store unavailable"
// @Router /incidents/refresh [post]
func (h *Handler) refreshIncidents(c *gin.Context) {
	if err := workspaceFrom(c).Incidents.FetchAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, ResultResponse{Error: "Failed to load incidents"})
		return
	}
	c.JSON(http.StatusOK, ResultToResponse(models.Ok()))
}

// @Summary Update an existing incident
// @Description Update the supplied fields of an incident by ID
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} ResultResponse
// @Failure 400 {object} ResultResponse "Invalid incident ID or request body"
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Failure 422 {object} ResultResponse "Rejected by the remote store"
// @Router /incidents/{id} [patch]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
	if !h.bindJSON(c, log, &input) {
		return
	}
	patch := UpdateRequestToPatch(input)
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, ResultResponse{Error: "no fields to update"})
		return
	}

	result := workspaceFrom(c).Incidents.Update(c.Request.Context(), id, patch)
	writeResult(c, result, http.StatusOK, http.StatusUnprocessableEntity)
}

// @Summary Delete an incident
// @Description Delete an incident by its ID
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} ResultResponse
// @Failure 400 {object} ResultResponse "Invalid incident ID"
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Failure 422 {object} ResultResponse "Rejected by the remote store"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}

	result := workspaceFrom(c).Incidents.Delete(c.Request.Context(), id)
	writeResult(c, result, http.StatusOK, http.StatusUnprocessableEntity)
}

// @Summary Dashboard summary
// @Description Totals of the session mirror grouped by severity and by status
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SummaryResponse
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Router /dashboard/summary [get]
func (h *Handler) getSummary(c *gin.Context) {
	incidents := workspaceFrom(c).Incidents.Incidents()
	c.JSON(http.StatusOK, SummaryToResponse(view.Summarize(incidents)))
}

// @Summary Map markers
// @Description Markers for incidents with a location, the default map center and the markers bounds
// @Tags Map
// @Produce json
// @Success 200 {object} MarkersResponse
// @Failure 401 {object} ResultResponse "Unauthorized"
// @Router /map/markers [get]
func (h *Handler) getMarkers(c *gin.Context) {
	incidents := workspaceFrom(c).Incidents.Incidents()
	c.JSON(http.StatusOK, MarkersToResponse(view.Markers(incidents)))
}

// @Summary Reference values
// @Description Severities with labels and colors, statuses with labels
// @Tags System
// @Produce json
// @Success 200 {object} MetaResponse
// @Router /meta [get]
func (h *Handler) getMeta(c *gin.Context) {
	c.JSON(http.StatusOK, MetaToResponse())
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
