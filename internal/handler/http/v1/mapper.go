package v1

import (
	"strings"

	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/shenikar/incident_reporter/internal/view"
)

// CreateRequestToFormData преобразует DTO создания в данные формы
func CreateRequestToFormData(req CreateIncidentRequest) models.IncidentFormData {
	form := models.IncidentFormData{
		Title:       req.Title,
		Description: req.Description,
		Severity:    models.Severity(req.Severity),
	}
	if req.Location != nil {
		form.Location = models.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: req.Location.Address,
		}
	}
	return form
}

// UpdateRequestToPatch переносит только переданные поля
func UpdateRequestToPatch(req UpdateIncidentRequest) models.IncidentPatch {
	patch := models.IncidentPatch{
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
	}
	if req.Severity != nil {
		severity := models.Severity(*req.Severity)
		patch.Severity = &severity
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		patch.Status = &status
	}
	return patch
}

func QueryToFilter(q ListIncidentsQuery) view.Filter {
	return view.Filter{Severity: q.Severity, Status: q.Status}.Normalize()
}

func ResultToResponse(result models.Result) ResultResponse {
	return ResultResponse{Success: result.Success, Error: result.Error}
}

func IdentityToResponse(identity *models.Identity) *IdentityResponse {
	if identity == nil {
		return nil
	}
	return &IdentityResponse{
		ID:              identity.ID,
		Username:        identity.Username,
		Email:           identity.Email,
		CreatedAt:       identity.CreatedAt,
		UpdatedAt:       identity.UpdatedAt,
		IsAuthenticated: identity.IsAuthenticated,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model models.Incident) IncidentResponse {
	return IncidentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Severity:    string(model.Severity),
		Status:      string(model.Status),
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Address:     model.Address,
		UserID:      model.UserID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []models.Incident) []IncidentResponse {
	responses := make([]IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = ModelToIncidentResponse(incident)
	}
	return responses
}

func SummaryToResponse(summary view.Summary) SummaryResponse {
	resp := SummaryResponse{
		Total:      summary.Total,
		BySeverity: make(map[string]int, len(summary.BySeverity)),
		ByStatus:   make(map[string]int, len(summary.ByStatus)),
	}
	for severity, count := range summary.BySeverity {
		resp.BySeverity[string(severity)] = count
	}
	for status, count := range summary.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	return resp
}

func locationToPoint(loc models.Location) PointResponse {
	return PointResponse{Lat: loc.Lat, Lng: loc.Lng}
}

func MarkersToResponse(markers []view.Marker) MarkersResponse {
	resp := MarkersResponse{
		Markers:       make([]MarkerResponse, len(markers)),
		DefaultCenter: locationToPoint(view.DefaultCenter),
	}
	for i, marker := range markers {
		resp.Markers[i] = MarkerResponse{
			Incident: ModelToIncidentResponse(marker.Incident),
			Color:    marker.Color,
			Label:    marker.Label,
		}
	}
	if bounds := view.MarkerBounds(markers); bounds != nil {
		resp.Bounds = &BoundsResponse{
			SouthWest: locationToPoint(bounds.SouthWest),
			NorthEast: locationToPoint(bounds.NorthEast),
		}
	}
	return resp
}

// statusLabel: in_progress -> In Progress
func statusLabel(status models.Status) string {
	words := strings.Split(string(status), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func MetaToResponse() MetaResponse {
	resp := MetaResponse{}
	for _, severity := range models.Severities() {
		resp.Severities = append(resp.Severities, OptionResponse{
			Value: string(severity),
			Label: severity.Label(),
			Color: severity.Color(),
		})
	}
	for _, status := range models.Statuses() {
		resp.Statuses = append(resp.Statuses, OptionResponse{
			Value: string(status),
			Label: statusLabel(status),
		})
	}
	return resp
}
