// Package view - производные представления над снимком инцидентов:
// фильтр, счетчики для карточек дашборда и маркеры карты.
package view

import (
	"github.com/paulmach/orb"
	"github.com/shenikar/incident_reporter/internal/models"
)

// All - значение фильтра "без ограничения"
const All = "all"

// DefaultCenter - центр карты, если геолокация клиента недоступна
var DefaultCenter = models.Location{Lat: 20, Lng: 0}

// Filter - конъюнкция условий по важности и статусу
type Filter struct {
	Severity string `form:"severity"`
	Status   string `form:"status"`
}

// Normalize заменяет пустые значения на All
func (f Filter) Normalize() Filter {
	if f.Severity == "" {
		f.Severity = All
	}
	if f.Status == "" {
		f.Status = All
	}
	return f
}

func (f Filter) Match(incident models.Incident) bool {
	f = f.Normalize()
	return (f.Severity == All || string(incident.Severity) == f.Severity) &&
		(f.Status == All || string(incident.Status) == f.Status)
}

// Apply возвращает подходящие инциденты в исходном порядке
func (f Filter) Apply(incidents []models.Incident) []models.Incident {
	out := make([]models.Incident, 0, len(incidents))
	for _, incident := range incidents {
		if f.Match(incident) {
			out = append(out, incident)
		}
	}
	return out
}

// CountBySeverity - счетчики по каждой важности, отсутствующие равны нулю
func CountBySeverity(incidents []models.Incident) map[models.Severity]int {
	counts := make(map[models.Severity]int, 4)
	for _, severity := range models.Severities() {
		counts[severity] = 0
	}
	for _, incident := range incidents {
		counts[incident.Severity]++
	}
	return counts
}

// CountByStatus - счетчики по каждому статусу, отсутствующие равны нулю
func CountByStatus(incidents []models.Incident) map[models.Status]int {
	counts := make(map[models.Status]int, 4)
	for _, status := range models.Statuses() {
		counts[status] = 0
	}
	for _, incident := range incidents {
		counts[incident.Status]++
	}
	return counts
}

// Summary - данные карточек дашборда
type Summary struct {
	Total      int                     `json:"total"`
	BySeverity map[models.Severity]int `json:"by_severity"`
	ByStatus   map[models.Status]int   `json:"by_status"`
}

func Summarize(incidents []models.Incident) Summary {
	return Summary{
		Total:      len(incidents),
		BySeverity: CountBySeverity(incidents),
		ByStatus:   CountByStatus(incidents),
	}
}

// Marker - точка инцидента на карте
type Marker struct {
	Incident models.Incident `json:"incident"`
	Color    string          `json:"color"`
	Label    string          `json:"label"`
}

// Markers отбирает инциденты с обеими ненулевыми координатами.
// Нулевая координата считается "не задана".
func Markers(incidents []models.Incident) []Marker {
	markers := make([]Marker, 0, len(incidents))
	for _, incident := range incidents {
		if incident.Latitude == 0 || incident.Longitude == 0 {
			continue
		}
		markers = append(markers, Marker{
			Incident: incident,
			Color:    incident.Severity.Color(),
			Label:    incident.Severity.Label(),
		})
	}
	return markers
}

// Bounds - прямоугольник, охватывающий маркеры
type Bounds struct {
	SouthWest models.Location `json:"south_west"`
	NorthEast models.Location `json:"north_east"`
}

// MarkerBounds возвращает охват маркеров или nil, если маркеров нет
func MarkerBounds(markers []Marker) *Bounds {
	if len(markers) == 0 {
		return nil
	}
	points := make(orb.MultiPoint, 0, len(markers))
	for _, marker := range markers {
		points = append(points, orb.Point{marker.Incident.Longitude, marker.Incident.Latitude})
	}
	bound := points.Bound()
	return &Bounds{
		SouthWest: models.Location{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		NorthEast: models.Location{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}
}
