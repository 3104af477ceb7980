package view

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incident(severity models.Severity, status models.Status) models.Incident {
	return models.Incident{
		ID:        uuid.New(),
		Title:     string(severity) + "/" + string(status),
		Severity:  severity,
		Status:    status,
		Latitude:  10,
		Longitude: 10,
	}
}

func TestFilterApply(t *testing.T) {
	highOpen := incident(models.SeverityHigh, models.StatusOpen)
	lowOpen := incident(models.SeverityLow, models.StatusOpen)
	highResolved := incident(models.SeverityHigh, models.StatusResolved)
	incidents := []models.Incident{highOpen, lowOpen, highResolved}

	tests := []struct {
		name   string
		filter Filter
		want   []models.Incident
	}{
		{"all", Filter{Severity: All, Status: All}, incidents},
		{"empty means all", Filter{}, incidents},
		{"severity", Filter{Severity: "high", Status: All}, []models.Incident{highOpen, highResolved}},
		{"status", Filter{Severity: All, Status: "open"}, []models.Incident{highOpen, lowOpen}},
		{"both", Filter{Severity: "high", Status: "open"}, []models.Incident{highOpen}},
		{"no match", Filter{Severity: "critical", Status: All}, []models.Incident{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Apply(incidents))
		})
	}
}

func TestCounts(t *testing.T) {
	incidents := []models.Incident{
		incident(models.SeverityHigh, models.StatusOpen),
		incident(models.SeverityHigh, models.StatusClosed),
		incident(models.SeverityLow, models.StatusOpen),
	}

	assert.Equal(t, map[models.Severity]int{
		models.SeverityLow:      1,
		models.SeverityMedium:   0,
		models.SeverityHigh:     2,
		models.SeverityCritical: 0,
	}, CountBySeverity(incidents))

	assert.Equal(t, map[models.Status]int{
		models.StatusOpen:       2,
		models.StatusInProgress: 0,
		models.StatusResolved:   0,
		models.StatusClosed:     1,
	}, CountByStatus(incidents))
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Len(t, summary.BySeverity, 4)
	assert.Len(t, summary.ByStatus, 4)
	assert.Equal(t, 0, summary.BySeverity[models.SeverityCritical])
}

func TestMarkers_SkipsZeroCoordinates(t *testing.T) {
	placed := incident(models.SeverityCritical, models.StatusOpen)
	noLat := incident(models.SeverityLow, models.StatusOpen)
	noLat.Latitude = 0
	noLng := incident(models.SeverityLow, models.StatusOpen)
	noLng.Longitude = 0

	markers := Markers([]models.Incident{placed, noLat, noLng})

	require.Len(t, markers, 1)
	assert.Equal(t, placed.ID, markers[0].Incident.ID)
	assert.Equal(t, "#EF4444", markers[0].Color)
	assert.Equal(t, "Critical", markers[0].Label)
}

func TestMarkerBounds(t *testing.T) {
	a := incident(models.SeverityLow, models.StatusOpen)
	a.Latitude, a.Longitude = 55.75, 37.61
	b := incident(models.SeverityLow, models.StatusOpen)
	b.Latitude, b.Longitude = 59.93, 30.31

	bounds := MarkerBounds(Markers([]models.Incident{a, b}))

	require.NotNil(t, bounds)
	assert.Equal(t, models.Location{Lat: 55.75, Lng: 30.31}, bounds.SouthWest)
	assert.Equal(t, models.Location{Lat: 59.93, Lng: 37.61}, bounds.NorthEast)
	assert.Nil(t, MarkerBounds(nil))
}

func TestFilterApply_CriticalOnly(t *testing.T) {
	low := incident(models.SeverityLow, models.StatusOpen)
	critical := incident(models.SeverityCritical, models.StatusOpen)

	got := Filter{Severity: "critical", Status: All}.Apply([]models.Incident{low, critical})

	assert.Equal(t, []models.Incident{critical}, got)
}
