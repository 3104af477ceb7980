// Package metrics регистрирует Prometheus-метрики сервиса.
// Все метрики создаются через promauto в реестре по умолчанию.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incident_reporter"

// AuthAttemptsTotal - попытки входа, регистрации и выхода.
// Labels: action (login, signup, logout, restore), result (success, failure)
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of session operations by action and result.",
	},
	[]string{"action", "result"},
)

// IncidentMutationsTotal - операции над зеркалом инцидентов.
// Labels: op (fetch, add, update, delete), result (success, failure)
var IncidentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incident_operations_total",
		Help:      "Total number of incident store operations by operation and result.",
	},
	[]string{"op", "result"},
)

// GeocodeLookupsTotal - обратное геокодирование.
// Label: result (hit, miss, error)
var GeocodeLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_lookups_total",
		Help:      "Total number of reverse geocoding lookups by cache result.",
	},
	[]string{"result"},
)

// ActiveWorkspaces - число рабочих сессий браузеров в памяти
var ActiveWorkspaces = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_workspaces",
		Help:      "Current number of browser workspaces held in memory.",
	},
)

// SessionRefreshesTotal - продления сессий наблюдателем.
// Label: result (refreshed, signed_out, error)
var SessionRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refreshes_total",
		Help:      "Total number of expired sessions handled by the session watcher.",
	},
	[]string{"result"},
)

// WebhookDeliveriesTotal - доставка вебхуков.
// Label: result (delivered, failed, skipped)
var WebhookDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_deliveries_total",
		Help:      "Total number of incident webhook deliveries by result.",
	},
	[]string{"result"},
)

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ObserveAuth учитывает результат операции сессии
func ObserveAuth(action string, ok bool) {
	AuthAttemptsTotal.WithLabelValues(action, resultLabel(ok)).Inc()
}

// ObserveIncidentOp учитывает результат операции над инцидентами
func ObserveIncidentOp(op string, ok bool) {
	IncidentMutationsTotal.WithLabelValues(op, resultLabel(ok)).Inc()
}
