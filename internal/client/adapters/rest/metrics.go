package rest

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "aits_client"

// Исходы обновления токена.
const (
	RefreshSucceeded = "succeeded"
	RefreshReused    = "reused"
	RefreshFailed    = "failed"
	RefreshNoToken   = "no_refresh_token"
)

// Metrics собирает счетчики клиента. Nil-значение допустимо и ничего не считает.
type Metrics struct {
	requests    *prometheus.CounterVec
	refreshes   *prometheus.CounterVec
	replays     prometheus.Counter
	sessionEnds *prometheus.CounterVec
}

// NewMetrics создает и регистрирует счетчики в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "API requests by method and response status; status 0 means a transport failure.",
		}, []string{"method", "status"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "token_refreshes_total",
			Help:      "Token refresh attempts by outcome.",
		}, []string{"outcome"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "request_replays_total",
			Help:      "Requests replayed after a token refresh.",
		}),
		sessionEnds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "session_ends_total",
			Help:      "Terminated sessions by reason.",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.refreshes, m.replays, m.sessionEnds)
	}
	return m
}

func (m *Metrics) observeRequest(method string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeRefresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeReplay() {
	if m == nil {
		return
	}
	m.replays.Inc()
}

func (m *Metrics) observeSessionEnd(reason EndReason) {
	if m == nil {
		return
	}
	m.sessionEnds.WithLabelValues(string(reason)).Inc()
}

// RequestCount возвращает счетчик запросов для метода и статуса (для тестов и отладки).
func (m *Metrics) RequestCount(method string, status int) prometheus.Counter {
	return m.requests.WithLabelValues(method, strconv.Itoa(status))
}

// RefreshCount возвращает счетчик обновлений с указанным исходом.
func (m *Metrics) RefreshCount(outcome string) prometheus.Counter {
	return m.refreshes.WithLabelValues(outcome)
}

// ReplayCount возвращает счетчик повторов.
func (m *Metrics) ReplayCount() prometheus.Counter {
	return m.replays
}

// SessionEndCount возвращает счетчик завершений сессии по причине.
func (m *Metrics) SessionEndCount(reason EndReason) prometheus.Counter {
	return m.sessionEnds.WithLabelValues(string(reason))
}
