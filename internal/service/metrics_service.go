package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	notificationsQueued  *prometheus.CounterVec
	notificationsDropped *prometheus.CounterVec
	notificationsSent    *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
	realtimeDeliveries   *prometheus.CounterVec
	realtimeConnections  *prometheus.GaugeVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	queued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_queued_total",
		Help: "Notification events accepted by the outbound queue",
	}, []string{"type"})

	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Notification events dropped because the queue was full or stopped",
	}, []string{"type"})

	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notification rows written",
	}, []string{"type"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_dispatch_failures_total",
		Help: "Notification dispatch attempts that failed",
	}, []string{"type"})

	realtime := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_published_total",
		Help: "Events pushed to realtime subscribers",
	}, []string{"kind"})

	connections := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "realtime_connections",
		Help: "Open realtime sockets and connected users",
	}, []string{"scope"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, queued, dropped, sent, failures, realtime, connections, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		notificationsQueued:  queued,
		notificationsDropped: dropped,
		notificationsSent:    sent,
		notificationFailures: failures,
		realtimeDeliveries:   realtime,
		realtimeConnections:  connections,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// NotificationQueued counts an accepted notification event.
func (m *MetricsService) NotificationQueued(notifType string) {
	if m == nil {
		return
	}
	m.notificationsQueued.WithLabelValues(notifType).Inc()
}

// NotificationDropped counts an event that never reached the queue.
func (m *MetricsService) NotificationDropped(notifType string) {
	if m == nil {
		return
	}
	m.notificationsDropped.WithLabelValues(notifType).Inc()
}

// NotificationsCreated counts written notification rows.
func (m *MetricsService) NotificationsCreated(notifType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.notificationsSent.WithLabelValues(notifType).Add(float64(n))
}

// NotificationFailed counts a failed dispatch attempt.
func (m *MetricsService) NotificationFailed(notifType string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(notifType).Inc()
}

// RealtimePublished counts an event handed to the realtime publisher.
func (m *MetricsService) RealtimePublished(kind string) {
	if m == nil {
		return
	}
	m.realtimeDeliveries.WithLabelValues(kind).Inc()
}

// ObserveRealtimeConnections sets the connection gauges.
func (m *MetricsService) ObserveRealtimeConnections(users, sockets int) {
	if m == nil {
		return
	}
	m.realtimeConnections.WithLabelValues("users").Set(float64(users))
	m.realtimeConnections.WithLabelValues("sockets").Set(float64(sockets))
}
