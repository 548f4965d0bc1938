// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOk    = "ok"
	ResultError = "error"

	MailVerification = "verification"
	MailRecovery     = "recovery"
)

// Metrics is safe to use as a nil pointer: recording is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	MailsTotal         *prometheus.CounterVec
	AvatarUploadsTotal *prometheus.CounterVec
}

// New creates a private registry with the Go and process collectors and
// the service counters.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credentials_http_requests_total",
				Help: "Total number of HTTP requests by status code",
			},
			[]string{"code"},
		),
		MailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credentials_mails_total",
				Help: "Total number of notification mails by kind and result",
			},
			[]string{"kind", "result"},
		),
		AvatarUploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credentials_avatar_uploads_total",
				Help: "Total number of avatar uploads by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(m.RequestsTotal)
	registry.MustRegister(m.MailsTotal)
	registry.MustRegister(m.AvatarUploadsTotal)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (m *Metrics) RecordRequest(status int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordMail(kind string, err error) {
	if m == nil {
		return
	}
	m.MailsTotal.WithLabelValues(kind, result(err)).Inc()
}

func (m *Metrics) RecordAvatarUpload(err error) {
	if m == nil {
		return
	}
	m.AvatarUploadsTotal.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOk
}
