// Package metrics exposes registration counters for Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the registration workflow and the document uploads.
type Metrics struct {
	GroupsSaved        prometheus.Counter
	MemberSetsReplaced prometheus.Counter
	MembersWritten     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	RemoteErrors       *prometheus.CounterVec
	Uploads            *prometheus.CounterVec
	GatewayDuration    *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GroupsSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "cadastro_groups_saved_total",
			Help: "Group records created or updated",
		}),
		MemberSetsReplaced: f.NewCounter(prometheus.CounterOpts{
			Name: "cadastro_member_sets_replaced_total",
			Help: "Member-set replacements that committed",
		}),
		MembersWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "cadastro_members_written_total",
			Help: "Member records written by replacements",
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_validation_failures_total",
			Help: "Form submissions rejected by validation",
		}, []string{"form"}),
		RemoteErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_remote_errors_total",
			Help: "Record store failures by operation",
		}, []string{"op"}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cadastro_document_uploads_total",
			Help: "Document uploads by outcome",
		}, []string{"outcome"}),
		GatewayDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cadastro_gateway_duration_seconds",
			Help:    "Duration of record store calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
	}
}

// NewNop returns Metrics registered on a throwaway registry. Used in tests
// and wherever no /metrics endpoint is mounted.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveGateway records the duration of a store call started at start.
func (m *Metrics) ObserveGateway(op string, start time.Time) {
	m.GatewayDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
