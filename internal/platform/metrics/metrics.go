// Package metrics exposes Prometheus counters for registry activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	GradesRecorded  prometheus.Counter
	Rejections      *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry() so repeated construction does
// not collide on the global registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gradebook_users_registered_total",
			Help: "Total number of users registered",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_logins_total",
			Help: "Total number of authentication attempts by outcome",
		}, []string{"outcome"}),
		GradesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gradebook_grades_recorded_total",
			Help: "Total number of grades recorded",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_registry_rejections_total",
			Help: "Total number of rejected registry operations by operation and error kind",
		}, []string{"operation", "kind"}),
	}
}

// UserRegistered increments the registered users counter by 1
func (m *Metrics) UserRegistered() {
	m.UsersRegistered.Inc()
}

// LoginAttempt counts an authentication attempt as success or failure
func (m *Metrics) LoginAttempt(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// GradeRecorded increments the recorded grades counter by 1
func (m *Metrics) GradeRecorded() {
	m.GradesRecorded.Inc()
}

// Rejected counts a failed registry operation
func (m *Metrics) Rejected(operation, kind string) {
	m.Rejections.WithLabelValues(operation, kind).Inc()
}
