// Package metrics defines the custom Prometheus metrics for the MediFirst
// API. It is the single source of truth for metric names, labels, and help
// strings. HTTP request metrics come from echoprometheus and are not
// declared here.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medifirst"

// Result label values shared by the reset counters.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Password reset ────────────────────────────────────────────────────────────

// ResetRequestsTotal counts forgot-password requests.
// Label:
//   - result: "ok" (generic success returned), "rejected" (validation),
//     "error" (dispatch or storage failure)
var ResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_requests_total",
		Help:      "Total number of forgot-password requests, by result.",
	},
	[]string{"result"},
)

// ResetCompletionsTotal counts reset-password submissions.
// Label:
//   - result: "ok", "invalid" (bad or expired link), "rejected" (weak password), "error"
var ResetCompletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_completions_total",
		Help:      "Total number of reset-password submissions, by result.",
	},
	[]string{"result"},
)

// NotificationDuration measures one dispatch attempt.
// Label:
//   - result: "ok" or "error"
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_dispatch_duration_seconds",
		Help:      "Duration of outbound notification dispatch.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	},
	[]string{"result"},
)

// ── First-aid guides ──────────────────────────────────────────────────────────

// GuideViewsTotal counts guide detail reads served over HTTP.
var GuideViewsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guide_views_total",
		Help:      "Total number of first-aid guide detail views.",
	},
)

// ── Auth ──────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid" (bad credentials or disabled), "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// Sender matches the notification dispatcher port.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type instrumentedSender struct {
	next Sender
}

// InstrumentNotifier wraps next so every Send is timed in NotificationDuration.
func InstrumentNotifier(next Sender) Sender {
	return &instrumentedSender{next: next}
}

func (s *instrumentedSender) Send(ctx context.Context, to, subject, body string) error {
	start := time.Now()
	err := s.next.Send(ctx, to, subject, body)

	result := ResultOK
	if err != nil {
		result = ResultError
	}
	NotificationDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return err
}
