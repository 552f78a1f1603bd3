// Package metrics defines all custom Prometheus metrics for the account
// service. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts successfully registered.",
	},
)

// SignInsTotal counts sign-in attempts.
// Labels:
//   - method: "password" or "token"
//   - result: "success" or "failure"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// TokenVerificationsTotal counts bearer-token checks in the auth middleware.
// Label:
//   - result: "valid" or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of access-token verifications, by result.",
	},
	[]string{"result"},
)

// AuditEventsTotal counts processed audit events.
// Labels:
//   - action: "sign_up", "sign_in", or "sign_in_with_token"
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of auth audit events processed, by action and result.",
	},
	[]string{"action", "result"},
)

// AuditQueueDepth tracks the number of events waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of auth events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
