// Package metrics defines and registers all custom Prometheus metrics for the
// device tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors are registered with the default registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "devicetracker"

// ResultSuccess is the result label shared by every counter below.
const ResultSuccess = "success"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", "invalid", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "invalid", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token checks in the auth middleware.
// Label:
//   - result: "valid", "missing", "invalid", or "expired"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// ── Device metrics ────────────────────────────────────────────────────────────

// DeviceOperationsTotal counts device use-case calls.
// Labels:
//   - operation: "list", "create", "update", "delete"
//   - result: "success", "not_found", "invalid", or "error"
var DeviceOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "device_operations_total",
		Help:      "Total number of device operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// DeviceCacheLookupsTotal counts device list cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var DeviceCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "device_cache_lookups_total",
		Help:      "Total number of device list cache lookups, labelled by result.",
	},
	[]string{"result"},
)
