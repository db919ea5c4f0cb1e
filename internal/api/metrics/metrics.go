// Package metrics defines and registers all custom Prometheus metrics for
// the auth gateway. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authgw"

// RegistrationsTotal counts registration attempts.
// Labels:
//   - role: the role scope (admin, regulator_admin, regulated_entity)
//   - result: "created", "duplicate", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - role: the role scope
//   - result: "ok", "denied", "invalid" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// TokenVerificationsTotal counts bearer token checks on /verify-token.
// Label:
//   - result: "ok", "expired" or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)
