// Package metrics defines the custom Prometheus metrics of the teamsync
// workspace API. HTTP request metrics come from echoprometheus; this file
// only holds domain counters.
//
// All metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "teamsync"

// ── Provisioning ──────────────────────────────────────────────────────────────

// ProvisionedTotal counts users provisioned with their default workspace.
// Label:
//   - provider: EMAIL, GOOGLE, ...
var ProvisionedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provisioned_total",
		Help:      "Total number of users provisioned with a default workspace.",
	},
	[]string{"provider"},
)

// ProvisioningFailuresTotal counts aborted provisioning transactions.
// Label:
//   - code: domain error code (e.g. "EMAIL_TAKEN", "ROLE_SEED_MISSING") or "INTERNAL"
var ProvisioningFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provisioning_failures_total",
		Help:      "Total number of provisioning transactions rolled back, by error code.",
	},
	[]string{"code"},
)

// ── Authentication ────────────────────────────────────────────────────────────

// LoginsTotal counts sign-in attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ── Authorization ─────────────────────────────────────────────────────────────

// PermissionDenialsTotal counts permission gate rejections.
// Label:
//   - permission: the first missing permission token, or "UNKNOWN_ROLE"
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of requests rejected by the permission gate.",
	},
	[]string{"permission"},
)

// ── Membership ────────────────────────────────────────────────────────────────

// InviteJoinsTotal counts invite join outcomes.
// Label:
//   - result: "joined" or "already_member"
var InviteJoinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_joins_total",
		Help:      "Total number of invite joins, by result.",
	},
	[]string{"result"},
)
