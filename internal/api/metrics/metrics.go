// Package metrics defines and registers all custom Prometheus metrics
// for the exam-manager API. It is the single source of truth for metric
// names, labels, and help strings; metrics register with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exam_manager"

// ── Authentication metrics ────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "otp_sent", "not_found", "unverified", "bad_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// OTPConsumedTotal counts OTP verification attempts by outcome.
// Label:
//   - result: "ok", "invalid", "unverified"
var OTPConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_consumed_total",
		Help:      "Total number of OTP verification attempts, by outcome.",
	},
	[]string{"result"},
)

// ── Actor metrics ─────────────────────────────────────────────────────

// ActorsCreatedTotal counts successfully registered actor profiles.
var ActorsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actors_created_total",
		Help:      "Total number of actor profiles created.",
	},
)

// UploadsRejectedTotal counts document uploads rejected before storage.
// Label:
//   - reason: "too_large" or "unsupported_type"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of rejected document uploads, by reason.",
	},
	[]string{"reason"},
)

// ── Mail metrics ──────────────────────────────────────────────────────

// MailSentTotal counts delivery attempts made by the mail workers.
// Label:
//   - result: "ok" or "error"
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of mail delivery attempts, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the number of messages waiting in each mail
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)
