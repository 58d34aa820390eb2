// Package metrics exposes the core's prometheus counters. Counters only
// ever carry ids and result labels, never key material or plaintext.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// UnlockAttempts counts password unlock attempts by result:
	// ok, bad_password, throttled.
	UnlockAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sealbox_unlock_attempts_total",
		Help: "Password unlock attempts by result.",
	}, []string{"result"})

	// DecryptFailures counts per-item decrypt failures by payload kind:
	// message, attachment, envelope.
	DecryptFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sealbox_decrypt_failures_total",
		Help: "Per-item decrypt failures by payload kind.",
	}, []string{"kind"})

	// MessagesSealed counts successfully encrypted outgoing messages.
	MessagesSealed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sealbox_messages_sealed_total",
		Help: "Messages encrypted and handed to the store.",
	})
)

func init() {
	prometheus.MustRegister(UnlockAttempts, DecryptFailures, MessagesSealed)
}
