package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		moderationFlaggedTotal,
		moderationActionsTotal,
		moderationExemptTotal,
	)
}

var (
	moderationFlaggedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_flagged_total",
			Help: "Messages flagged by the wordlist, labeled by matched term.",
		},
		[]string{"term"}, // cardinality bounded by the wordlist size
	)

	moderationActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Enforcement actions taken, labeled by action and outcome.",
		},
		[]string{"action", "outcome"}, // action: 'delete', 'ban', 'notice'; outcome: 'ok', 'error'
	)

	moderationExemptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_exempt_total",
			Help: "Flagged messages skipped because the sender is an admin or the creator.",
		},
	)
)

func IncModerationFlagged(term string) {
	moderationFlaggedTotal.WithLabelValues(norm(term)).Inc()
}

func IncModerationAction(action, outcome string) {
	moderationActionsTotal.WithLabelValues(norm(action), norm(outcome)).Inc()
}

func IncModerationExempt() {
	moderationExemptTotal.Inc()
}
