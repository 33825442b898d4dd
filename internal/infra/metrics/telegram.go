package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramUpdatesReceivedTotal,
		telegramCommandsReceivedTotal,
		telegramAdminGateTotal,
		telegramSendErrorsTotal,
	)
}

var (
	telegramUpdatesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_received_total",
			Help: "Incoming updates by kind.",
		},
		[]string{"kind"}, // 'command', 'text', 'other'
	)

	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Commands received, labeled by command and outcome.",
		},
		[]string{"command", "outcome"}, // outcome: 'ok', 'error', 'unauthorized', 'unknown'
	)

	telegramAdminGateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_admin_gate_total",
			Help: "Admin-only command attempts by gate outcome.",
		},
		[]string{"command", "outcome"}, // outcome: 'authorized', 'unauthorized'
	)

	telegramSendErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_send_errors_total",
			Help: "Total failures sending messages back to chats.",
		},
	)
)

func IncTelegramUpdate(kind string) {
	telegramUpdatesReceivedTotal.WithLabelValues(norm(kind)).Inc()
}

func IncTelegramCommand(command, outcome string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command), norm(outcome)).Inc()
}

func IncAdminGate(command, outcome string) {
	telegramAdminGateTotal.WithLabelValues(norm(command), norm(outcome)).Inc()
}

func IncTelegramSendError() {
	telegramSendErrorsTotal.Inc()
}
