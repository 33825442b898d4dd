package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(httpRequestsTotal, adminLoginsTotal)
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Ops API requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	adminLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Admin API login attempts by outcome.",
		},
		[]string{"outcome"}, // 'ok', 'denied', 'disabled'
	)
)

func IncHTTPRequest(route string, code int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func IncAdminLogin(outcome string) {
	adminLoginsTotal.WithLabelValues(norm(outcome)).Inc()
}
