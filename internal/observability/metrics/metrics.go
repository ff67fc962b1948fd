package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	JoinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_joins_total",
			Help: "Total number of join submissions.",
		},
		[]string{"service", "result"},
	)

	ReferralsCreditedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_referrals_credited_total",
			Help: "Total number of referral credits applied.",
		},
		[]string{"service"},
	)

	EmailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_emails_sent_total",
			Help: "Total number of welcome email attempts.",
		},
		[]string{"service", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	JoinsTotal = JoinsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	ReferralsCreditedTotal = ReferralsCreditedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	EmailsSentTotal = EmailsSentTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		JoinsTotal,
		ReferralsCreditedTotal,
		EmailsSentTotal,
	)
}
