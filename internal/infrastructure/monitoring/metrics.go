package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoanTransitionsTotal *prometheus.CounterVec
	PaymentsTotal        *prometheus.CounterVec
	UsersRegisteredTotal prometheus.Counter
}

type PortfolioMetrics struct {
	LoansByStatus     *prometheus.GaugeVec
	OutstandingAmount prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_management_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoanTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_management_loan_transitions_total",
				Help: "Total number of loan status transition attempts by outcome.",
			},
			[]string{"requested", "outcome"},
		),
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_management_payments_total",
				Help: "Total number of payment operations by result.",
			},
			[]string{"operation", "status"},
		),
		UsersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_management_users_registered_total",
				Help: "Total number of users successfully registered.",
			},
		),
	}

	Portfolio = PortfolioMetrics{
		LoansByStatus: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loan_management_loans",
				Help: "Number of loans per status at the last portfolio snapshot.",
			},
			[]string{"status"},
		),
		OutstandingAmount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "loan_management_outstanding_amount",
				Help: "Sum of remaining payment amounts at the last portfolio snapshot.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanTransition(requested, outcome string) {
	Business.LoanTransitionsTotal.WithLabelValues(requested, outcome).Inc()
}

func RecordPayment(operation, status string) {
	Business.PaymentsTotal.WithLabelValues(operation, status).Inc()
}

func RecordUserRegistered() {
	Business.UsersRegisteredTotal.Inc()
}

func SetPortfolioSnapshot(loansByStatus map[string]int64, outstanding int64) {
	Portfolio.LoansByStatus.Reset()
	for status, count := range loansByStatus {
		Portfolio.LoansByStatus.WithLabelValues(status).Set(float64(count))
	}
	Portfolio.OutstandingAmount.Set(float64(outstanding))
}
