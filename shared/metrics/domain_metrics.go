package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OnboardingCompletedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placify_onboarding_total",
			Help: "Onboarding attempts by chosen role and outcome",
		},
		[]string{"role", "outcome"},
	)

	ListingRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placify_listing_requests_total",
			Help: "Internship listing requests by whether any filter was applied",
		},
		[]string{"filtered", "source"},
	)

	ListingResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "placify_listing_result_size",
			Help:    "Number of internships returned by the listing",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	ApplicationEventsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placify_application_events_total",
			Help: "Application lifecycle events by resulting status",
		},
		[]string{"status"},
	)

	DocumentUploadsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placify_document_uploads_total",
			Help: "Document uploads by type and outcome",
		},
		[]string{"document_type", "outcome"},
	)

	NotificationsSentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placify_notifications_total",
			Help: "Notifications persisted, split by live delivery",
		},
		[]string{"type", "delivered"},
	)

	LoginAttemptsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placify_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordOnboarding(role, outcome string) {
	OnboardingCompletedCounter.WithLabelValues(role, outcome).Inc()
}

func RecordListing(filtered bool, source string, size int) {
	label := "false"
	if filtered {
		label = "true"
	}
	ListingRequestsCounter.WithLabelValues(label, source).Inc()
	ListingResultSize.Observe(float64(size))
}

func RecordApplicationEvent(status string) {
	ApplicationEventsCounter.WithLabelValues(status).Inc()
}

func RecordDocumentUpload(documentType, outcome string) {
	DocumentUploadsCounter.WithLabelValues(documentType, outcome).Inc()
}

func RecordNotification(kind string, delivered bool) {
	label := "false"
	if delivered {
		label = "true"
	}
	NotificationsSentCounter.WithLabelValues(kind, label).Inc()
}

func RecordLogin(outcome string) {
	LoginAttemptsCounter.WithLabelValues(outcome).Inc()
}
