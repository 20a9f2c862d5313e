package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication
	LoginTotal *prometheus.CounterVec

	// Authorization code flow
	AuthorizationCodesIssuedTotal prometheus.Counter

	// Token endpoint
	TokensIssuedTotal    *prometheus.CounterVec
	GrantRejectedTotal   *prometheus.CounterVec
	TokenValidationTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// If enabled=true, returns Prometheus-based Metrics.
// If enabled=false, returns NoopMetrics (zero overhead).
// Uses sync.Once to ensure Prometheus metrics are only registered once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		LoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),

		AuthorizationCodesIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "oauth_authorization_codes_issued_total",
				Help: "Total number of authorization codes issued at consent",
			},
		),

		TokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_tokens_issued_total",
				Help: "Total number of access tokens issued",
			},
			[]string{"grant_type"}, // authorization_code, refresh_token, client_credentials, password_login
		),
		GrantRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_grant_rejected_total",
				Help: "Total number of rejected token grant attempts",
			},
			[]string{"grant_type", "reason"}, // reason: invalid_grant, invalid_client, unsupported_grant_type, server_error
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_token_validation_total",
				Help: "Total number of access token verifications",
			},
			[]string{"result"}, // valid, expired, invalid
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// RecordLogin records a password login attempt
func (m *Metrics) RecordLogin(success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.LoginTotal.WithLabelValues(result).Inc()
}

// RecordAuthorizationCodeIssued records an authorization code granted at consent
func (m *Metrics) RecordAuthorizationCodeIssued() {
	m.AuthorizationCodesIssuedTotal.Inc()
}

// RecordTokenIssued records an access token issuance
func (m *Metrics) RecordTokenIssued(grantType string) {
	m.TokensIssuedTotal.WithLabelValues(grantType).Inc()
}

// RecordGrantRejected records a rejected token grant attempt
func (m *Metrics) RecordGrantRejected(grantType, reason string) {
	m.GrantRejectedTotal.WithLabelValues(grantType, reason).Inc()
}

// RecordTokenValidation records an access token verification result
func (m *Metrics) RecordTokenValidation(result string) {
	// result: valid, expired, invalid
	m.TokenValidationTotal.WithLabelValues(result).Inc()
}
