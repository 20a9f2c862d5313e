package metrics

// Recorder is the interface through which the rest of the application
// records metrics. Services depend on this interface rather than the
// Prometheus implementation so that tests and disabled deployments can
// use the noop recorder.
type Recorder interface {
	// Authentication
	RecordLogin(success bool)

	// Authorization code flow
	RecordAuthorizationCodeIssued()

	// Token endpoint
	RecordTokenIssued(grantType string)
	RecordGrantRejected(grantType, reason string)

	// Token verification (introspect, validate, bearer middleware)
	RecordTokenValidation(result string)
}
