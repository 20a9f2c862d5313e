package metrics

// NoopMetrics is a no-operation implementation of Recorder.
// All methods are empty, providing zero overhead when metrics are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(success bool)                     {}
func (n *NoopMetrics) RecordAuthorizationCodeIssued()               {}
func (n *NoopMetrics) RecordTokenIssued(grantType string)           {}
func (n *NoopMetrics) RecordGrantRejected(grantType, reason string) {}
func (n *NoopMetrics) RecordTokenValidation(result string)          {}
