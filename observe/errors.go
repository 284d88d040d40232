package observe

import "errors"

var (
	// ErrMissingServiceName is reported when Config.ServiceName is empty.
	ErrMissingServiceName = errors.New("observe: missing service name")

	// ErrInvalidSamplePct is reported when Tracing.SamplePct is outside [0, 1].
	ErrInvalidSamplePct = errors.New("observe: sample ratio outside [0, 1]")

	// ErrInvalidTracingExporter is reported for an unsupported Tracing.Exporter.
	ErrInvalidTracingExporter = errors.New("observe: unsupported tracing exporter")

	// ErrInvalidMetricsExporter is reported for an unsupported Metrics.Exporter.
	ErrInvalidMetricsExporter = errors.New("observe: unsupported metrics exporter")

	// ErrInvalidLogLevel is reported for an unknown Logging.Level.
	ErrInvalidLogLevel = errors.New("observe: invalid log level")

	// ErrNilObserver is returned by MiddlewareFromObserver(nil).
	ErrNilObserver = errors.New("observe: observer is nil")
)

// Exporter and level names accepted by Config.Validate. The empty string
// selects the default for each.
var (
	TracingExporters = []string{"", "none", "stdout", "otlp", "jaeger"}
	MetricsExporters = []string{"", "none", "stdout", "otlp", "prometheus"}
	LogLevels        = []string{"", "debug", "info", "warn", "error"}
)

// RedactedFields are log field keys whose values are never written.
// Readiness declarations routinely carry connection strings and tokens.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"bearer_token",
	"authorization",
	"dsn",
	"api_key",
	"credential",
}
