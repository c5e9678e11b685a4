package transport

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/pullstring-core/core/transport"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	requestCounter, _ = meter.Int64Counter("pullstring.transport.requests",
		metric.WithDescription("Number of completed conversation exchanges"),
	)
	requestDuration, _ = meter.Float64Histogram("pullstring.transport.duration",
		metric.WithDescription("Duration of conversation exchanges"),
		metric.WithUnit("s"),
	)
)
