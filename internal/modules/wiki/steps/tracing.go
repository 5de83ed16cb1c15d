package steps

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("howscary/wiki")
