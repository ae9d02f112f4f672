// Package observability attaches logging, OpenTelemetry metrics and spans to
// sequence enumerations, and bootstraps the OTLP exporters.
//
// Every session of an observed sequence is watched from its first pull to
// exhaustion, failure, or early Close:
//
//	s = observability.Trace(s, log, "evaluate")          // debug logs with a session id
//	s = observability.Instrument(s, metrics, "evaluate") // session, item and error counters
//	s = observability.Span(s, tracer, "evaluate")        // one span per session
//
// Providers:
//
//	shutdown, err := observability.Init(ctx, cfg, log)
//	defer shutdown(ctx)
package observability
