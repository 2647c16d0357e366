// Package middleware provides HTTP middleware for the reactor live server.
//
// # Prometheus Metrics
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(
//	    middleware.WithNamespace("reactor"),
//	    middleware.WithRegistry(reg),
//	))
//
// Metrics collected:
//   - reactor_http_requests_total: requests by route and status class
//   - reactor_http_request_duration_seconds: request latency by route
//
// Routes are labelled by their chi route pattern, never by raw path, so
// PUT /state/{key} is one series regardless of the key.
//
// # OpenTelemetry Tracing
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("reactor")))
//
// One server span per request, named after the method and route pattern.
//
// # Request Logging
//
//	r.Use(middleware.Logger(logger))
package middleware
