package app

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Config holds the resolved options of an App.
type Config struct {
	// Scope is the reactive scope the root effect runs in.
	// Default: a new scope using Logger.
	Scope *reactive.Scope

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registerer receives the render metrics. If nil, metrics are disabled.
	Registerer prometheus.Registerer

	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Tracer traces mounts and patches.
	// Default: the global otel tracer named "reactor".
	Tracer trace.Tracer
}

// Option configures an App.
type Option func(*Config)

// WithScope sets the reactive scope.
func WithScope(s *reactive.Scope) Option {
	return func(c *Config) {
		c.Scope = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithRegisterer enables Prometheus metrics on the given registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = r
	}
}

// WithNamespace sets the metrics namespace.
func WithNamespace(ns string) Option {
	return func(c *Config) {
		c.Namespace = ns
	}
}

// WithTracer sets the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}
