package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the live server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Selector locates the container whose HTML accompanies each batch.
	Selector string

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration

	// WriteTimeout bounds each WebSocket write.
	WriteTimeout time.Duration

	// ReadBufferSize is the WebSocket read buffer size.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	WriteBufferSize int

	// SendQueue is the number of batches buffered per client. A client
	// whose queue is full is disconnected.
	SendQueue int

	// MaxMessageSize limits incoming WebSocket messages.
	MaxMessageSize int64

	// CheckOrigin is called to validate the WebSocket request origin.
	CheckOrigin func(r *http.Request) bool

	// Registry enables /metrics and the server collectors. Nil disables both.
	Registry *prometheus.Registry

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		Selector:        "#app",
		ShutdownTimeout: 5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendQueue:       32,
		MaxMessageSize:  64 * 1024,
		CheckOrigin:     SameOriginCheck,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Selector == "" {
		c.Selector = d.Selector
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.SendQueue <= 0 {
		c.SendQueue = d.SendQueue
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// SameOriginCheck accepts WebSocket requests without an Origin header or
// whose Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}
