package main

import (
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/statefile"
	"github.com/vango-dev/reactor/pkg/app"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// session is a mounted counter application.
type session struct {
	doc   *dom.HTMLDocument
	store *reactive.Store
	app   *app.App
	reg   *prometheus.Registry
}

// newSession loads the host page and initial state, then mounts the
// counter. With metrics, a registry with runtime collectors is attached.
func (c *cli) newSession(metrics bool) (*session, error) {
	doc, err := c.loadPage()
	if err != nil {
		return nil, err
	}

	initial := demo.DefaultState()
	if c.cfg.App.State != "" {
		loaded, err := statefile.Load(c.cfg.App.State)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			initial[k] = v
		}
	}

	scope := reactive.NewScope(reactive.WithLogger(c.logger))
	store := scope.ReactiveMap(initial)

	opts := []app.Option{
		app.WithScope(scope),
		app.WithLogger(c.logger),
	}
	var reg *prometheus.Registry
	if metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, app.WithRegisterer(reg), app.WithNamespace(c.cfg.Metrics.Namespace))
	}

	a := app.CreateApp(demo.Counter(store), opts...)
	if err := a.Mount(doc, c.cfg.App.Selector); err != nil {
		return nil, err
	}
	return &session{doc: doc, store: store, app: a, reg: reg}, nil
}

func (c *cli) loadPage() (*dom.HTMLDocument, error) {
	if c.cfg.App.Page == "" {
		return dom.ParseDocument(strings.NewReader(demo.Page))
	}
	f, err := os.Open(c.cfg.App.Page)
	if err != nil {
		return nil, errors.New("R001").WithDetailf("cannot open page %s", c.cfg.App.Page).Wrap(err)
	}
	defer f.Close()
	return dom.ParseDocument(f)
}
