package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

const defaultTracerName = "reactor"

// App renders a root component into a container and keeps it up to date.
type App struct {
	root    vdom.Component
	scope   *reactive.Scope
	logger  *slog.Logger
	metrics *metrics
	tracer  trace.Tracer

	// mu serializes Mount, Update and View. It is not reentrant: the
	// locking accessors must not be called from fn.
	mu sync.Mutex

	doc       dom.Document
	container dom.Element
	tree      *vdom.VNode
	mounted   bool
	effect    *reactive.Effect
	err       error
	stopObs   func()
}

// CreateApp creates an App for root. Nothing is rendered until Mount.
func CreateApp(root vdom.Component, opts ...Option) *App {
	cfg := Config{Namespace: defaultTracerName}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Scope == nil {
		cfg.Scope = reactive.NewScope(reactive.WithLogger(cfg.Logger))
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(defaultTracerName)
	}

	return &App{
		root:    root,
		scope:   cfg.Scope,
		logger:  cfg.Logger,
		metrics: newMetrics(cfg.Registerer, cfg.Namespace),
		tracer:  cfg.Tracer,
	}
}

// Scope returns the reactive scope the app renders in.
func (a *App) Scope() *reactive.Scope {
	return a.scope
}

// Mount locates the container matching selector in doc and renders the root
// component into it. The render runs inside an effect: every later write to
// state read during rendering re-renders and patches the container.
//
// Mount returns the error of the first render. Errors of later renders are
// logged and available from Err. An App mounts once; later calls fail with
// R007.
func (a *App) Mount(doc dom.Document, selector string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.doc != nil {
		return errors.New("R007").WithDetailf("cannot mount into %q", selector)
	}

	container, err := doc.QuerySelector(selector)
	if err != nil {
		return errors.New("R001").WithDetailf("invalid selector %q", selector).Wrap(err)
	}
	if container == nil {
		return errors.New("R001").
			WithDetailf("no element matches %q", selector).
			WithSuggestion("Add the container element to the host page before mounting")
	}

	a.doc = doc
	a.container = container
	a.stopObs = doc.Observe(func(dom.Mutation) { a.metrics.mutation() })
	a.effect = a.scope.WatchEffect(a.render)

	return a.err
}

// render is the root effect: mount on the first run, patch afterwards.
func (a *App) render() {
	ctx := context.Background()
	start := time.Now()

	if !a.mounted {
		_, span := a.tracer.Start(ctx, "app.mount",
			trace.WithAttributes(attribute.String("container", a.container.TagName())))
		defer span.End()

		tree := a.root.Render()
		err := vdom.Mount(tree, a.container)
		a.metrics.observe(phaseMount, start, err)
		a.finish(span, phaseMount, err)
		if err != nil {
			return
		}
		a.tree = tree
		a.mounted = true
		return
	}

	_, span := a.tracer.Start(ctx, "app.patch")
	defer span.End()

	next := a.root.Render()
	err := vdom.Patch(a.tree, next)
	a.metrics.observe(phasePatch, start, err)
	a.finish(span, phasePatch, err)
	if err != nil {
		a.remount(next)
		return
	}
	a.tree = next
}

// remount rebuilds the container from next after a failed patch. A patch
// stops at the first error, so the container may hold a mix of both trees
// that the old tree no longer describes. If next cannot be mounted either,
// the app falls back to unmounted and the next run mounts from scratch.
func (a *App) remount(next *vdom.VNode) {
	a.tree = nil
	a.mounted = false

	if err := a.container.SetInnerHTML(""); err != nil {
		a.logger.Error("render recovery failed", "error", err)
		return
	}
	if err := vdom.Mount(next, a.container); err != nil {
		a.container.SetInnerHTML("")
		a.logger.Warn("render recovery failed; remounting on next change", "error", err)
		return
	}
	a.tree = next
	a.mounted = true
	a.logger.Info("render recovered by remounting")
}

func (a *App) finish(span trace.Span, phase string, err error) {
	a.err = err
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Error("render failed", "phase", phase, "error", err)
		return
	}
	a.logger.Debug("rendered", "phase", phase)
}

// Update runs fn while holding the app lock. Writes made by fn re-render
// synchronously before Update returns. fn must not call Update, View or the
// locking accessors (Dispatch, Render, Tree, Err); use Current and Element
// instead.
func (a *App) Update(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn()
}

// View runs fn while holding the app lock, for consistent reads of the
// rendered tree through Current and Element. The same restrictions as for
// Update apply to fn.
func (a *App) View(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn()
}

// Dispatch delivers ev to the mounted element with the given ID. It reports
// whether such an element exists in the current tree.
func (a *App) Dispatch(id uint64, ev *dom.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	el := findElement(a.tree, id)
	if el == nil {
		return false
	}
	el.Dispatch(ev)
	return true
}

// Element returns the mounted element with the given ID, or nil. It does
// not lock; call it from within Update or View.
func (a *App) Element(id uint64) dom.Element {
	return findElement(a.tree, id)
}

func findElement(v *vdom.VNode, id uint64) dom.Element {
	if v == nil || v.El == nil {
		return nil
	}
	if v.El.ID() == id {
		return v.El
	}
	if kids, ok := v.Children.(vdom.ElementChildren); ok {
		for _, k := range kids {
			if el := findElement(k, id); el != nil {
				return el
			}
		}
	}
	return nil
}

// Render writes the document the app is mounted in.
func (a *App) Render(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return errors.New("R002").WithDetail("app is not mounted")
	}
	return a.doc.Render(w)
}

// Tree returns the most recently rendered tree, or nil if nothing is
// mounted.
func (a *App) Tree() *vdom.VNode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tree
}

// Current is Tree without locking; call it from within Update or View.
func (a *App) Current() *vdom.VNode {
	return a.tree
}

// Err returns the error of the most recent render, if any.
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Unmount stops counting mutations. The root effect itself stays
// subscribed; effects are never disposed.
func (a *App) Unmount() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopObs != nil {
		a.stopObs()
		a.stopObs = nil
	}
}
