package reactive

import "log/slog"

// Observer receives debugging callbacks from a Scope. Any field may be nil.
type Observer struct {
	// OnTrack is called when an effect is first subscribed to a property.
	OnTrack func(e *Effect, obj Object, key string)

	// OnTrigger is called when a write is about to notify subscribers.
	OnTrigger func(obj Object, key string, subscribers int)

	// OnRun is called before every effect execution.
	OnRun func(e *Effect)
}

// Scope is an independent reactive context. It holds the dependency registry
// and the active-effect slot that the package-level design would otherwise
// keep in globals.
type Scope struct {
	// deps maps object -> property -> Dep. Entries live as long as the scope.
	deps map[Object]map[string]*Dep

	// active is the effect currently executing, or nil.
	active *Effect

	// depth counts nested effect executions.
	depth int

	logger   *slog.Logger
	observer Observer
}

// Option configures a Scope.
type Option func(*Scope)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scope) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver installs debugging callbacks.
func WithObserver(o Observer) Option {
	return func(s *Scope) {
		s.observer = o
	}
}

// NewScope creates an empty reactive scope.
func NewScope(opts ...Option) *Scope {
	s := &Scope{
		deps:   make(map[Object]map[string]*Dep),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dep returns the dependency node for (obj, key), creating it on first use.
func (s *Scope) Dep(obj Object, key string) *Dep {
	byKey, ok := s.deps[obj]
	if !ok {
		byKey = make(map[string]*Dep)
		s.deps[obj] = byKey
	}
	dep, ok := byKey[key]
	if !ok {
		dep = newDep()
		byKey[key] = dep
	}
	return dep
}

// Subscribers returns the effects subscribed to (obj, key) without creating
// a registry entry.
func (s *Scope) Subscribers(obj Object, key string) []*Effect {
	if dep, ok := s.deps[obj][key]; ok {
		return dep.Subscribers()
	}
	return nil
}

// Active returns the effect currently executing, or nil.
func (s *Scope) Active() *Effect {
	return s.active
}

// Depth returns how many effect executions are currently nested.
func (s *Scope) Depth() int {
	return s.depth
}

// WatchEffect creates an effect for fn and runs it once immediately so it
// subscribes to every property it reads.
//
// Calling WatchEffect from inside a running effect is allowed: the new
// effect runs with itself active and the outer effect is restored when it
// returns, so reads are never attributed to the wrong effect.
func (s *Scope) WatchEffect(fn func()) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		scope: s,
	}
	if s.active != nil {
		s.logger.Debug("nested effect registration",
			"effect", e.id,
			"outer", s.active.id,
		)
	}
	s.run(e)
	return e
}

// run executes e with the active slot set to e. The previous slot value is
// restored on return, including when fn panics.
func (s *Scope) run(e *Effect) {
	prev := s.active
	s.active = e
	s.depth++
	defer func() {
		s.active = prev
		s.depth--
	}()

	e.runs++
	if s.observer.OnRun != nil {
		s.observer.OnRun(e)
	}
	s.logger.Debug("effect run", "effect", e.id, "run", e.runs, "depth", s.depth)
	e.fn()
}

// track subscribes the active effect, if any, to (obj, key).
func (s *Scope) track(obj Object, key string) {
	if s.active == nil {
		return
	}
	if s.Dep(obj, key).depend(s.active) && s.observer.OnTrack != nil {
		s.observer.OnTrack(s.active, obj, key)
	}
}

// trigger re-runs every subscriber of (obj, key) in subscription order.
// Subscribers added while notifying are not visited in this pass.
func (s *Scope) trigger(obj Object, key string) {
	subs := s.Dep(obj, key).Subscribers()
	if s.observer.OnTrigger != nil {
		s.observer.OnTrigger(obj, key, len(subs))
	}
	if len(subs) == 0 {
		return
	}
	s.logger.Debug("notify", "key", key, "subscribers", len(subs))
	for _, e := range subs {
		s.run(e)
	}
}
