package reactive

// Effect is a computation that re-runs whenever a property it read is
// written. Effects are created by Scope.WatchEffect and are never disposed.
type Effect struct {
	id    uint64
	fn    func()
	scope *Scope
	runs  int
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect has executed, including the
// initial run.
func (e *Effect) Runs() int {
	return e.runs
}

// Run executes the effect again through its scope, collecting any
// properties it reads.
func (e *Effect) Run() {
	e.scope.run(e)
}
