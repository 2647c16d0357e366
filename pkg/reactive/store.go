package reactive

// State is the accessor capability exposed to components: reads depend,
// writes notify.
type State interface {
	Get(key string) any
	Set(key string, value any)
}

// Store is the reactive handle for an Object. Get and Set are intercepted;
// every other operation passes straight through to the object.
type Store struct {
	scope  *Scope
	target Object
}

var _ State = (*Store)(nil)

// Reactive wraps obj so that reads subscribe the active effect and writes
// notify subscribers.
func (s *Scope) Reactive(obj Object) *Store {
	return &Store{scope: s, target: obj}
}

// ReactiveMap is shorthand for Reactive(NewRecord(fields)).
func (s *Scope) ReactiveMap(fields map[string]any) *Store {
	return s.Reactive(NewRecord(fields))
}

// Get returns the value of key (nil if absent) and subscribes the active
// effect to it.
func (st *Store) Get(key string) any {
	st.scope.track(st.target, key)
	v, _ := st.target.Get(key)
	return v
}

// Set writes value and synchronously re-runs every subscriber of key.
// There is no equality check: writing the current value notifies too.
func (st *Store) Set(key string, value any) {
	st.target.Set(key, value)
	st.scope.trigger(st.target, key)
}

// Update reads key, applies fn and writes the result back.
func (st *Store) Update(key string, fn func(any) any) {
	st.Set(key, fn(st.Get(key)))
}

// Has reports whether key exists. Not tracked.
func (st *Store) Has(key string) bool {
	_, ok := st.target.Get(key)
	return ok
}

// Delete removes key. Not tracked and does not notify.
func (st *Store) Delete(key string) {
	st.target.Delete(key)
}

// Keys returns the object's keys. Not tracked.
func (st *Store) Keys() []string {
	return st.target.Keys()
}

// Raw returns the underlying object.
func (st *Store) Raw() Object {
	return st.target
}

// Scope returns the scope this store tracks into.
func (st *Store) Scope() *Scope {
	return st.scope
}

// Value reads key from s and asserts it to T, returning the zero value
// when the key is absent or holds another type.
func Value[T any](s State, key string) T {
	v, _ := s.Get(key).(T)
	return v
}
