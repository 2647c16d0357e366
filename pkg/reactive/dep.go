package reactive

// Dep is the subscriber set of one (object, property) pair.
//
// Subscribers are kept in insertion order and never duplicated. Nothing is
// ever removed: an effect that read the property once stays subscribed even
// if a later run no longer reads it. A hardened variant would clear an
// effect's subscriptions before each re-run; this engine deliberately does
// not.
type Dep struct {
	subs  []*Effect
	index map[*Effect]struct{}
}

func newDep() *Dep {
	return &Dep{index: make(map[*Effect]struct{})}
}

// depend adds e to the set. Returns false if e was already subscribed.
func (d *Dep) depend(e *Effect) bool {
	if e == nil {
		return false
	}
	if _, ok := d.index[e]; ok {
		return false
	}
	d.index[e] = struct{}{}
	d.subs = append(d.subs, e)
	return true
}

// Subscribers returns a copy of the subscribers in insertion order.
func (d *Dep) Subscribers() []*Effect {
	out := make([]*Effect, len(d.subs))
	copy(out, d.subs)
	return out
}

// Len returns the number of subscribers.
func (d *Dep) Len() int {
	return len(d.subs)
}

// Has reports whether e is subscribed.
func (d *Dep) Has(e *Effect) bool {
	_, ok := d.index[e]
	return ok
}
