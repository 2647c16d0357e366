package reactive

import "sort"

// Object is a mutable key-value record that can be observed through a Store.
//
// Objects are used as registry keys, so implementations must be comparable;
// pointer types are the natural choice.
type Object interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (any, bool)

	// Set stores value under key.
	Set(key string, value any)

	// Delete removes key.
	Delete(key string)

	// Keys returns the keys currently present.
	Keys() []string
}

// Record is the map-backed Object.
type Record struct {
	fields map[string]any
}

// NewRecord wraps fields. The map is used in place, not copied; a nil map
// starts an empty record.
func NewRecord(fields map[string]any) *Record {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Record{fields: fields}
}

// Get implements Object.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Set implements Object.
func (r *Record) Set(key string, value any) {
	r.fields[key] = value
}

// Delete implements Object.
func (r *Record) Delete(key string) {
	delete(r.fields, key)
}

// Keys implements Object. Keys are returned sorted.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the fields.
func (r *Record) Snapshot() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}
