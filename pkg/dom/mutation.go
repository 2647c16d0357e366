package dom

import (
	"fmt"
	"sync"
)

// Op is the type of a host mutation.
type Op uint8

const (
	OpCreate         Op = 0x01 // Element created (detached)
	OpSetAttr        Op = 0x02 // Set/update attribute
	OpRemoveAttr     Op = 0x03 // Remove attribute
	OpAddListener    Op = 0x04 // Add event listener
	OpRemoveListener Op = 0x05 // Remove event listeners for one event
	OpAppend         Op = 0x06 // Append child
	OpInsert         Op = 0x07 // Insert child before a sibling
	OpRemove         Op = 0x08 // Remove child
	OpSetText        Op = 0x09 // Replace content with text
	OpSetHTML        Op = 0x0A // Replace content with parsed markup
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpAppend:
		return "Append"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetHTML:
		return "SetHTML"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the op by name.
func (op Op) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText decodes an op name.
func (op *Op) UnmarshalText(text []byte) error {
	for candidate := OpCreate; candidate <= OpSetHTML; candidate++ {
		if candidate.String() == string(text) {
			*op = candidate
			return nil
		}
	}
	return fmt.Errorf("dom: unknown op %q", text)
}

// Mutation is a single change applied to the host tree.
type Mutation struct {
	Op     Op     `json:"op"`
	Target uint64 `json:"target"`          // Element the change applies to
	Tag    string `json:"tag"`             // Tag of the target
	Key    string `json:"key,omitempty"`   // Attribute or event name
	Value  string `json:"value,omitempty"` // New attribute value, text or markup
	Child  uint64 `json:"child,omitempty"` // For Append/Insert/Remove
}

// String returns a compact description of the mutation.
func (m Mutation) String() string {
	switch m.Op {
	case OpSetAttr:
		return fmt.Sprintf("%s <%s#%d> %s=%q", m.Op, m.Tag, m.Target, m.Key, m.Value)
	case OpRemoveAttr, OpAddListener, OpRemoveListener:
		return fmt.Sprintf("%s <%s#%d> %s", m.Op, m.Tag, m.Target, m.Key)
	case OpAppend, OpInsert, OpRemove:
		return fmt.Sprintf("%s <%s#%d> child=%d", m.Op, m.Tag, m.Target, m.Child)
	case OpSetText, OpSetHTML:
		return fmt.Sprintf("%s <%s#%d> %q", m.Op, m.Tag, m.Target, m.Value)
	default:
		return fmt.Sprintf("%s <%s#%d>", m.Op, m.Tag, m.Target)
	}
}

// Recorder collects the mutations of a document.
type Recorder struct {
	mu        sync.Mutex
	mutations []Mutation
	cancel    func()
}

// Record starts recording the mutations of doc.
func Record(doc Document) *Recorder {
	r := &Recorder{}
	r.cancel = doc.Observe(func(m Mutation) {
		r.mu.Lock()
		r.mutations = append(r.mutations, m)
		r.mu.Unlock()
	})
	return r
}

// Mutations returns a copy of the recorded mutations.
func (r *Recorder) Mutations() []Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Mutation, len(r.mutations))
	copy(out, r.mutations)
	return out
}

// Ops returns the op of every recorded mutation.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]Op, len(r.mutations))
	for i, m := range r.mutations {
		ops[i] = m.Op
	}
	return ops
}

// Drain returns the recorded mutations and clears the log.
func (r *Recorder) Drain() []Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.mutations
	r.mutations = nil
	return out
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.mutations = nil
	r.mu.Unlock()
}

// Stop unregisters the recorder from its document.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
