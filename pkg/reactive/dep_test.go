package reactive

import "testing"

func TestDepDependDedupes(t *testing.T) {
	d := newDep()
	e1 := &Effect{id: nextID()}
	e2 := &Effect{id: nextID()}

	if !d.depend(e1) {
		t.Error("first depend should report added")
	}
	if d.depend(e1) {
		t.Error("second depend of the same effect should report not added")
	}
	d.depend(e2)
	if d.depend(nil) {
		t.Error("depend(nil) should be ignored")
	}

	subs := d.Subscribers()
	if len(subs) != 2 || subs[0] != e1 || subs[1] != e2 {
		t.Errorf("Subscribers() = %v, want [e1 e2]", subs)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if !d.Has(e2) {
		t.Error("Has(e2) = false")
	}
}

func TestDepSubscribersIsACopy(t *testing.T) {
	d := newDep()
	d.depend(&Effect{id: nextID()})

	subs := d.Subscribers()
	subs[0] = nil

	if d.Subscribers()[0] == nil {
		t.Error("mutating the returned slice should not affect the dep")
	}
}

func TestScopeDepIsReused(t *testing.T) {
	s := NewScope()
	obj := NewRecord(nil)

	if s.Dep(obj, "k") != s.Dep(obj, "k") {
		t.Error("Dep should return the same node for the same (object, key)")
	}
	if s.Dep(obj, "k") == s.Dep(obj, "other") {
		t.Error("different keys should have different nodes")
	}
	if s.Dep(obj, "k") == s.Dep(NewRecord(nil), "k") {
		t.Error("different objects should have different nodes")
	}
	if s.Subscribers(NewRecord(nil), "missing") != nil {
		t.Error("Subscribers of an unknown pair should be nil")
	}
}

func TestRecordKeysSorted(t *testing.T) {
	r := NewRecord(map[string]any{"b": 1, "a": 2, "c": 3})
	keys := r.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys() = %v, want [a b c]", keys)
	}

	snap := r.Snapshot()
	snap["a"] = 99
	if v, _ := r.Get("a"); v != 2 {
		t.Error("Snapshot should be a copy")
	}
}
