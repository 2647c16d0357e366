// Package vtest provides testing helpers for reactor components.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    scope := reactive.NewScope()
//	    state := scope.ReactiveMap(map[string]any{"count": 0})
//
//	    h := vtest.Mount(t, Counter(state), app.WithScope(scope))
//	    h.Click("button.inc")
//	    h.ExpectContains(`<span class="count">1</span>`)
//	}
//
// # Render Assertions
//
// For a single tree without state, the package-level assertions mount the
// node into a scratch document and inspect its HTML:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectElement(t, node, "ul > li.active")
//	vtest.ExpectAttribute(t, node, "class", "btn-primary")
//
// # Mutations
//
// A Harness records every host mutation after mounting. Mutations drains
// the log, which makes it easy to assert how much a change touched:
//
//	h.Mutations() // discard the mount
//	h.Update(func() { state.Set("count", 2) })
//	assert.Len(t, h.Mutations(), 1)
package vtest
