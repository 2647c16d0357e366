// Package app wires a root component to a container element.
//
// CreateApp takes a component whose Render reads reactive state. Mount
// renders it once into the container found by a CSS selector, inside an
// effect, so any later write to state it read re-renders the component and
// patches the container with the difference.
//
//	scope := reactive.NewScope()
//	state := scope.ReactiveMap(map[string]any{"count": 0})
//
//	a := app.CreateApp(vdom.Func(func() *vdom.VNode {
//	    return vdom.H("p", nil, vdom.Text(fmt.Sprint(state.Get("count"))))
//	}), app.WithScope(scope))
//
//	if err := a.Mount(doc, "#app"); err != nil {
//	    return err
//	}
//	a.Update(func() { state.Set("count", 1) }) // patches <p>
//
// # Concurrency
//
// Writes that originate outside the render/event cycle (HTTP handlers,
// file watchers) must go through Update so that the write and the
// re-render it triggers never interleave with another update.
//
// The lock is not reentrant. Inside Update and View, read the tree with
// Current and Element rather than Tree or Dispatch.
package app
