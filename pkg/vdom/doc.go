// Package vdom provides the virtual tree and the mount/patch renderer.
//
// A VNode describes one element: a tag, its props and its children.
// Children are either a single text run (TextChildren) or a list of child
// nodes (ElementChildren); the two reconciliation branches are chosen by a
// type switch over that variant.
//
//	view := vdom.H("div", vdom.Props{"id": "a", "onClick": inc},
//	    vdom.Kids(
//	        vdom.H("h1", nil, vdom.Text("Counter")),
//	        vdom.H("p", nil, vdom.Text(fmt.Sprint(n))),
//	    ),
//	)
//
// # Mount and Patch
//
// Mount materializes a tree into a dom.Element container and records the
// created element on every VNode. Patch reconciles a mounted tree against a
// freshly rendered one, reusing elements where tags match and applying only
// the attribute, listener and child changes that differ. Children are
// matched by position; there is no keyed reconciliation, so reordering a
// list rewrites the affected positions.
//
// Props whose name starts with "on" are event listeners: "onClick"
// registers a "click" listener.
package vdom
