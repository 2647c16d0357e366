// Package demo contains the sample programs run by the reactor CLI: a
// console walkthrough of dependency tracking and a counter component.
package demo

import (
	"fmt"
	"io"

	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Page is the host page used when no page file is configured.
const Page = `<!DOCTYPE html><html><head><title>reactor</title></head><body><div id="app"></div></body></html>`

// Console registers three effects over two objects, then writes one
// property of each. Every effect run prints one line to w.
func Console(w io.Writer, scope *reactive.Scope) {
	info := scope.ReactiveMap(map[string]any{"counter": 100, "name": "wuwh"})
	square := scope.ReactiveMap(map[string]any{"height": 50})

	scope.WatchEffect(func() {
		fmt.Fprintln(w, "Effect1:", reactive.Value[int](info, "counter")*2)
	})
	scope.WatchEffect(func() {
		c := reactive.Value[int](info, "counter")
		fmt.Fprintln(w, "Effect2:", c*c, info.Get("name"))
	})
	scope.WatchEffect(func() {
		fmt.Fprintln(w, "Effect3:", square.Get("height"))
	})

	fmt.Fprintln(w, "changing properties")

	info.Set("name", "wwh")
	square.Set("height", "70")
}

// DefaultState is the initial state of the counter.
func DefaultState() map[string]any {
	return map[string]any{
		"count": 0,
		"title": "Counter",
		"items": []any{},
	}
}

// Counter renders a titled counter with increment, decrement and reset
// buttons and a list holding one entry per increment.
func Counter(state *reactive.Store) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		count := toInt(state.Get("count"))
		title := fmt.Sprint(state.Get("title"))
		items, _ := state.Get("items").([]any)

		list := make(vdom.ElementChildren, 0, len(items))
		for _, it := range items {
			list = append(list, vdom.H("li", nil, vdom.Text(fmt.Sprint(it))))
		}

		class := "count"
		if count < 0 {
			class = "count negative"
		}

		return vdom.H("div", vdom.Props{"class": "counter"}, vdom.Kids(
			vdom.H("h1", nil, vdom.Text(title)),
			vdom.H("span", vdom.Props{"class": class}, vdom.Text(fmt.Sprint(count))),
			vdom.H("button", vdom.Props{
				"class":   "inc",
				"onClick": func() { increment(state, 1) },
			}, vdom.Text("+")),
			vdom.H("button", vdom.Props{
				"class":   "dec",
				"onClick": func() { increment(state, -1) },
			}, vdom.Text("-")),
			vdom.H("button", vdom.Props{
				"class":   "reset",
				"onClick": func() { state.Set("count", 0); state.Set("items", []any{}) },
			}, vdom.Text("reset")),
			vdom.H("input", vdom.Props{
				"value":   title,
				"onInput": func(v string) { state.Set("title", v) },
			}, nil),
			vdom.H("ul", nil, list),
		))
	})
}

func increment(state *reactive.Store, by int) {
	next := toInt(state.Get("count")) + by
	state.Set("count", next)
	if by > 0 {
		items, _ := state.Get("items").([]any)
		grown := append(append([]any(nil), items...), fmt.Sprintf("item %d", next))
		state.Set("items", grown)
	}
}

// toInt accepts the integer shapes produced by YAML and JSON decoding.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
