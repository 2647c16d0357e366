package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/app"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/vdom"
)

// Page is the host page every harness mounts into.
const Page = `<div id="app"></div>`

// Harness is a component mounted into a scratch document.
type Harness struct {
	t         testing.TB
	doc       *dom.HTMLDocument
	app       *app.App
	container dom.Element
	rec       *dom.Recorder
}

// Mount mounts c into #app of a fresh document. The test fails immediately
// if mounting fails.
func Mount(t testing.TB, c vdom.Component, opts ...app.Option) *Harness {
	t.Helper()
	doc, err := dom.ParseDocument(strings.NewReader(Page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	a := app.CreateApp(c, opts...)
	if err := a.Mount(doc, "#app"); err != nil {
		t.Fatalf("mount: %v", err)
	}
	container, _ := doc.QuerySelector("#app")

	h := &Harness{t: t, doc: doc, app: a, container: container, rec: dom.Record(doc)}
	t.Cleanup(h.rec.Stop)
	return h
}

// App returns the mounted app.
func (h *Harness) App() *app.App { return h.app }

// Document returns the scratch document.
func (h *Harness) Document() *dom.HTMLDocument { return h.doc }

// HTML returns the container's inner HTML.
func (h *Harness) HTML() string {
	var s string
	h.app.View(func() { s = h.container.InnerHTML() })
	return s
}

// Update runs fn through the app, re-rendering synchronously.
func (h *Harness) Update(fn func()) {
	h.app.Update(fn)
}

// Mutations drains and returns the mutations recorded so far.
func (h *Harness) Mutations() []dom.Mutation {
	return h.rec.Drain()
}

// Find returns the first element matching selector, failing the test if
// there is none.
func (h *Harness) Find(selector string) dom.Element {
	h.t.Helper()
	el, err := h.doc.QuerySelector(selector)
	if err != nil {
		h.t.Fatalf("selector %q: %v", selector, err)
	}
	if el == nil {
		h.t.Fatalf("no element matches %q in:\n%s", selector, truncate(h.HTML(), 500))
	}
	return el
}

// Dispatch delivers an event to the element matching selector and returns
// the number of listeners that ran.
func (h *Harness) Dispatch(selector string, ev *dom.Event) int {
	h.t.Helper()
	el := h.Find(selector)
	var n int
	h.app.Update(func() { n = el.Dispatch(ev) })
	if err := h.app.Err(); err != nil {
		h.t.Errorf("re-render after %s on %q: %v", ev.Type, selector, err)
	}
	return n
}

// Click dispatches a click event. The test fails if no listener ran.
func (h *Harness) Click(selector string) {
	h.t.Helper()
	if h.Dispatch(selector, &dom.Event{Type: "click"}) == 0 {
		h.t.Errorf("no click listener on %q", selector)
	}
}

// Input dispatches an input event carrying value.
func (h *Harness) Input(selector, value string) {
	h.t.Helper()
	if h.Dispatch(selector, &dom.Event{Type: "input", Value: value}) == 0 {
		h.t.Errorf("no input listener on %q", selector)
	}
}

// ExpectContains asserts that the container HTML contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the container HTML does not contain s.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// RenderToString mounts node into a scratch document and returns the
// resulting HTML, or "" if mounting fails.
func RenderToString(node *vdom.VNode) string {
	_, container, err := scratch()
	if err != nil {
		return ""
	}
	if err := vdom.Mount(node, container); err != nil {
		return ""
	}
	return container.InnerHTML()
}

func scratch() (*dom.HTMLDocument, dom.Element, error) {
	doc, err := dom.ParseDocument(strings.NewReader(Page))
	if err != nil {
		return nil, nil, err
	}
	container, err := doc.QuerySelector("#app")
	return doc, container, err
}

// ExpectContains asserts that rendered output contains expected substring.
func ExpectContains(t *testing.T, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t *testing.T, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output has an element matching the
// CSS selector.
func ExpectElement(t *testing.T, node *vdom.VNode, selector string) {
	t.Helper()
	doc, container, err := scratch()
	if err != nil {
		t.Fatalf("scratch document: %v", err)
	}
	if err := vdom.Mount(node, container); err != nil {
		t.Fatalf("mount: %v", err)
	}
	el, err := doc.QuerySelector("#app " + selector)
	if err != nil {
		t.Fatalf("selector %q: %v", selector, err)
	}
	if el == nil {
		t.Errorf("expected rendered output to contain %s, got:\n%s", selector, truncate(container.InnerHTML(), 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t *testing.T, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
