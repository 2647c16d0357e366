package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/reactor/internal/errors"
)

// Node is the Element implementation of HTMLDocument.
type Node struct {
	id        uint64
	doc       *HTMLDocument
	n         *html.Node
	listeners map[string][]Listener

	// detached holds the wrappers of this element's descendants while the
	// element is out of the document, so they can be restored on re-attach.
	detached []*Node
}

var _ Element = (*Node)(nil)

// ID implements Element.
func (e *Node) ID() uint64 { return e.id }

// TagName implements Element.
func (e *Node) TagName() string { return e.n.Data }

// OwnerDocument implements Element.
func (e *Node) OwnerDocument() Document { return e.doc }

// HTML returns the underlying html node.
func (e *Node) HTML() *html.Node { return e.n }

func (e *Node) emit(op Op, key, value string, child uint64) {
	e.doc.emit(Mutation{Op: op, Target: e.id, Tag: e.n.Data, Key: key, Value: value, Child: child})
}

// SetAttribute implements Element.
func (e *Node) SetAttribute(name, value string) {
	for i := range e.n.Attr {
		if e.n.Attr[i].Namespace == "" && e.n.Attr[i].Key == name {
			e.n.Attr[i].Val = value
			e.emit(OpSetAttr, name, value, 0)
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
	e.emit(OpSetAttr, name, value, 0)
}

// RemoveAttribute implements Element. Removing a missing attribute is a
// no-op and is not reported.
func (e *Node) RemoveAttribute(name string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			e.emit(OpRemoveAttr, name, "", 0)
			return
		}
	}
}

// GetAttribute implements Element.
func (e *Node) GetAttribute(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AddEventListener implements Element.
func (e *Node) AddEventListener(event string, l Listener) {
	if l == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[event] = append(e.listeners[event], l)
	e.emit(OpAddListener, event, "", 0)
}

// RemoveEventListener implements Element.
func (e *Node) RemoveEventListener(event string) {
	if _, ok := e.listeners[event]; !ok {
		return
	}
	delete(e.listeners, event)
	e.emit(OpRemoveListener, event, "", 0)
}

// Listeners implements Element.
func (e *Node) Listeners(event string) int {
	return len(e.listeners[event])
}

// Dispatch implements Element. Events do not bubble.
func (e *Node) Dispatch(ev *Event) int {
	ev.Target = e
	ls := append([]Listener(nil), e.listeners[ev.Type]...)
	for _, l := range ls {
		l(ev)
	}
	return len(ls)
}

// own converts child to a *Node of this document.
func (e *Node) own(child Element) (*Node, error) {
	c, ok := child.(*Node)
	if !ok || c == nil || c.doc != e.doc {
		return nil, errors.New("R006")
	}
	return c, nil
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendChild implements Element.
func (e *Node) AppendChild(child Element) error {
	c, err := e.own(child)
	if err != nil {
		return err
	}
	detach(c.n)
	e.n.AppendChild(c.n)
	e.doc.adopt(c)
	e.emit(OpAppend, "", "", c.id)
	return nil
}

// InsertBefore implements Element.
func (e *Node) InsertBefore(child, ref Element) error {
	if ref == nil {
		return e.AppendChild(child)
	}
	c, err := e.own(child)
	if err != nil {
		return err
	}
	r, err := e.own(ref)
	if err != nil {
		return err
	}
	if r.n.Parent != e.n {
		return errors.New("R004").WithDetailf("<%s> is not a child of <%s>", r.n.Data, e.n.Data)
	}
	detach(c.n)
	e.n.InsertBefore(c.n, r.n)
	e.doc.adopt(c)
	e.emit(OpInsert, "", "", c.id)
	return nil
}

// RemoveChild implements Element.
func (e *Node) RemoveChild(child Element) error {
	c, err := e.own(child)
	if err != nil {
		return err
	}
	if c.n.Parent != e.n {
		return errors.New("R004").WithDetailf("<%s> is not a child of <%s>", c.n.Data, e.n.Data)
	}
	e.n.RemoveChild(c.n)
	e.doc.release(c)
	e.emit(OpRemove, "", "", c.id)
	return nil
}

// ParentElement implements Element.
func (e *Node) ParentElement() Element {
	return e.doc.wrapElement(e.n.Parent)
}

// NextSibling implements Element. Only element siblings are considered.
func (e *Node) NextSibling() Element {
	for s := e.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return e.doc.wrap(s)
		}
	}
	return nil
}

// Children implements Element.
func (e *Node) Children() []Element {
	var out []Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

func (e *Node) clear() {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		if w, ok := e.doc.nodes[c]; ok {
			e.doc.release(w)
		}
		c = next
	}
}

// SetTextContent implements Element.
func (e *Node) SetTextContent(text string) {
	e.clear()
	if text != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	e.emit(OpSetText, "", text, 0)
}

// TextContent implements Element.
func (e *Node) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

// SetInnerHTML implements Element. The markup is parsed in the context of
// this element.
func (e *Node) SetInnerHTML(markup string) error {
	var parsed []*html.Node
	if markup != "" {
		nodes, err := html.ParseFragment(strings.NewReader(markup), e.n)
		if err != nil {
			return errors.New("R005").Wrap(err)
		}
		parsed = nodes
	}
	e.clear()
	for _, n := range parsed {
		e.n.AppendChild(n)
	}
	e.emit(OpSetHTML, "", markup, 0)
	return nil
}

// InnerHTML implements Element.
func (e *Node) InnerHTML() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// OuterHTML implements Element.
func (e *Node) OuterHTML() string {
	var b strings.Builder
	_ = html.Render(&b, e.n)
	return b.String()
}
