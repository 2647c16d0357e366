package dom

import "io"

// Listener handles an event dispatched to an element.
type Listener func(ev *Event)

// Event is dispatched to the listeners registered on an element.
type Event struct {
	// Type is the event name without the "on" prefix (e.g., "click").
	Type string

	// Target is the element the event was dispatched to.
	Target Element

	// Value carries the payload of input-like events.
	Value string
}

// Element is a node of the host tree.
type Element interface {
	// ID returns a document-unique identifier, stable for the element's life.
	ID() uint64
	TagName() string
	OwnerDocument() Document

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	GetAttribute(name string) (string, bool)

	// AddEventListener registers l for event. Listeners run in
	// registration order.
	AddEventListener(event string, l Listener)

	// RemoveEventListener drops every listener registered for event.
	RemoveEventListener(event string)

	// Listeners returns how many listeners are registered for event.
	Listeners(event string) int

	// Dispatch runs the listeners for ev.Type and returns how many ran.
	Dispatch(ev *Event) int

	// AppendChild attaches child as the last child, detaching it from any
	// previous parent first.
	AppendChild(child Element) error

	// InsertBefore attaches child before ref. A nil ref appends.
	InsertBefore(child, ref Element) error

	// RemoveChild detaches child. It fails if child is not a child of this
	// element.
	RemoveChild(child Element) error

	ParentElement() Element
	NextSibling() Element
	Children() []Element

	// SetTextContent replaces all children with a single text node.
	SetTextContent(text string)
	TextContent() string

	// SetInnerHTML replaces all children with the parsed markup.
	SetInnerHTML(markup string) error
	InnerHTML() string
	OuterHTML() string

	// InnerHTMLWithIDs is InnerHTML with each element's ID written to the
	// IDAttribute attribute.
	InnerHTMLWithIDs() string
}

// Document creates elements and owns the tree they live in.
type Document interface {
	CreateElement(tag string) Element
	Body() Element

	// QuerySelector returns the first element matching a CSS selector, or
	// nil if none matches.
	QuerySelector(selector string) (Element, error)

	// Render writes the whole document as HTML.
	Render(w io.Writer) error

	// RenderWithIDs is Render with each element's ID written to the
	// IDAttribute attribute.
	RenderWithIDs(w io.Writer) error

	// Observe registers fn for every subsequent mutation and returns a
	// function that unregisters it.
	Observe(fn func(Mutation)) (cancel func())
}
