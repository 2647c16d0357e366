package dom

import (
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/reactor/internal/errors"
)

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

type observer struct {
	id int
	fn func(Mutation)
}

// HTMLDocument is an in-memory Document backed by golang.org/x/net/html.
// It is not safe for concurrent mutation; observers may be registered from
// any goroutine.
type HTMLDocument struct {
	root *html.Node
	body *html.Node

	// nodes maps html nodes to their element wrappers so that listeners and
	// IDs survive traversal.
	nodes  map[*html.Node]*Node
	lastID uint64

	obsMu     sync.Mutex
	observers []observer
	nextObs   int
}

var _ Document = (*HTMLDocument)(nil)

// NewDocument returns an empty HTML document.
func NewDocument() *HTMLDocument {
	doc, err := ParseDocument(strings.NewReader(blankPage))
	if err != nil {
		// The blank page is a constant and always parses.
		panic(err)
	}
	return doc
}

// ParseDocument parses a full HTML page. Missing html/head/body elements
// are synthesized by the parser.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.New("R005").Wrap(err)
	}
	doc := &HTMLDocument{
		root:  root,
		nodes: make(map[*html.Node]*Node),
	}
	doc.body = findElement(root, atom.Body)
	return doc, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// wrap returns the element wrapper for n, creating one if needed.
func (d *HTMLDocument) wrap(n *html.Node) *Node {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if w, ok := d.nodes[n]; ok {
		return w
	}
	d.lastID++
	w := &Node{id: d.lastID, doc: d, n: n}
	d.nodes[n] = w
	return w
}

// wrapElement is wrap without the typed-nil trap of returning *Node as an
// Element interface.
func (d *HTMLDocument) wrapElement(n *html.Node) Element {
	if w := d.wrap(n); w != nil {
		return w
	}
	return nil
}

// release drops the wrappers of w's detached subtree from the lookup table
// and parks them on w. Wrappers held by callers keep working.
func (d *HTMLDocument) release(w *Node) {
	delete(d.nodes, w.n)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if x, ok := d.nodes[c]; ok {
				delete(d.nodes, c)
				w.detached = append(w.detached, x)
			}
			walk(c)
		}
	}
	walk(w.n)
}

// adopt registers w and the descendants parked on it.
func (d *HTMLDocument) adopt(w *Node) {
	d.nodes[w.n] = w
	for _, x := range w.detached {
		d.nodes[x.n] = x
	}
	w.detached = nil
}

// CreateElement creates a detached element.
func (d *HTMLDocument) CreateElement(tag string) Element {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	w := d.wrap(n)
	d.emit(Mutation{Op: OpCreate, Target: w.id, Tag: tag})
	return w
}

// Body returns the body element.
func (d *HTMLDocument) Body() Element {
	return d.wrapElement(d.body)
}

// QuerySelector returns the first element in document order matching
// selector.
func (d *HTMLDocument) QuerySelector(selector string) (Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	return d.wrapElement(sel.MatchFirst(d.root)), nil
}

// QuerySelectorAll returns every element matching selector in document
// order.
func (d *HTMLDocument) QuerySelectorAll(selector string) ([]Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	matches := sel.MatchAll(d.root)
	out := make([]Element, 0, len(matches))
	for _, n := range matches {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

// Render writes the document as HTML.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, ignoring write errors.
func (d *HTMLDocument) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

// Observe implements Document.
func (d *HTMLDocument) Observe(fn func(Mutation)) func() {
	d.obsMu.Lock()
	d.nextObs++
	id := d.nextObs
	d.observers = append(d.observers, observer{id: id, fn: fn})
	d.obsMu.Unlock()

	return func() {
		d.obsMu.Lock()
		defer d.obsMu.Unlock()
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *HTMLDocument) emit(m Mutation) {
	d.obsMu.Lock()
	obs := make([]observer, len(d.observers))
	copy(obs, d.observers)
	d.obsMu.Unlock()

	for _, o := range obs {
		o.fn(m)
	}
}
