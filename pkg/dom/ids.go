package dom

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// IDAttribute carries an element's ID in annotated renderings, so that a
// client holding the HTML can address events and mutations to it.
const IDAttribute = "data-reactor-id"

// RenderWithIDs writes the document like Render, with every tracked element
// carrying its ID in IDAttribute. The tree itself is left untouched.
func (d *HTMLDocument) RenderWithIDs(w io.Writer) error {
	return html.Render(w, d.annotate(d.root))
}

// InnerHTMLWithIDs is InnerHTML with element IDs written to IDAttribute.
func (e *Node) InnerHTMLWithIDs() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, e.doc.annotate(c))
	}
	return b.String()
}

// annotate returns a deep copy of n in which tracked elements gain an
// IDAttribute. Elements nobody has looked up yet have no ID to show.
func (d *HTMLDocument) annotate(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	if w, ok := d.nodes[n]; ok {
		c.Attr = append(c.Attr, html.Attribute{Key: IDAttribute, Val: strconv.FormatUint(w.id, 10)})
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(d.annotate(k))
	}
	return c
}
