// Package dom is the host rendering environment that reactor mounts into.
//
// Document and Element describe the small slice of the browser DOM that the
// renderer needs: element creation, attributes, event listeners, child
// insertion and removal, text content and innerHTML. HTMLDocument is the
// concrete implementation, an in-memory tree of golang.org/x/net/html nodes
// that can be parsed from and rendered back to HTML.
//
// # Mutations
//
// Every change to the tree is reported to observers as a Mutation. The
// renderer's tests use this to assert that a patch touched exactly what it
// had to, and the live server streams mutations to connected clients.
//
//	doc := dom.NewDocument()
//	rec := dom.Record(doc)
//	defer rec.Stop()
//
//	el := doc.CreateElement("div")
//	el.SetAttribute("id", "a")
//	_ = doc.Body().AppendChild(el)
//
//	fmt.Println(rec.Ops()) // [Create SetAttr Append]
package dom
