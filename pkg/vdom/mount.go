package vdom

import (
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
)

// Mount creates the elements for v and appends them to container. Every
// node of the tree gets its El set.
func Mount(v *VNode, container dom.Element) error {
	if container == nil {
		return errors.New("R001").WithDetail("mount called with a nil container")
	}
	return mountBefore(v, container, nil)
}

// mountBefore mounts v into parent before ref; a nil ref appends.
func mountBefore(v *VNode, parent, ref dom.Element) error {
	el, err := create(v, parent.OwnerDocument())
	if err != nil {
		return err
	}
	return parent.InsertBefore(el, ref)
}

// create builds the detached element subtree for v.
func create(v *VNode, doc dom.Document) (dom.Element, error) {
	el := doc.CreateElement(v.Tag)
	v.El = el

	for _, key := range sortedKeys(v.Props) {
		if err := setProp(el, key, v.Props[key]); err != nil {
			return nil, err
		}
	}

	if text, ok := v.Children.(TextChildren); ok {
		if text != "" {
			el.SetTextContent(string(text))
		}
		return el, nil
	}
	kids, _ := elementChildren(v.Children)
	for _, child := range kids {
		if err := Mount(child, el); err != nil {
			return nil, err
		}
	}
	return el, nil
}
