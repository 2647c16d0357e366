package vdom

import (
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/dom"
)

// Patch reconciles the mounted tree prev against next, mutating prev's
// elements in place and setting next.El (and the El of every reused or
// newly mounted descendant).
func Patch(prev, next *VNode) error {
	if !prev.Mounted() {
		return errors.New("R002")
	}

	// Different tag - replace the whole subtree at the same position
	if prev.Tag != next.Tag {
		parent := prev.El.ParentElement()
		if parent == nil {
			return errors.New("R004").WithDetailf("<%s> has no parent", prev.Tag)
		}
		ref := prev.El.NextSibling()
		if err := parent.RemoveChild(prev.El); err != nil {
			return err
		}
		return mountBefore(next, parent, ref)
	}

	el := prev.El
	next.El = el

	if err := patchProps(el, prev.Props, next.Props); err != nil {
		return err
	}
	return patchChildren(el, prev.Children, next.Children)
}

// patchProps sets new or changed props and removes props that are gone.
// Props with equal values are not touched.
func patchProps(el dom.Element, prev, next Props) error {
	for _, key := range sortedKeys(next) {
		nextVal := next[key]
		prevVal, existed := prev[key]
		if existed && propsEqual(prevVal, nextVal) {
			continue
		}
		if existed && isEventHandler(key) {
			el.RemoveEventListener(eventName(key))
		}
		if err := setProp(el, key, nextVal); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(prev) {
		if _, ok := next[key]; !ok {
			removeProp(el, key)
		}
	}
	return nil
}

// patchChildren reconciles the content of el.
func patchChildren(el dom.Element, prev, next Children) error {
	nextKids, nextIsList := elementChildren(next)
	prevKids, prevIsList := elementChildren(prev)

	if !nextIsList {
		text := next.(TextChildren)
		if prevText, ok := prev.(TextChildren); ok && !prevIsList {
			if prevText != text {
				el.SetTextContent(string(text))
			}
			return nil
		}
		// List -> text: overwrite everything with one assignment.
		el.SetTextContent(string(text))
		return nil
	}

	if !prevIsList {
		// Text -> list: clear, then mount every new child fresh.
		if err := el.SetInnerHTML(""); err != nil {
			return err
		}
		for _, child := range nextKids {
			if err := Mount(child, el); err != nil {
				return err
			}
		}
		return nil
	}

	// Positional diff
	common := min(len(prevKids), len(nextKids))
	for i := 0; i < common; i++ {
		if err := Patch(prevKids[i], nextKids[i]); err != nil {
			return err
		}
	}
	for _, child := range nextKids[common:] {
		if err := Mount(child, el); err != nil {
			return err
		}
	}
	for _, child := range prevKids[common:] {
		if !child.Mounted() {
			return errors.New("R002").WithDetailf("surplus <%s> child was never mounted", child.Tag)
		}
		if err := el.RemoveChild(child.El); err != nil {
			return err
		}
	}
	return nil
}
