package vdom

import "github.com/vango-dev/reactor/pkg/dom"

// VNode is the virtual DOM node.
type VNode struct {
	Tag      string      // Element tag name (e.g., "div")
	Props    Props       // Attributes and event handlers
	Children Children    // TextChildren, ElementChildren or nil
	El       dom.Element // Set by Mount/Patch to the element this node produced
}

// Props holds attributes and event handlers.
type Props map[string]any

// Children is the content of a VNode: TextChildren or ElementChildren.
type Children interface {
	isChildren()
}

// TextChildren is text content.
type TextChildren string

// ElementChildren is an ordered list of child nodes.
type ElementChildren []*VNode

func (TextChildren) isChildren()    {}
func (ElementChildren) isChildren() {}

// H creates a VNode. It performs no validation.
func H(tag string, props Props, children Children) *VNode {
	return &VNode{
		Tag:      tag,
		Props:    props,
		Children: children,
	}
}

// Text creates text children.
func Text(s string) TextChildren {
	return TextChildren(s)
}

// Kids creates element children.
func Kids(nodes ...*VNode) ElementChildren {
	return ElementChildren(nodes)
}

// Mounted reports whether the node has produced an element.
func (v *VNode) Mounted() bool {
	return v != nil && v.El != nil
}

// elementChildren returns the child list of c. Empty text is treated as an
// empty list, the same as no children.
func elementChildren(c Children) (ElementChildren, bool) {
	switch v := c.(type) {
	case nil:
		return nil, true
	case ElementChildren:
		return v, true
	case TextChildren:
		if v == "" {
			return nil, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
