package dom

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/internal/errors"
)

func TestNewDocumentHasBody(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	require.NotNil(t, body)
	assert.Equal(t, "body", body.TagName())
	assert.Contains(t, doc.String(), "<body></body>")
}

func TestParseDocumentAndQuerySelector(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<div id="app" class="root"><p class="x">a</p><p class="x">b</p></div>`))
	require.NoError(t, err)

	app, err := doc.QuerySelector("#app")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "div", app.TagName())

	again, err := doc.QuerySelector("div.root")
	require.NoError(t, err)
	assert.Same(t, app.(*Node), again.(*Node), "wrappers are stable across lookups")

	all, err := doc.QuerySelectorAll("p.x")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].TextContent())
	assert.Equal(t, "b", all[1].TextContent())

	missing, err := doc.QuerySelector("#nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = doc.QuerySelector("[[")
	assert.Error(t, err)
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	el.SetAttribute("id", "a")
	el.SetAttribute("id", "b")
	v, ok := el.GetAttribute("id")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, `<div id="b"></div>`, el.OuterHTML())

	el.RemoveAttribute("id")
	_, ok = el.GetAttribute("id")
	assert.False(t, ok)
}

func TestChildrenAndSiblings(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("ul")
	a := doc.CreateElement("li")
	b := doc.CreateElement("li")
	c := doc.CreateElement("li")

	require.NoError(t, parent.AppendChild(a))
	require.NoError(t, parent.AppendChild(c))
	require.NoError(t, parent.InsertBefore(b, c))

	kids := parent.Children()
	require.Len(t, kids, 3)
	assert.Equal(t, []uint64{a.ID(), b.ID(), c.ID()}, []uint64{kids[0].ID(), kids[1].ID(), kids[2].ID()})
	assert.Equal(t, b.ID(), a.NextSibling().ID())
	assert.Nil(t, c.NextSibling())
	assert.Equal(t, parent.ID(), b.ParentElement().ID())

	require.NoError(t, parent.RemoveChild(b))
	assert.Len(t, parent.Children(), 2)
	assert.Nil(t, b.ParentElement())
}

func TestRemoveChildOfOtherParentFails(t *testing.T) {
	doc := NewDocument()
	p1 := doc.CreateElement("div")
	p2 := doc.CreateElement("div")
	child := doc.CreateElement("span")
	require.NoError(t, p1.AppendChild(child))

	err := p2.RemoveChild(child)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "R004"))

	err = p2.InsertBefore(doc.CreateElement("i"), child)
	assert.True(t, errors.HasCode(err, "R004"))
}

func TestForeignElementRejected(t *testing.T) {
	d1 := NewDocument()
	d2 := NewDocument()

	err := d1.Body().AppendChild(d2.CreateElement("div"))
	assert.True(t, errors.HasCode(err, "R006"))
}

func TestAppendMovesChild(t *testing.T) {
	doc := NewDocument()
	p1 := doc.CreateElement("div")
	p2 := doc.CreateElement("div")
	child := doc.CreateElement("span")

	require.NoError(t, p1.AppendChild(child))
	require.NoError(t, p2.AppendChild(child))

	assert.Empty(t, p1.Children())
	assert.Len(t, p2.Children(), 1)
}

func TestTextContentAndInnerHTML(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	require.NoError(t, el.AppendChild(doc.CreateElement("span")))

	el.SetTextContent("a < b")
	assert.Equal(t, "a < b", el.TextContent())
	assert.Empty(t, el.Children())
	assert.Equal(t, "a &lt; b", el.InnerHTML())

	require.NoError(t, el.SetInnerHTML(`<b>bold</b> tail`))
	assert.Equal(t, "bold tail", el.TextContent())
	require.Len(t, el.Children(), 1)
	assert.Equal(t, "b", el.Children()[0].TagName())

	require.NoError(t, el.SetInnerHTML(""))
	assert.Equal(t, "", el.InnerHTML())
}

func TestEventListeners(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("button")

	var order []string
	el.AddEventListener("click", func(ev *Event) { order = append(order, "first:"+ev.Type) })
	el.AddEventListener("click", func(*Event) { order = append(order, "second") })
	el.AddEventListener("click", nil)

	assert.Equal(t, 2, el.Listeners("click"))
	assert.Equal(t, 2, el.Dispatch(&Event{Type: "click"}))
	assert.Equal(t, []string{"first:click", "second"}, order)

	el.RemoveEventListener("click")
	assert.Equal(t, 0, el.Listeners("click"))
	assert.Equal(t, 0, el.Dispatch(&Event{Type: "click"}))
}

func TestDetachedSubtreeKeepsListeners(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("div")
	btn := doc.CreateElement("button")
	require.NoError(t, child.AppendChild(btn))
	require.NoError(t, parent.AppendChild(child))

	clicks := 0
	btn.AddEventListener("click", func(*Event) { clicks++ })

	require.NoError(t, parent.RemoveChild(child))
	require.NoError(t, doc.Body().AppendChild(child))

	found, err := doc.QuerySelector("button")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, btn.ID(), found.ID())
	found.Dispatch(&Event{Type: "click"})
	assert.Equal(t, 1, clicks)
}

func TestRecorder(t *testing.T) {
	doc := NewDocument()
	rec := Record(doc)

	el := doc.CreateElement("div")
	el.SetAttribute("id", "a")
	el.RemoveAttribute("missing")
	require.NoError(t, doc.Body().AppendChild(el))

	assert.Equal(t, []Op{OpCreate, OpSetAttr, OpAppend}, rec.Ops())

	ms := rec.Drain()
	require.Len(t, ms, 3)
	assert.Equal(t, "id", ms[1].Key)
	assert.Equal(t, "a", ms[1].Value)
	assert.Equal(t, el.ID(), ms[2].Child)
	assert.Empty(t, rec.Mutations())

	rec.Stop()
	el.SetAttribute("id", "b")
	assert.Empty(t, rec.Mutations())
}

func TestMutationJSON(t *testing.T) {
	m := Mutation{Op: OpSetAttr, Target: 3, Tag: "div", Key: "id", Value: "a"}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"SetAttr","target":3,"tag":"div","key":"id","value":"a"}`, string(data))

	var back Mutation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)

	var op Op
	assert.Error(t, op.UnmarshalText([]byte("Explode")))
}

func TestMutationString(t *testing.T) {
	tests := []struct {
		m    Mutation
		want string
	}{
		{Mutation{Op: OpCreate, Target: 1, Tag: "div"}, "Create <div#1>"},
		{Mutation{Op: OpSetAttr, Target: 1, Tag: "div", Key: "id", Value: "a"}, `SetAttr <div#1> id="a"`},
		{Mutation{Op: OpRemove, Target: 1, Tag: "ul", Child: 4}, "Remove <ul#1> child=4"},
		{Mutation{Op: OpSetText, Target: 2, Tag: "p", Value: "hi"}, `SetText <p#2> "hi"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.String())
	}
	assert.Equal(t, "Unknown", Op(0xFF).String())
}

func TestRenderWithIDs(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<div id="app"></div>`))
	require.NoError(t, err)
	app, err := doc.QuerySelector("#app")
	require.NoError(t, err)

	btn := doc.CreateElement("button")
	btn.SetTextContent("+")
	require.NoError(t, app.AppendChild(btn))

	id := strconv.FormatUint(btn.ID(), 10)
	assert.Equal(t, `<button data-reactor-id="`+id+`">+</button>`, app.InnerHTMLWithIDs())
	assert.Equal(t, `<button>+</button>`, app.InnerHTML(), "annotation does not touch the tree")

	var b strings.Builder
	require.NoError(t, doc.RenderWithIDs(&b))
	assert.Contains(t, b.String(), `<div id="app" data-reactor-id="`+strconv.FormatUint(app.ID(), 10)+`">`)
	assert.Contains(t, b.String(), `<button data-reactor-id="`+id+`">+</button>`)
	assert.NotContains(t, doc.String(), IDAttribute)
}
