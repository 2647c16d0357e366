package demo

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/pkg/app"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	Console(&buf, reactive.NewScope(reactive.WithLogger(quiet())))

	want := strings.Join([]string{
		"Effect1: 200",
		"Effect2: 10000 wuwh",
		"Effect3: 50",
		"changing properties",
		"Effect2: 10000 wwh",
		"Effect3: 70",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestCounter(t *testing.T) {
	scope := reactive.NewScope(reactive.WithLogger(quiet()))
	state := scope.ReactiveMap(DefaultState())

	doc, err := dom.ParseDocument(strings.NewReader(Page))
	require.NoError(t, err)

	a := app.CreateApp(Counter(state), app.WithScope(scope), app.WithLogger(quiet()))
	require.NoError(t, a.Mount(doc, "#app"))

	kids := a.Tree().Children.(vdom.ElementChildren)
	inc, dec, input := kids[2].El, kids[3].El, kids[5].El

	a.Dispatch(inc.ID(), &dom.Event{Type: "click"})
	a.Dispatch(inc.ID(), &dom.Event{Type: "click"})
	a.Dispatch(input.ID(), &dom.Event{Type: "input", Value: "Clicks"})

	container, err := doc.QuerySelector("#app")
	require.NoError(t, err)
	html := container.InnerHTML()
	assert.Contains(t, html, `<h1>Clicks</h1>`)
	assert.Contains(t, html, `<span class="count">2</span>`)
	assert.Contains(t, html, `<ul><li>item 1</li><li>item 2</li></ul>`)

	for i := 0; i < 3; i++ {
		a.Dispatch(dec.ID(), &dom.Event{Type: "click"})
	}
	assert.Contains(t, container.InnerHTML(), `<span class="count negative">-1</span>`)
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, toInt(3))
	assert.Equal(t, 3, toInt(int64(3)))
	assert.Equal(t, 3, toInt(3.0))
	assert.Equal(t, 0, toInt("3"))
	assert.Equal(t, 0, toInt(nil))
}
