package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/app"
	"github.com/vango-dev/reactor/pkg/dom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

type fixture struct {
	srv   *Server
	app   *app.App
	store *reactive.Store
	http  *httptest.Server
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newFixture(t *testing.T, reg *prometheus.Registry) *fixture {
	t.Helper()
	scope := reactive.NewScope(reactive.WithLogger(quiet()))
	store := scope.ReactiveMap(demo.DefaultState())

	doc, err := dom.ParseDocument(strings.NewReader(demo.Page))
	require.NoError(t, err)

	a := app.CreateApp(demo.Counter(store), app.WithScope(scope), app.WithLogger(quiet()))
	require.NoError(t, a.Mount(doc, "#app"))

	srv, err := New(a, doc, store, Config{Logger: quiet(), Registry: reg})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.hub.close()
		ts.Close()
	})
	return &fixture{srv: srv, app: a, store: store, http: ts}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.http.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// find parses markup and returns the first element matching selector.
func find(t *testing.T, markup, selector string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	n := cascadia.MustCompile(selector).MatchFirst(root)
	require.NotNil(t, n, "no %s in %s", selector, markup)
	return n
}

func text(t *testing.T, markup, selector string) string {
	t.Helper()
	n := find(t, markup, selector)
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// idOf returns the element ID a client reads from served HTML.
func idOf(t *testing.T, markup, selector string) uint64 {
	t.Helper()
	for _, a := range find(t, markup, selector).Attr {
		if a.Key == dom.IDAttribute {
			id, err := strconv.ParseUint(a.Val, 10, 64)
			require.NoError(t, err)
			return id
		}
	}
	t.Fatalf("%s has no %s attribute", selector, dom.IDAttribute)
	return 0
}

func TestNewContainerNotFound(t *testing.T) {
	doc := dom.NewDocument()
	a := app.CreateApp(vdom.Func(func() *vdom.VNode { return vdom.H("p", nil, nil) }),
		app.WithLogger(quiet()))
	store := reactive.NewScope().ReactiveMap(nil)

	_, err := New(a, doc, store, Config{Selector: "#nope", Logger: quiet()})
	assert.True(t, errors.HasCode(err, "R001"))
}

func TestGetPage(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "0", text(t, readBody(t, resp), "span.count"))
}

func TestGetState(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, 0.0, state["count"])
	assert.Equal(t, "Counter", state["title"])
}

func TestPutStateRerendersAndBroadcasts(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)

	hello := readMessage(t, conn)
	assert.Equal(t, TypeHello, hello.Type)
	assert.NotEmpty(t, hello.Client)
	assert.Equal(t, "0", text(t, hello.HTML, "span.count"))

	resp := f.do(t, http.MethodPut, "/state/count", "41")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	f.app.View(func() { assert.Equal(t, 41, f.store.Get("count")) })

	msg := readMessage(t, conn)
	assert.Equal(t, TypeMutations, msg.Type)
	assert.NotEmpty(t, msg.Mutations)
	assert.Equal(t, "41", text(t, msg.HTML, "span.count"))

	page := readBody(t, f.do(t, http.MethodGet, "/", ""))
	assert.Equal(t, "41", text(t, page, "span.count"))
}

func TestPutStateBadJSON(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodPut, "/state/count", "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"error"`)
}

func TestPostEvent(t *testing.T) {
	f := newFixture(t, nil)
	page := readBody(t, f.do(t, http.MethodGet, "/", ""))
	inc := idOf(t, page, "button.inc")

	resp := f.do(t, http.MethodPost, "/events", `{"target":`+itoa(inc)+`,"event":"click"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	page = readBody(t, f.do(t, http.MethodGet, "/", ""))
	assert.Equal(t, "1", text(t, page, "span.count"))
	assert.Equal(t, inc, idOf(t, page, "button.inc"), "IDs survive re-renders")

	resp = f.do(t, http.MethodPost, "/events", `{"target":999999,"event":"click"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/events", `{"target":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostEventInput(t *testing.T) {
	f := newFixture(t, nil)
	input := idOf(t, readBody(t, f.do(t, http.MethodGet, "/", "")), "input")

	resp := f.do(t, http.MethodPost, "/events", `{"target":`+itoa(input)+`,"event":"input","value":"Renamed"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "Renamed", text(t, readBody(t, f.do(t, http.MethodGet, "/", "")), "h1"))
}

func TestWebSocketEvent(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)
	hello := readMessage(t, conn)
	inc := idOf(t, hello.HTML, "button.inc")

	require.NoError(t, conn.WriteJSON(Message{Type: TypeEvent, Target: inc, Event: "click"}))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeMutations, msg.Type)
	assert.Equal(t, "1", text(t, msg.HTML, "span.count"))
	assert.Equal(t, "item 1", text(t, msg.HTML, "li"))

	li := idOf(t, msg.HTML, "li")
	created := false
	for _, m := range msg.Mutations {
		if m.Op == dom.OpCreate && m.Target == li {
			created = true
		}
	}
	assert.True(t, created, "mutation targets match the IDs in the HTML")

	require.NoError(t, conn.WriteJSON(Message{Type: TypeEvent, Target: 999999, Event: "click"}))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	msg = readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Error, "bogus")
}

func TestApplyBroadcastsOneBatch(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)
	readMessage(t, conn)

	f.srv.Apply(map[string]any{"count": 3, "title": "Applied"})

	msg := readMessage(t, conn)
	assert.Equal(t, "Applied", text(t, msg.HTML, "h1"))
	assert.Equal(t, "3", text(t, msg.HTML, "span.count"))
}

func TestUpdateWithoutMutationsIsSilent(t *testing.T) {
	f := newFixture(t, nil)
	conn := f.dial(t)
	readMessage(t, conn)

	f.srv.Update(func() {})
	f.srv.Apply(map[string]any{"count": 9})

	msg := readMessage(t, conn)
	assert.Equal(t, "9", text(t, msg.HTML, "span.count"), "empty update sent nothing")
}

func TestCrossOriginRejected(t *testing.T) {
	f := newFixture(t, nil)
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, reg)
	conn := f.dial(t)
	readMessage(t, conn)
	f.do(t, http.MethodPut, "/state/count", "2")
	readMessage(t, conn)

	body := readBody(t, f.do(t, http.MethodGet, "/metrics", ""))
	assert.Contains(t, body, "reactor_ws_clients 1")
	assert.Contains(t, body, "reactor_ws_batches_total 1")
	assert.Contains(t, body, "reactor_state_writes_total 1")
	assert.Contains(t, body, `reactor_http_requests_total{method="PUT",route="/state/{key}",status="2xx"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/metrics", "").StatusCode)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	scope := reactive.NewScope(reactive.WithLogger(quiet()))
	store := scope.ReactiveMap(demo.DefaultState())
	doc, err := dom.ParseDocument(strings.NewReader(demo.Page))
	require.NoError(t, err)
	a := app.CreateApp(demo.Counter(store), app.WithScope(scope), app.WithLogger(quiet()))
	require.NoError(t, a.Mount(doc, "#app"))

	srv, err := New(a, doc, store, Config{Logger: quiet()})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/state")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, 0, srv.Clients())
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "a.test", "", true},
		{"same", "a.test:8080", "http://a.test:8080", true},
		{"different port", "a.test:8080", "http://a.test:9090", false},
		{"different host", "a.test", "https://b.test", false},
		{"garbage", "a.test", "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, SameOriginCheck(r))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 3, normalize(3.0))
	assert.Equal(t, 2.5, normalize(2.5))
	assert.Equal(t, []any{1, "x"}, normalize([]any{1.0, "x"}))
	assert.Equal(t, map[string]any{"n": 4}, normalize(map[string]any{"n": 4.0}))
	assert.Equal(t, 1e300, normalize(1e300))
}

func itoa(n uint64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
