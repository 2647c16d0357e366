// Package server exposes a mounted App over HTTP.
//
// Routes:
//
//	GET  /              the host document as HTML
//	GET  /state         the store as a JSON object
//	PUT  /state/{key}   write a JSON value to one key
//	POST /events        dispatch {"target":id,"event":"click","value":""}
//	GET  /ws            WebSocket stream of mutation batches
//	GET  /metrics       Prometheus metrics (when a registry is configured)
//
// Every write, whatever its source, runs through App.Update. The mutations
// it produces are broadcast to all WebSocket clients as one batch, together
// with the container's resulting inner HTML.
//
// All HTML the server sends, from GET / as well as in WebSocket frames,
// carries each element's ID in a data-reactor-id attribute. Those IDs are
// the targets of event requests and of mutations.
//
// # WebSocket Messages
//
// On connect the server sends a hello carrying the client ID and the current
// container HTML. Clients may send event messages, which are dispatched like
// POST /events.
//
//	{"type":"hello","client":"6f1c...","html":"<p data-reactor-id=\"7\">0</p>"}
//	{"type":"mutations","mutations":[{"op":"SetText","target":7,...}],"html":"<p data-reactor-id=\"7\">1</p>"}
//	{"type":"event","target":9,"event":"click"}
package server
