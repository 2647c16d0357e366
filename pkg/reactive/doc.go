// Package reactive provides the dependency-tracking engine for reactor.
//
// A Scope owns all tracking state: the registry that maps each observed
// object and property to its Dep, and the slot holding the effect that is
// currently running. Nothing is process-global, so independent scopes can
// coexist and be tested in isolation.
//
// # Core Types
//
// Store wraps an Object and intercepts Get and Set:
//
//	scope := reactive.NewScope()
//	info := scope.Reactive(reactive.NewRecord(map[string]any{"counter": 100}))
//
// Effect re-runs whenever a property it read is written:
//
//	scope.WatchEffect(func() {
//	    fmt.Println("double:", reactive.Value[int](info, "counter")*2)
//	})
//	info.Set("counter", 101) // prints "double: 202"
//
// # Semantics
//
// Every Set notifies, even when the value is unchanged. Notification is
// synchronous and runs subscribers in the order they subscribed. There is
// no batching and no unsubscription: once an effect has read a property it
// stays subscribed to it for the lifetime of the Scope.
//
// # Thread Safety
//
// A Scope is not safe for concurrent use. Callers that write from several
// goroutines must serialize those writes (see app.App.Update).
package reactive
