// Package errors provides structured, coded errors for reactor.
//
// Every failure the runtime can report has a registered code (e.g. "R002")
// that maps to a category, a short message and a longer explanation.
// Errors from the host document or the file system are wrapped, never
// replaced, so errors.Is and errors.As keep working on the cause.
//
// # Error Categories
//
//   - render: mount/patch contract violations
//   - host: failures raised by the host document
//   - config: configuration loading and validation
//   - state: state file loading and decoding
//
// # Usage
//
//	err := errors.New("R001").
//	    WithDetail("no element matches #app").
//	    WithSuggestion("Add <div id=\"app\"></div> to the document body")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Container not found
//	//
//	//   no element matches #app
//	//
//	//   Hint: Add <div id="app"></div> to the document body
package errors
