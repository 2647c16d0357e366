// Package config loads reactor configuration.
//
// Settings come from, in increasing priority: built-in defaults, a
// reactor.yaml file in the working directory (or the file passed with
// --config), REACTOR_-prefixed environment variables, and command flags
// bound by the CLI.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  shutdownTimeout: 5s
//	app:
//	  page: index.html
//	  selector: "#app"
//	  state: state.yaml
//	  watch: true
//	log:
//	  level: info
//	  format: text
//	metrics:
//	  enabled: true
//	  namespace: reactor
//
// Nested keys map to environment variables by replacing dots with
// underscores: REACTOR_SERVER_ADDR, REACTOR_LOG_LEVEL.
package config
