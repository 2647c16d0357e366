package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryRender,
		Message:  "Container not found",
		Detail:   "Mount needs an existing container element to append the rendered tree to.",
	},
	"R002": {
		Category: CategoryRender,
		Message:  "Virtual node is not mounted",
		Detail:   "Patch reuses the real element of the old tree; mount the old tree before patching it.",
	},
	"R003": {
		Category: CategoryRender,
		Message:  "Invalid event handler",
		Detail:   "Props starting with \"on\" must hold a func(), func(string), func(*dom.Event) or dom.Listener.",
	},
	"R004": {
		Category: CategoryHost,
		Message:  "Element is not a child of this parent",
		Detail:   "The host document refused to detach an element from a parent that does not contain it.",
	},
	"R005": {
		Category: CategoryHost,
		Message:  "Invalid markup",
		Detail:   "The host document could not parse the markup assigned to innerHTML.",
	},
	"R006": {
		Category: CategoryHost,
		Message:  "Element belongs to another document",
		Detail:   "Elements can only be attached to elements created by the same document.",
	},
	"R007": {
		Category: CategoryRender,
		Message:  "App is already mounted",
		Detail:   "An App renders into one container for its whole life; create another App to mount again.",
	},

	// ============================================
	// Config Errors (R020-R039)
	// ============================================

	"R020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"R021": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file exists but could not be read or parsed.",
	},

	// ============================================
	// State Errors (R040-R059)
	// ============================================

	"R040": {
		Category: CategoryState,
		Message:  "State file unreadable",
	},
	"R041": {
		Category: CategoryState,
		Message:  "State file malformed",
		Detail:   "State files must contain a single YAML mapping of string keys.",
	},
	"R042": {
		Category: CategoryState,
		Message:  "State watcher failed",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
