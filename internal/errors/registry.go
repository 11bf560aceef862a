package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://github.com/vango-dev/storekit/blob/main/docs/errors.md#"

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration Errors (E100-E199)

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The configuration file given on the command line does not exist.",
		DocURL:   docBase + "e100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "storekit.yaml could not be parsed. Check the YAML syntax and field types.",
		DocURL:   docBase + "e101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside its allowed range.",
		DocURL:   docBase + "e102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Unknown log level",
		Detail:   "log.level must be one of debug, info, warn or error.",
		DocURL:   docBase + "e103",
	},

	// CLI Errors (E200-E299)

	"E200": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command line flag could not be interpreted.",
		DocURL:   docBase + "e200",
	},
	"E201": {
		Category: CategoryCLI,
		Message:  "Metrics server failed",
		Detail:   "The /metrics endpoint could not be served on the configured address.",
		DocURL:   docBase + "e201",
	},
	"E202": {
		Category: CategoryCLI,
		Message:  "Tracing setup failed",
		Detail:   "The stdout span exporter could not be installed.",
		DocURL:   docBase + "e202",
	},

	// Task Errors (E300-E399)

	"E300": {
		Category: CategoryTask,
		Message:  "Task failed",
		Detail:   "The tracked task settled with an error.",
		DocURL:   docBase + "e300",
	},
	"E301": {
		Category: CategoryTask,
		Message:  "Task did not settle",
		Detail:   "The tracked task was still pending when the command gave up waiting.",
		DocURL:   docBase + "e301",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
