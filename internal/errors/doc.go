// Package errors provides structured, actionable error messages for the
// storekit CLI.
//
// Each error has a unique code (e.g., "E101") registered with a category, a
// short message, a longer explanation and a documentation URL. Callers add
// the specifics:
//
//	err := errors.New("E102").
//	    WithDetail("demo.iterations must be at least 1, got 0").
//	    WithSuggestion("Set demo.iterations in storekit.yaml")
//
//	errors.PrintError(err)
//	// ERROR E102: Invalid configuration value
//	//
//	//   demo.iterations must be at least 1, got 0
//	//
//	//   Hint: Set demo.iterations in storekit.yaml
//
// # Error Codes
//
//   - E100-E199: configuration
//   - E200-E299: command line
//   - E300-E399: tasks
package errors
