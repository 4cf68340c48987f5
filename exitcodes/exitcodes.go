// Package exitcodes defines the standard exit codes used by webspec.
package exitcodes

// Exit code constants used by webspec.
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when all features pass
// * TestFailure (1): Used when one or more scenarios fail
// * RuntimeErr (2): Used for runtime errors such as panics, timeouts or other failures
const (
	Success     = 0 // All features pass
	TestFailure = 1 // Scenario or feature failures
	RuntimeErr  = 2 // Runtime errors or timeouts
)
