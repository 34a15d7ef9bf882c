// Package invariant provides contract assertions for the resolver.
//
// Assertions express programming errors, never user errors: a malformed query
// is reported through an error return, while a placeholder that survives its own
// restoration or a pass that fails to make progress means the resolver itself is
// broken. Use Precondition/Postcondition to express function contracts, and
// Invariant for internal consistency checks.
//
// All functions panic on violation.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func newState(depth int) *state {
//	    invariant.Precondition(depth >= 0, "depth must not be negative")
//	    // ... work ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
// Panics with POSTCONDITION VIOLATION if condition is false.
//
// Example:
//
//	out := p.Restore(text)
//	invariant.Postcondition(!p.Leaks(out), "restored text still holds placeholders")
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Use this for loop progress checks and state consistency.
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// ExpectNoError panics if err is not nil.
// This is a postcondition check for operations that cannot fail on valid input,
// such as compiling a regular expression built from quoted literals.
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

// fail panics with a formatted message including call stack context.
func fail(kind, format string, args ...interface{}) {
	// Skip fail() and the exported wrapper
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
