package filter

import "fmt"

// SyntaxError reports a search expression that could not be parsed.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func newSyntaxError(input string, offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Input: input, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter: %s at offset %d in %q", e.Msg, e.Offset, e.Input)
}
