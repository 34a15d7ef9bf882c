package macros

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	// ErrUnknownMacro is returned for an invocation of a macro that has no definition.
	ErrUnknownMacro = errors.New("unknown macro")
	// ErrInvalidDefinition is returned for a definition file that fails to parse or validate.
	ErrInvalidDefinition = errors.New("invalid macro definition")
	// ErrInvalidInvocation is returned when invocation arguments do not fit the definition.
	ErrInvalidInvocation = errors.New("invalid macro invocation")
)

// Error describes a failure tied to one macro.
type Error struct {
	Name       string
	File       string
	Msg        string
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("macro %q", e.Name)
	if e.File != "" {
		msg += " (" + e.File + ")"
	}
	msg += ": " + e.Msg
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// suggest returns the closest candidate to target, or "".
func suggest(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
