package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/otsimple/otlresolve/runtime/catalog"
)

// Kind classifies a resolution failure.
type Kind string

const (
	KindLookup    Kind = "lookup"
	KindMacro     Kind = "macro"
	KindInvariant Kind = "invariant"
	KindRecursion Kind = "recursion"
	KindCompile   Kind = "compile"
)

var (
	ErrDatamodelNotFound = errors.New("datamodel not found")
	ErrJobNotFound       = errors.New("job sid not found")
	ErrNoCatalog         = errors.New("no catalog configured")
	ErrNoFixedPoint      = errors.New("subsearch extraction did not reach a fixed point")
	ErrRecursionDepth    = errors.New("recursion depth exceeded")
)

// Error is returned by Resolve. Any Error aborts the whole resolution.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("resolve: ")
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		b.WriteString(` (did you mean "`)
		b.WriteString(e.Suggestion)
		b.WriteString(`"?)`)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// lookupError wraps a catalog failure. A missing record is reported with
// sentinel so callers can test for it without knowing the catalog type.
func lookupError(msg string, sentinel, err error) *Error {
	if isNotFound(err) {
		return &Error{Kind: KindLookup, Message: msg, Cause: fmt.Errorf("%w: %w", sentinel, err)}
	}
	return &Error{Kind: KindLookup, Message: msg, Cause: err}
}

func isNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound) || errors.Is(err, ErrNoCatalog)
}

// suggestDatamodel returns the closest known datamodel name, when the catalog
// can list them.
func suggestDatamodel(ctx context.Context, c catalog.Catalog, name string) string {
	lister, ok := c.(catalog.Lister)
	if !ok {
		return ""
	}
	names, err := lister.DatamodelNames(ctx)
	if err != nil || len(names) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		// Name longer than every candidate: try the other direction
		for _, n := range names {
			if fuzzy.MatchFold(n, name) {
				return n
			}
		}
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
