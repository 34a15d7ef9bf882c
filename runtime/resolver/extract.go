package resolver

import (
	"fmt"
	"strings"

	"github.com/otsimple/otlresolve/core/invariant"
)

// extract replaces bracketed subsearches with references to their ids,
// innermost first, until no bracketed span is left. Each body runs the command
// transformers on its own.
func (l *level) extract(text string) (string, error) {
	for pass := 0; ; pass++ {
		open, end, ok := innermostSpan(text)
		if !ok {
			if pass > 0 {
				l.trace("extract", text)
			}
			return text, nil
		}
		if pass == l.r.maxPasses {
			return "", &Error{
				Kind:    KindInvariant,
				Message: fmt.Sprintf("brackets left after %d extraction passes", pass),
				Cause:   ErrNoFixedPoint,
			}
		}
		if err := l.ctx.Err(); err != nil {
			return "", err
		}

		id, err := l.subsearch(text[open+1 : end])
		if err != nil {
			return "", err
		}
		before := strings.Count(text, "[")
		text = text[:open] + "subsearch=" + id + text[end+1:]
		invariant.Invariant(strings.Count(text, "[") < before, "extraction pass %d left %d brackets", pass, before)
	}
}

// subsearch registers body and returns its id. The id hashes the body with
// quotes restored; protected command bodies stay as placeholders there.
func (l *level) subsearch(body string) (string, error) {
	resolved, err := l.transform(body)
	if err != nil {
		return "", err
	}
	id := subsearchID(l.p.RestoreQuoted(body))
	l.register(id, Pair{Original: l.p.Restore(body), Resolved: l.p.Restore(resolved)})
	return id, nil
}

// innermostSpan finds the last '[' that has a ']' later on its line and is not
// the first character of the line. It returns the positions of both brackets.
// Empty [] pairs are not subsearches.
func innermostSpan(s string) (open, end int, ok bool) {
	for open = strings.LastIndexByte(s, '['); open >= 0; open = strings.LastIndexByte(s[:open], '[') {
		if open == 0 || s[open-1] == '\n' {
			continue
		}
		rest := s[open+1:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if i := strings.IndexByte(rest, ']'); i > 0 {
			return open, open + 1 + i, true
		}
	}
	return -1, -1, false
}
