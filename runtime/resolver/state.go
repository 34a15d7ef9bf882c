package resolver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otsimple/otlresolve/core/invariant"
	"github.com/otsimple/otlresolve/runtime/protect"
)

// call is the state of one Resolve. Nested resolutions of job OTL share its
// subsearch table.
type call struct {
	ctx  context.Context
	r    *Resolver
	log  *slog.Logger
	subs *subsearchTable
}

// level is one text under resolution: the query itself or the OTL of a job it
// loads. Each level has its own placeholders.
type level struct {
	*call
	depth int
	p     *protect.Protector
}

func (c *call) resolve(text string, depth int) (string, error) {
	invariant.Precondition(depth >= 0, "resolve depth must not be negative, got %d", depth)
	if depth > c.r.maxDepth {
		return "", &Error{
			Kind:    KindRecursion,
			Message: fmt.Sprintf("jobs nested deeper than %d", c.r.maxDepth),
			Cause:   ErrRecursionDepth,
		}
	}
	l := &level{call: c, depth: depth, p: protect.New(c.r.noSubsearch)}
	return l.run(text)
}

func (l *level) run(text string) (string, error) {
	if err := l.ctx.Err(); err != nil {
		return "", err
	}

	text, err := l.expandMacros(text)
	if err != nil {
		return "", err
	}
	if text, err = l.inlineJobs(text); err != nil {
		return "", err
	}

	text = l.p.HideInline(l.p.HideCommands(l.p.HideQuoted(text)))
	quoted, hidden := l.p.Len()
	l.log.Debug("stage done", "stage", "protect", "depth", l.depth, "quoted", quoted, "hidden", hidden, "text", text)

	if text, err = l.extract(text); err != nil {
		return "", err
	}
	if text, err = l.transform(text); err != nil {
		return "", err
	}

	text = l.p.Restore(text)
	invariant.Postcondition(!l.p.Leaks(text), "placeholder survived restoration in %q", text)
	l.trace("restore", text)
	return text, nil
}

func (l *level) expandMacros(text string) (string, error) {
	if l.r.macros == nil {
		return text, nil
	}
	out, n, err := l.r.macros.Expand(text)
	if err != nil {
		return "", &Error{Kind: KindMacro, Message: "macro expansion failed", Cause: err}
	}
	if n > 0 {
		l.trace("macros", out)
	}
	return out, nil
}

func (l *level) register(id string, p Pair) {
	l.subs.put(id, p)
	l.r.metrics.observeSubsearch()
	l.log.Debug("subsearch registered", "id", id, "depth", l.depth, "original", p.Original)
}

func (l *level) trace(stage, text string) {
	l.log.Debug("stage done", "stage", stage, "depth", l.depth, "text", text)
}

// subsearchID is the content address of a subsearch body.
func subsearchID(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return "subsearch_" + hex.EncodeToString(sum[:])
}

// subsearchTable keeps subsearches in registration order. Registering an id
// again replaces its pair in place.
type subsearchTable struct {
	index map[string]int
	items []Subsearch
}

func newSubsearchTable() *subsearchTable {
	return &subsearchTable{index: make(map[string]int)}
}

func (t *subsearchTable) put(id string, p Pair) {
	if i, ok := t.index[id]; ok {
		t.items[i].Pair = p
		return
	}
	t.index[id] = len(t.items)
	t.items = append(t.items, Subsearch{ID: id, Pair: p})
}

func (t *subsearchTable) len() int {
	return len(t.items)
}

func (t *subsearchTable) list() []Subsearch {
	return append([]Subsearch(nil), t.items...)
}
