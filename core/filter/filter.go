// Package filter compiles search expressions into the graphs consumed by the
// execution engine: a ReadGraph for a leading search and a FilterGraph for a
// filter stage.
package filter

import (
	"regexp"
	"strings"

	"github.com/otsimple/otlresolve/core/graph"
	"github.com/otsimple/otlresolve/core/invariant"
)

// StripIndexes removes every index=<name> clause from seq and returns the
// remaining expression with the requested names in source order. A removed
// clause takes its connector with it; an operand that becomes first in its
// sequence loses its connector. Groups left empty are removed the same way.
func StripIndexes(seq Seq) (Seq, []string) {
	var names []string
	out := stripSeq(seq, &names)
	return out, names
}

func stripSeq(seq Seq, names *[]string) Seq {
	var out Seq
	for _, it := range seq.Items {
		n := it.Node
		switch v := n.(type) {
		case *Comparison:
			if v.Field == "index" && v.Op == "=" {
				*names = append(*names, v.Value)
				continue
			}
		case *Group:
			inner := stripSeq(v.Seq, names)
			if len(inner.Items) == 0 {
				continue
			}
			n = &Group{Seq: inner}
		}
		conn := it.Conn
		if len(out.Items) == 0 {
			conn = ""
		} else if conn == "" {
			conn = "AND"
		}
		out.Items = append(out.Items, Item{Conn: conn, Node: n})
	}
	return out
}

// ParseFilter compiles the argument of a filter-stage search.
func ParseFilter(query string) (graph.FilterGraph, error) {
	seq, err := Parse(query)
	if err != nil {
		return graph.FilterGraph{}, err
	}
	seq, _ = StripIndexes(seq)
	return graph.FilterGraph{Query: Render(seq), Fields: Fields(seq)}, nil
}

// ParseRead compiles the argument of a leading search. Requested index names
// are resolved against indexes: wildcard names match available indexes by an
// unanchored pattern, exact names are kept when admitted.
func ParseRead(query string, indexes graph.IndexSet, tws, twf int64) (graph.ReadGraph, error) {
	seq, err := Parse(query)
	if err != nil {
		return graph.ReadGraph{}, err
	}
	seq, requested := StripIndexes(seq)
	q := graph.IndexQuery{Query: Render(seq), TWS: tws, TWF: twf}

	var g graph.ReadGraph
	available := indexes.Names()
	for _, name := range requested {
		if !strings.Contains(name, "*") {
			if _, dup := g.Get(name); !dup && indexes.Admits(name) {
				g.Set(name, q)
			}
			continue
		}
		re := wildcard(name)
		for _, idx := range available {
			if _, dup := g.Get(idx); !dup && re.MatchString(idx) {
				g.Set(idx, q)
			}
		}
	}
	return g, nil
}

func wildcard(name string) *regexp.Regexp {
	parts := strings.Split(name, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re, err := regexp.Compile(strings.Join(parts, ".*"))
	invariant.ExpectNoError(err, "compiling quoted wildcard "+name)
	return re
}
