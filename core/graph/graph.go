// Package graph holds the structured arguments that the resolver embeds in
// service-form queries: the ReadGraph produced for leading searches and the
// FilterGraph produced for filter stages, plus the set of indexes a caller may
// read from.
//
// Graphs are written with JSON() rather than encoding/json. The downstream
// engine compares argument bytes, so the layout (separators, key order, ASCII
// escaping) is fixed; see encode.go.
package graph

import "strings"

// Everything is the textual form of the wildcard-everything sentinel in an index list.
const Everything = "*"

// IndexSet is the list of indexes visible to the requesting principal,
// already access-filtered upstream. It may contain the wildcard-everything
// sentinel, which admits any exact index name.
type IndexSet struct {
	names      []string
	everything bool
}

// NewIndexSet builds an IndexSet from names. An entry equal to Everything
// becomes the sentinel; empty entries are skipped; duplicates keep their first position.
func NewIndexSet(names ...string) IndexSet {
	var s IndexSet
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		switch {
		case n == "":
		case n == Everything:
			s.everything = true
		case !seen[n]:
			seen[n] = true
			s.names = append(s.names, n)
		}
	}
	return s
}

// ParseIndexSet splits a comma-separated index list.
func ParseIndexSet(list string) IndexSet {
	return NewIndexSet(strings.Split(list, ",")...)
}

// Names returns the concrete index names in declaration order.
func (s IndexSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Everything reports whether the set carries the wildcard-everything sentinel.
func (s IndexSet) Everything() bool {
	return s.everything
}

// Admits reports whether an exact (non-wildcard) index name may be read.
func (s IndexSet) Admits(name string) bool {
	if s.everything {
		return true
	}
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// IndexQuery is the per-index entry of a ReadGraph.
type IndexQuery struct {
	Query string
	TWS   int64
	TWF   int64
}

// ReadGraph maps resolved index names to the query each index is read with.
// Entries keep insertion order; setting an existing index replaces its value in place.
type ReadGraph struct {
	order   []string
	entries map[string]IndexQuery
}

// Set adds or replaces the entry for index.
func (g *ReadGraph) Set(index string, q IndexQuery) {
	if g.entries == nil {
		g.entries = make(map[string]IndexQuery)
	}
	if _, ok := g.entries[index]; !ok {
		g.order = append(g.order, index)
	}
	g.entries[index] = q
}

// Get returns the entry for index.
func (g ReadGraph) Get(index string) (IndexQuery, bool) {
	q, ok := g.entries[index]
	return q, ok
}

// Indexes returns the index names in insertion order.
func (g ReadGraph) Indexes() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of indexes.
func (g ReadGraph) Len() int {
	return len(g.order)
}

// JSON renders the graph as {"<index>": {"query": ..., "tws": N, "twf": N}, ...}.
func (g ReadGraph) JSON() string {
	var w writer
	w.WriteByte('{')
	for i, index := range g.order {
		if i > 0 {
			w.WriteString(", ")
		}
		q := g.entries[index]
		w.str(index)
		w.WriteString(": {")
		w.key("query")
		w.str(q.Query)
		w.WriteString(", ")
		w.key("tws")
		w.num(q.TWS)
		w.WriteString(", ")
		w.key("twf")
		w.num(q.TWF)
		w.WriteByte('}')
	}
	w.WriteByte('}')
	return w.String()
}

// FilterGraph is a compiled boolean expression and the fields it references.
type FilterGraph struct {
	Query  string
	Fields []string
}

// JSON renders the graph as {"query": ..., "fields": [...]}.
func (g FilterGraph) JSON() string {
	var w writer
	w.WriteByte('{')
	w.key("query")
	w.str(g.Query)
	w.WriteString(", ")
	w.key("fields")
	w.WriteByte('[')
	for i, f := range g.Fields {
		if i > 0 {
			w.WriteString(", ")
		}
		w.str(f)
	}
	w.WriteString("]}")
	return w.String()
}
