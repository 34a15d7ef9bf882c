// Package resolver rewrites OTL queries into the service form consumed by the
// execution engine. Every bracketed subsearch is extracted into its own unit,
// identified by the SHA-256 of its original text, so equal subsearches share
// cached work downstream.
//
// A resolution runs these stages over one working text:
//
//  1. macro expansion
//  2. otloadjob otl="..." inline jobs, resolved recursively
//  3. protection of quoted literals, no-subsearch command bodies and inline code
//  4. subsearch extraction until no bracketed span is left
//  5. command transformers (datamodels, read, otstats, otrest, filter,
//     otinputlookup where, otloadjob by sid, inline code)
//  6. restoration of every protected span
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/otsimple/otlresolve/core/graph"
	"github.com/otsimple/otlresolve/runtime/catalog"
	"github.com/otsimple/otlresolve/runtime/macros"
)

const (
	DefaultMaxDepth  = 8
	DefaultMaxPasses = 1024
)

// Resolver holds the configuration shared by resolutions. It is safe for
// concurrent use; per-call state lives in the call.
type Resolver struct {
	indexes     graph.IndexSet
	tws, twf    int64
	noSubsearch []string
	macros      *macros.Library
	catalog     catalog.Catalog
	sourceIP    string
	logger      *slog.Logger
	metrics     *Metrics
	maxDepth    int
	maxPasses   int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIndexes sets the indexes the caller may read.
func WithIndexes(indexes graph.IndexSet) Option {
	return func(r *Resolver) {
		r.indexes = indexes
	}
}

// WithTimeWindow sets the search time bounds written into every ReadGraph.
func WithTimeWindow(tws, twf int64) Option {
	return func(r *Resolver) {
		r.tws, r.twf = tws, twf
	}
}

// WithNoSubsearchCommands names the commands whose [...] argument is not a
// subsearch, such as foreach and appendpipe.
func WithNoSubsearchCommands(commands ...string) Option {
	return func(r *Resolver) {
		r.noSubsearch = append(r.noSubsearch, commands...)
	}
}

// WithMacros enables macro expansion from lib.
func WithMacros(lib *macros.Library) Option {
	return func(r *Resolver) {
		r.macros = lib
	}
}

// WithCatalog sets the accessor for datamodels and prior jobs.
func WithCatalog(c catalog.Catalog) Option {
	return func(r *Resolver) {
		r.catalog = c
	}
}

// WithSourceIP sets the address prior jobs are looked up for.
func WithSourceIP(ip string) Option {
	return func(r *Resolver) {
		r.sourceIP = ip
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithMaxDepth bounds nested resolutions (inline and loaded jobs).
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithMaxPasses bounds subsearch extraction passes per text.
func WithMaxPasses(passes int) Option {
	return func(r *Resolver) {
		if passes > 0 {
			r.maxPasses = passes
		}
	}
}

// New returns a Resolver. Without WithIndexes no index is readable.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger:    slog.New(slog.DiscardHandler),
		maxDepth:  DefaultMaxDepth,
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve rewrites query into service form. Resolution is all or nothing: on
// error no partial result is returned.
func (r *Resolver) Resolve(ctx context.Context, query string) (_ *Result, err error) {
	start := time.Now()
	defer func() { r.metrics.observeResolve(start, err) }()

	c := &call{
		ctx:  ctx,
		r:    r,
		log:  r.logger.With("resolve_id", uuid.NewString()),
		subs: newSubsearchTable(),
	}
	c.log.Debug("resolve started", "query", query)

	resolved, err := c.resolve(query, 0)
	if err != nil {
		c.log.Error("resolve failed", "error", err)
		return nil, err
	}
	c.log.Debug("resolve finished", "resolved", resolved, "subsearches", c.subs.len())
	return &Result{
		Search:      Pair{Original: query, Resolved: resolved},
		Subsearches: c.subs.list(),
	}, nil
}
