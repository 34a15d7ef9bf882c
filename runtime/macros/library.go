// Package macros loads macro definitions from a directory and expands
// __name__ invocations in queries.
package macros

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/mod/semver"
)

// Library is a directory of macro definitions. Lookups and expansion are safe
// for concurrent use, including while Watch reloads the directory. A reload
// swaps in a complete set, so readers see the old set or the new one.
type Library struct {
	dir    string
	loc    *time.Location
	logger *slog.Logger
	defs   atomic.Pointer[xsync.MapOf[string, *Definition]]
}

// Option configures a Library.
type Option func(*Library)

// WithLocation sets the zone epoch uses for dates without one. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(l *Library) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithLogger sets the logger used for reload reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Load reads every *.yaml and *.yml definition in dir.
func Load(dir string, opts ...Option) (*Library, error) {
	l := &Library{
		dir:    dir,
		loc:    time.UTC,
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Dir returns the definition directory.
func (l *Library) Dir() string {
	return l.dir
}

// Reload re-reads the directory. On error the current definitions are kept.
func (l *Library) Reload() error {
	loaded, err := readDir(l.dir, l.loc)
	if err != nil {
		return err
	}
	defs := xsync.NewMapOf[string, *Definition]()
	for name, def := range loaded {
		defs.Store(name, def)
	}
	l.defs.Store(defs)
	return nil
}

// Check validates every definition in dir and returns all problems found.
func Check(dir string) error {
	_, err := readDir(dir, time.UTC)
	return err
}

func readDir(dir string, loc *time.Location) (map[string]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read macro directory: %w", err)
	}

	loaded := make(map[string]*Definition)
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !isDefinitionFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		def, err := ParseDefinition(data, path, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		// name.yaml and name.yml may both exist: the newer version wins
		if prev, ok := loaded[def.Name]; ok && semver.Compare(prev.Version, def.Version) >= 0 {
			continue
		}
		loaded[def.Name] = def
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return loaded, nil
}

func isDefinitionFile(name string) bool {
	ext := filepath.Ext(name)
	return (ext == ".yaml" || ext == ".yml") && !strings.HasPrefix(name, ".")
}

// Lookup returns the definition for name.
func (l *Library) Lookup(name string) (*Definition, error) {
	return lookup(l.defs.Load(), name)
}

func lookup(defs *xsync.MapOf[string, *Definition], name string) (*Definition, error) {
	if def, ok := defs.Load(name); ok {
		return def, nil
	}
	return nil, &Error{Name: name, Msg: "no definition", Suggestion: suggest(name, sortedNames(defs)), Err: ErrUnknownMacro}
}

// Names returns the defined macro names in sorted order.
func (l *Library) Names() []string {
	return sortedNames(l.defs.Load())
}

func sortedNames(defs *xsync.MapOf[string, *Definition]) []string {
	names := make([]string, 0, defs.Size())
	defs.Range(func(name string, _ *Definition) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Definitions returns the definitions sorted by name.
func (l *Library) Definitions() []*Definition {
	return sortedDefinitions(l.defs.Load())
}

func sortedDefinitions(defs *xsync.MapOf[string, *Definition]) []*Definition {
	var out []*Definition
	for _, name := range sortedNames(defs) {
		if def, ok := defs.Load(name); ok {
			out = append(out, def)
		}
	}
	return out
}

// Digest is a BLAKE2b-256 fingerprint of the loaded definitions.
func (l *Library) Digest() string {
	return digest(l.defs.Load())
}

func digest(defs *xsync.MapOf[string, *Definition]) string {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("blake2b.New256 failed: %v", err))
	}
	for _, def := range sortedDefinitions(defs) {
		for _, part := range []string{def.Name, def.Version, def.Template} {
			hasher.Write([]byte(part))
			hasher.Write([]byte{0})
		}
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// Expand replaces every invocation in text with its expansion. Any failure
// aborts the whole expansion. All invocations use the same set of definitions.
func (l *Library) Expand(text string) (string, int, error) {
	calls := FindCalls(text)
	if len(calls) == 0 {
		return text, 0, nil
	}
	defs := l.defs.Load()
	var b strings.Builder
	last := 0
	for _, call := range calls {
		def, err := lookup(defs, call.Name)
		if err != nil {
			return "", 0, err
		}
		args, err := ParseArgs(call.Args)
		if err != nil {
			return "", 0, &Error{Name: call.Name, Msg: err.Error(), Err: ErrInvalidInvocation}
		}
		expanded, err := def.Expand(args)
		if err != nil {
			return "", 0, err
		}
		b.WriteString(text[last:call.Start])
		b.WriteString(expanded)
		last = call.End
	}
	b.WriteString(text[last:])
	return b.String(), len(calls), nil
}

// Watch reloads the library whenever a definition file in the directory
// changes. It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDefinitionFile(filepath.Base(ev.Name)) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := l.Reload(); err != nil {
				l.logger.Warn("macro reload failed", "dir", l.dir, "error", err)
				continue
			}
			defs := l.defs.Load()
			l.logger.Info("macros reloaded", "dir", l.dir, "count", defs.Size(), "digest", digest(defs))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("macro watcher error", "dir", l.dir, "error", err)
		}
	}
}
