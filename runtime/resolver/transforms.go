package resolver

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/otsimple/otlresolve/core/filter"
)

// transform rewrites every match of re. apply receives the match followed by
// its groups; a group that did not participate is empty.
type transform struct {
	name  string
	re    *regexp.Regexp
	apply func(l *level, g []string) (string, error)
}

// pipeline lists the command transformers in application order. Searches
// become graphs before the commands that may wrap them, and inline code goes
// last.
func pipeline() []transform {
	return []transform{
		{"datamodel", otfromPattern, (*level).datamodel},
		{"read", readPattern, (*level).read},
		{"otstats", otstatsPattern, (*level).otstats},
		{"otrest", otrestPattern, (*level).otrest},
		{"filter", filterPattern, (*level).filter},
		{"otinputlookup", inputlookupPattern, (*level).inputlookup},
		{"otloadjob", loadJobIDPattern, (*level).loadJob},
		{"scala", scalaPattern, inlineCode("scala")},
		{"spark", sparkPattern, inlineCode("spark")},
	}
}

func (l *level) transform(text string) (string, error) {
	for _, t := range pipeline() {
		out, err := replaceAll(t.re, text, func(g []string) (string, error) {
			return t.apply(l, g)
		})
		if err != nil {
			return "", err
		}
		if out != text {
			l.trace(t.name, out)
		}
		text = out
	}
	return text, nil
}

// replaceAll is Regexp.ReplaceAllStringFunc with access to groups and a way
// to fail.
func replaceAll(re *regexp.Regexp, text string, fn func(g []string) (string, error)) (string, error) {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return text, nil
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		g := make([]string, len(loc)/2)
		for i := range g {
			if loc[2*i] >= 0 {
				g[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		out, err := fn(g)
		if err != nil {
			return "", err
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(out)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// splitMarker removes the first subsearch reference from a search argument,
// with every repetition of it, and returns it for reattaching after the graph.
func splitMarker(query string) (string, string) {
	marker := markerPattern.FindString(query)
	if marker == "" {
		return query, ""
	}
	return strings.ReplaceAll(query, marker, ""), marker
}

func compileError(stage, arg string, err error) error {
	return &Error{Kind: KindCompile, Message: fmt.Sprintf("%s argument %q", stage, arg), Cause: err}
}

// readGraph compiles a leading search argument into "| <command> <graph>",
// keeping an opening bracket the match started with. The graph is hidden
// until restoration so later passes cannot match inside it.
func (l *level) readGraph(command string, g []string) (string, error) {
	arg, bracket := g[3], g[1]
	if bracket != "" {
		arg = g[2]
	}
	query, marker := splitMarker(l.p.Restore(arg))
	rg, err := filter.ParseRead(query, l.r.indexes, l.r.tws, l.r.twf)
	if err != nil {
		return "", compileError(command, query, err)
	}
	return bracket + "| " + command + " " + l.p.Hide(rg.JSON()) + marker, nil
}

func (l *level) read(g []string) (string, error) {
	return l.readGraph("read", g)
}

func (l *level) otstats(g []string) (string, error) {
	return l.readGraph("otstats", g)
}

func (l *level) filter(g []string) (string, error) {
	query := l.p.Restore(g[1])
	fg, err := filter.ParseFilter(query)
	if err != nil {
		return "", compileError("filter", query, err)
	}
	return "| filter " + l.p.Hide(fg.JSON()), nil
}

func (l *level) inputlookup(g []string) (string, error) {
	query := l.p.Restore(g[2])
	fg, err := filter.ParseFilter(query)
	if err != nil {
		return "", compileError("otinputlookup", query, err)
	}
	return "otinputlookup" + g[1] + "where " + l.p.Hide(fg.JSON()), nil
}

// otrest turns a REST call into a subsearch keyed by the command text.
func (l *level) otrest(g []string) (string, error) {
	command := strings.TrimSpace(l.p.Restore(g[0][len(g[1]):]))
	id := subsearchID(command)
	service := "| otrest subsearch=" + id
	l.register(id, Pair{Original: "| " + command, Resolved: service})
	return service, nil
}

// datamodel splices in the stored query of a datamodel, minus one leading pipe.
func (l *level) datamodel(g []string) (string, error) {
	name := strings.TrimSpace(l.p.Restore(g[1]))
	if l.r.catalog == nil {
		return "", lookupError(fmt.Sprintf("datamodel %q", name), ErrDatamodelNotFound, ErrNoCatalog)
	}
	query, err := l.r.catalog.Datamodel(l.ctx, name)
	l.r.metrics.observeLookup("datamodel", err)
	if err != nil {
		e := lookupError(fmt.Sprintf("datamodel %q", name), ErrDatamodelNotFound, err)
		if isNotFound(err) {
			e.Suggestion = suggestDatamodel(l.ctx, l.r.catalog, name)
		}
		return "", e
	}
	// The stored query is raw text, so it gets this level's protection and
	// its own subsearches are extracted before the later transforms see it.
	spliced := l.p.HideInline(l.p.HideCommands(l.p.HideQuoted(strings.TrimPrefix(query, "|"))))
	return l.extract(spliced)
}

// loadJob replaces a prior job sid with a subsearch holding its OTL, resolved
// one level down.
func (l *level) loadJob(g []string) (string, error) {
	sid := g[2]
	if l.r.catalog == nil {
		return "", lookupError(fmt.Sprintf("job %q", sid), ErrJobNotFound, ErrNoCatalog)
	}
	otl, err := l.r.catalog.JobOTL(l.ctx, sid, l.r.sourceIP)
	l.r.metrics.observeLookup("job", err)
	if err != nil {
		return "", lookupError(fmt.Sprintf("job %q", sid), ErrJobNotFound, err)
	}
	resolved, err := l.resolve(otl, l.depth+1)
	if err != nil {
		return "", err
	}
	id := subsearchID(otl)
	l.register(id, Pair{Original: otl, Resolved: resolved})
	return "| otloadjob subsearch=" + id, nil
}

// inlineJobs resolves otloadjob otl="..." jobs. It runs on raw text: the
// parts are unescaped, concatenated and resolved one level down.
func (l *level) inlineJobs(text string) (string, error) {
	out, err := replaceAll(loadJobOTLPattern, text, func(g []string) (string, error) {
		otl := strings.TrimSpace(unescapeQuotes(g[1]) + unescapeQuotes(g[3]) + unescapeQuotes(g[5]))
		resolved, err := l.resolve(otl, l.depth+1)
		if err != nil {
			return "", err
		}
		id := subsearchID(otl)
		l.register(id, Pair{Original: otl, Resolved: resolved})
		return "otloadjob subsearch=" + id, nil
	})
	if err != nil {
		return "", err
	}
	if out != text {
		l.trace("otloadjob otl", out)
	}
	return out, nil
}

func unescapeQuotes(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

// inlineCode base64-encodes the body of a <#...#> block.
func inlineCode(command string) func(l *level, g []string) (string, error) {
	return func(l *level, g []string) (string, error) {
		code := l.p.Restore(g[1])
		return command + ` "` + base64.StdEncoding.EncodeToString([]byte(code)) + `"`, nil
	}
}
