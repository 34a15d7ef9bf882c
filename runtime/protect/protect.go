// Package protect hides spans of a query behind opaque placeholders so that
// structural rewriting cannot match inside them, and restores them afterwards.
//
// Quoted literals ('...' or "...") go in one table. The bracketed bodies of
// commands that use [...] for something other than a subsearch (foreach,
// appendpipe), inline code blocks and text hidden explicitly with Hide go in
// the other. Each span is stored under the SHA-256 of its text.
package protect

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/otsimple/otlresolve/core/invariant"
)

const (
	// QuotedPrefix starts a quoted-literal placeholder.
	QuotedPrefix = "_quoted_text_"
	// HiddenPrefix starts a protected command body placeholder.
	HiddenPrefix = "_hidden_text_"
)

var (
	quotedRef = regexp.MustCompile(QuotedPrefix + `([0-9a-f]{64})`)
	hiddenRef = regexp.MustCompile(HiddenPrefix + `([0-9a-f]{64})`)

	inlineBlock = regexp.MustCompile(`(?s)<#.*?#>`)

	// quotedSpan needs lookbehind and a back-reference to the opening quote,
	// which RE2 lacks. Without RegexOptions '.' stops at newlines.
	quotedSpan = regexp2.MustCompile(`(?<!\\)(?<q>['"])(?<body>(?:(?!(?<!\\)\k<q>).)*)(?<!\\)\k<q>`, regexp2.None)
)

// table maps content hashes to the hidden text.
type table struct {
	prefix  string
	ref     *regexp.Regexp
	entries map[string]string
}

func newTable(prefix string, ref *regexp.Regexp) *table {
	return &table{prefix: prefix, ref: ref, entries: make(map[string]string)}
}

func (t *table) put(text string) string {
	sum := sha256.Sum256([]byte(text))
	h := hex.EncodeToString(sum[:])
	t.entries[h] = text
	return t.prefix + h
}

func (t *table) restore(s string) string {
	if !strings.Contains(s, t.prefix) {
		return s
	}
	return t.ref.ReplaceAllStringFunc(s, func(ph string) string {
		if text, ok := t.entries[ph[len(t.prefix):]]; ok {
			return text
		}
		// Not issued by this table: user text that happens to look like a placeholder
		return ph
	})
}

func (t *table) issued(s string) bool {
	for _, m := range t.ref.FindAllStringSubmatch(s, -1) {
		if _, ok := t.entries[m[1]]; ok {
			return true
		}
	}
	return false
}

// Protector holds the placeholder tables of one resolution. It is not safe
// for concurrent use.
type Protector struct {
	quoted   *table
	hidden   *table
	commands []*regexp.Regexp
}

// New returns a Protector that hides the bracketed bodies of the named
// commands in addition to quoted literals.
func New(noSubsearchCommands []string) *Protector {
	p := &Protector{
		quoted: newTable(QuotedPrefix, quotedRef),
		hidden: newTable(HiddenPrefix, hiddenRef),
	}
	for _, cmd := range noSubsearchCommands {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		p.commands = append(p.commands, regexp.MustCompile(`\|\s+`+regexp.QuoteMeta(cmd)+`[^\[]+\[`))
	}
	return p
}

// ParseCommands splits a comma-separated command list.
func ParseCommands(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// HideQuoted replaces the inner text of every quoted span with a placeholder,
// keeping the quotes. A quote preceded by a backslash neither opens nor
// closes a span, and a span never crosses a newline. Empty spans are left as is.
func (p *Protector) HideQuoted(s string) string {
	out, err := quotedSpan.ReplaceFunc(s, func(m regexp2.Match) string {
		body := m.GroupByName("body").String()
		if body == "" {
			return m.String()
		}
		q := m.GroupByName("q").String()
		return q + p.quoted.put(body) + q
	}, -1, -1)
	invariant.ExpectNoError(err, "quoted span replacement")
	return out
}

// HideCommands replaces the first balanced [...] span after each configured
// command with a placeholder. Run it after HideQuoted so brackets inside
// literals do not count.
func (p *Protector) HideCommands(s string) string {
	for _, re := range p.commands {
		locs := re.FindAllStringIndex(s, -1)
		if locs == nil {
			continue
		}
		var b strings.Builder
		last := 0
		for _, loc := range locs {
			open := loc[1] - 1
			if loc[0] < last {
				continue
			}
			end := closingBracket(s, open)
			if end < 0 {
				continue
			}
			b.WriteString(s[last:open])
			b.WriteString(p.hidden.put(s[open : end+1]))
			last = end + 1
		}
		b.WriteString(s[last:])
		s = b.String()
	}
	return s
}

// HideInline replaces the body of every <#...#> inline code block with a
// placeholder, keeping the delimiters. Blocks may span lines.
func (p *Protector) HideInline(s string) string {
	return inlineBlock.ReplaceAllStringFunc(s, func(block string) string {
		body := block[2 : len(block)-2]
		if body == "" {
			return block
		}
		return "<#" + p.hidden.put(body) + "#>"
	})
}

// closingBracket returns the index of the bracket balancing the one at open,
// or -1 when the line ends first.
func closingBracket(s string, open int) int {
	depth := 0
	for j := open; j < len(s); j++ {
		switch s[j] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// Hide stores text as a protected span and returns its placeholder. It lets a
// rewrite pass keep its own output out of reach of later passes.
func (p *Protector) Hide(text string) string {
	return p.hidden.put(text)
}

// RestoreQuoted puts quoted literals back.
func (p *Protector) RestoreQuoted(s string) string {
	return p.quoted.restore(s)
}

// RestoreCommands puts protected command bodies back.
func (p *Protector) RestoreCommands(s string) string {
	return p.hidden.restore(s)
}

// Restore puts every protected span back, repeating until the text is
// stable so either nesting order is recovered.
func (p *Protector) Restore(s string) string {
	for limit := len(p.quoted.entries) + len(p.hidden.entries) + 1; limit > 0; limit-- {
		next := p.RestoreQuoted(p.RestoreCommands(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Leaks reports whether s still carries a placeholder issued by p.
func (p *Protector) Leaks(s string) bool {
	return p.quoted.issued(s) || p.hidden.issued(s)
}

// Len returns the number of quoted and hidden entries.
func (p *Protector) Len() (quoted, hidden int) {
	return len(p.quoted.entries), len(p.hidden.entries)
}
