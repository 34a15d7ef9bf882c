package macros

import (
	"fmt"
	"regexp"
	"strings"
)

// invocation matches __name__ where name starts with a letter and its
// underscores are single separators. The character after the closing
// underscores is checked separately: it must not continue a word.
var invocation = regexp.MustCompile(`(?:^|[^\w])(__([A-Za-z][A-Za-z0-9]*(?:_[A-Za-z0-9]+)*)__)`)

// Args are the bound arguments of one invocation.
type Args struct {
	Named      map[string]string
	Positional []string

	order []string
}

// ParseArgs splits argument text into key=value pairs (value bare or
// quoted) and bare positional words.
func ParseArgs(text string) (Args, error) {
	args := Args{Named: map[string]string{}}
	i := 0
	for {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i >= len(text) {
			return args, nil
		}

		start := i
		for i < len(text) && !isSpace(text[i]) && text[i] != '=' && text[i] != '"' && text[i] != '\'' {
			i++
		}
		word := text[start:i]

		if i < len(text) && text[i] == '=' && word != "" {
			i++
			value, next, err := scanValue(text, i)
			if err != nil {
				return Args{}, err
			}
			i = next
			if _, dup := args.Named[word]; !dup {
				args.order = append(args.order, word)
			}
			args.Named[word] = value
			continue
		}

		if word == "" {
			value, next, err := scanValue(text, i)
			if err != nil {
				return Args{}, err
			}
			i = next
			word = value
		} else {
			for i < len(text) && !isSpace(text[i]) {
				i++
			}
			word = text[start:i]
		}
		args.Positional = append(args.Positional, word)
	}
}

func scanValue(text string, i int) (string, int, error) {
	if i < len(text) && (text[i] == '"' || text[i] == '\'') {
		q := text[i]
		var b strings.Builder
		for j := i + 1; j < len(text); j++ {
			switch c := text[j]; {
			case c == '\\' && j+1 < len(text) && text[j+1] == q:
				b.WriteByte(q)
				j++
			case c == q:
				return b.String(), j + 1, nil
			default:
				b.WriteByte(c)
			}
		}
		return "", 0, fmt.Errorf("%w: unterminated quoted argument at offset %d", ErrInvalidInvocation, i)
	}
	start := i
	for i < len(text) && !isSpace(text[i]) {
		i++
	}
	return text[start:i], i, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Call is one invocation found in a query.
type Call struct {
	Name  string
	Start int // offset of the leading "__"
	End   int // end of the argument text, trailing whitespace excluded
	Args  string
}

// FindCalls returns the macro invocations in text. Arguments extend to the
// next pipe.
func FindCalls(text string) []Call {
	var calls []Call
	for _, m := range invocation.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if end < len(text) && isWordChar(text[end]) {
			continue
		}
		call := Call{Name: text[m[4]:m[5]], Start: start, End: end}
		if end < len(text) && isSpace(text[end]) {
			stop := strings.IndexByte(text[end:], '|')
			if stop < 0 {
				stop = len(text)
			} else {
				stop += end
			}
			argText := strings.TrimRight(text[end:stop], " \t\r\n")
			call.Args = strings.TrimSpace(argText)
			call.End = end + len(argText)
		}
		if len(calls) > 0 && call.Start < calls[len(calls)-1].End {
			continue
		}
		calls = append(calls, call)
	}
	return calls
}
