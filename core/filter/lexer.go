package filter

// isSeparator covers the characters that split terms. Commas act like
// whitespace: "SUCCESS, FAIL" is two implicitly AND-ed terms.
var isSeparator [128]bool

// stopsWord marks characters that end a bare word outside of values.
var stopsWord [128]bool

// stopsValue marks characters that end a bare value after an operator.
var stopsValue [128]bool

func init() {
	for _, ch := range " \t\r\n\f," {
		isSeparator[ch] = true
		stopsWord[ch] = true
		stopsValue[ch] = true
	}
	for _, ch := range `()"'=<>` {
		stopsWord[ch] = true
	}
	stopsValue['('] = true
	stopsValue[')'] = true
}

// lexer splits a search expression into tokens. A bare value directly after
// an operator may contain characters that end ordinary words, so
// "junkField=asd.a-2:13" lexes as WORD, CMP, WORD.
type lexer struct {
	input    string
	pos      int
	afterCmp bool
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

// tokens lexes the whole input. The last token is EOF, or ILLEGAL for an
// unterminated quoted string.
func (l *lexer) tokens() []Token {
	var out []Token
	for {
		tok := l.next()
		out = append(out, tok)
		if tok.Type == EOF || tok.Type == ILLEGAL {
			return out
		}
	}
}

func (l *lexer) next() Token {
	l.skipSeparators()
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Pos: l.pos}
	}

	valueMode := l.afterCmp
	l.afterCmp = false

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch == '"' || ch == '\'':
		return l.lexString(ch)
	case valueMode:
		for l.pos < len(l.input) && !(l.input[l.pos] < 128 && stopsValue[l.input[l.pos]]) {
			l.pos++
		}
		return Token{Type: WORD, Value: l.input[start:l.pos], Pos: start}
	case ch == '(':
		l.pos++
		return Token{Type: LPAREN, Value: "(", Pos: start}
	case ch == ')':
		l.pos++
		return Token{Type: RPAREN, Value: ")", Pos: start}
	}

	if op := l.operator(); op != "" {
		l.pos += len(op)
		l.afterCmp = true
		return Token{Type: CMP, Value: op, Pos: start}
	}

	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c < 128 && stopsWord[c] {
			break
		}
		if c == '!' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
			break
		}
		l.pos++
	}
	if l.pos == start {
		// A lone '!' that does not start "!=" is part of a word
		l.pos++
	}
	word := l.input[start:l.pos]
	if kw, ok := keywords[word]; ok {
		return Token{Type: kw, Value: word, Pos: start}
	}
	return Token{Type: WORD, Value: word, Pos: start}
}

func (l *lexer) skipSeparators() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c >= 128 || !isSeparator[c] {
			return
		}
		l.pos++
	}
}

// operator returns the comparison operator at the current position, if any.
func (l *lexer) operator() string {
	rest := l.input[l.pos:]
	for _, op := range []string{"!=", "<=", ">=", "=", "<", ">"} {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			return op
		}
	}
	return ""
}

// lexString scans a quoted span; a backslash escapes the next character and
// the escape is kept verbatim in Value.
func (l *lexer) lexString(quote byte) Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if c == quote {
			l.pos++
			return Token{Type: STRING, Value: l.input[start+1 : l.pos-1], Quote: quote, Pos: start}
		}
		l.pos++
	}
	return Token{Type: ILLEGAL, Value: l.input[start:], Pos: start}
}
