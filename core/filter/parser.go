package filter

// Node is an element of a parsed search expression.
type Node interface {
	node()
}

// Term is a free-text term matched against the raw event.
type Term struct {
	Text   string
	Quoted bool
}

// Comparison is field OP value.
type Comparison struct {
	Field  string
	Op     string
	Value  string
	Quoted bool
	Quote  byte
}

// Not negates its operand.
type Not struct {
	Operand Node
}

// Group is a parenthesized sequence.
type Group struct {
	Seq Seq
}

func (*Term) node()       {}
func (*Comparison) node() {}
func (*Not) node()        {}
func (*Group) node()      {}

// Item is one operand of a sequence with the connector joining it to the
// previous operand. The first item has an empty connector. Juxtaposed
// operands are joined with an implicit AND.
type Item struct {
	Conn string
	Node Node
}

// Seq is a flat list of operands. Connectors are kept in source order; no
// precedence reordering takes place.
type Seq struct {
	Items []Item
}

// Parse parses a search expression.
func Parse(input string) (Seq, error) {
	p := &parser{input: input, tokens: newLexer(input).tokens()}
	seq, err := p.parseSeq(false)
	if err != nil {
		return Seq{}, err
	}
	return seq, nil
}

type parser struct {
	input  string
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF && tok.Type != ILLEGAL {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return newSyntaxError(p.input, tok.Pos, format, args...)
}

func (p *parser) parseSeq(inGroup bool) (Seq, error) {
	var seq Seq
	var conn string
	var connTok Token

	for {
		tok := p.peek()
		switch tok.Type {
		case ILLEGAL:
			return Seq{}, p.errorf(tok, "unterminated quoted string")
		case EOF:
			if inGroup {
				return Seq{}, p.errorf(tok, "missing closing parenthesis")
			}
			if conn != "" {
				return Seq{}, p.errorf(connTok, "%s without right operand", conn)
			}
			return seq, nil
		case RPAREN:
			if !inGroup {
				return Seq{}, p.errorf(tok, "unexpected closing parenthesis")
			}
			if conn != "" {
				return Seq{}, p.errorf(connTok, "%s without right operand", conn)
			}
			return seq, nil
		case AND, OR:
			if len(seq.Items) == 0 {
				return Seq{}, p.errorf(tok, "%s without left operand", tok.Value)
			}
			if conn != "" {
				return Seq{}, p.errorf(tok, "%s directly after %s", tok.Value, conn)
			}
			conn, connTok = tok.Value, tok
			p.advance()
			continue
		}

		n, err := p.parseOperand()
		if err != nil {
			return Seq{}, err
		}
		if len(seq.Items) > 0 && conn == "" {
			conn = "AND"
		}
		seq.Items = append(seq.Items, Item{Conn: conn, Node: n})
		conn = ""
	}
}

func (p *parser) parseOperand() (Node, error) {
	tok := p.advance()
	switch tok.Type {
	case NOT:
		next := p.peek()
		switch next.Type {
		case EOF, RPAREN, AND, OR:
			return nil, p.errorf(tok, "NOT without operand")
		}
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil

	case LPAREN:
		seq, err := p.parseSeq(true)
		if err != nil {
			return nil, err
		}
		p.advance() // )
		return &Group{Seq: seq}, nil

	case STRING:
		return &Term{Text: tok.Value, Quoted: true}, nil

	case WORD:
		if p.peek().Type != CMP {
			return &Term{Text: tok.Value}, nil
		}
		op := p.advance()
		val := p.advance()
		switch val.Type {
		case WORD:
			return &Comparison{Field: tok.Value, Op: op.Value, Value: val.Value}, nil
		case STRING:
			return &Comparison{Field: tok.Value, Op: op.Value, Value: val.Value, Quoted: true, Quote: val.Quote}, nil
		case ILLEGAL:
			return nil, p.errorf(val, "unterminated quoted string")
		default:
			return nil, p.errorf(op, "missing value after %s%s", tok.Value, op.Value)
		}

	case CMP:
		return nil, p.errorf(tok, "missing field before %s", tok.Value)

	case ILLEGAL:
		return nil, p.errorf(tok, "unterminated quoted string")
	}
	return nil, p.errorf(tok, "unexpected %s", tok)
}
