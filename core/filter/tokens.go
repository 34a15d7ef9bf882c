package filter

import "fmt"

// TokenType represents lexical tokens of the search expression language
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Grouping
	LPAREN // (
	RPAREN // )

	// Keywords (upper case only)
	AND // AND
	OR  // OR
	NOT // NOT

	// Operands
	WORD   // bare term, field name or bare value
	STRING // quoted term or value, Value holds the text between the quotes
	CMP    // =, !=, <, <=, >, >=
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	LPAREN:  "(",
	RPAREN:  ")",
	AND:     "AND",
	OR:      "OR",
	NOT:     "NOT",
	WORD:    "WORD",
	STRING:  "STRING",
	CMP:     "CMP",
}

// String returns the token type name
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexeme with its byte offset in the input
type Token struct {
	Type  TokenType
	Value string
	Quote byte // quote character for STRING tokens
	Pos   int
}

func (t Token) String() string {
	if t.Type == STRING {
		return string(t.Quote) + t.Value + string(t.Quote)
	}
	if t.Value != "" {
		return t.Value
	}
	return t.Type.String()
}

var keywords = map[string]TokenType{
	"AND": AND,
	"OR":  OR,
	"NOT": NOT,
}
