package reader

import "fmt"

// TokenType classifies lexical tokens.
type TokenType uint

const (
	INVALID TokenType = iota
	ERROR
	EOF

	SYMBOL
	INT
	FLOAT
	STRING
	BOOL

	QUOTE
	DOT
	PAREN_L
	PAREN_R

	numTokenTypes
)

func (typ TokenType) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID: "invalid",
		ERROR:   "error",
		EOF:     "EOF",
		SYMBOL:  "symbol",
		INT:     "int",
		FLOAT:   "float",
		STRING:  "string",
		BOOL:    "boolean",
		QUOTE:   "'",
		DOT:     ".",
		PAREN_L: "(",
		PAREN_R: ")",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Token is a lexical token with its source location.
type Token struct {
	Type   TokenType
	Text   string
	Source Location
}

// Location is a position in source text.
type Location struct {
	File string
	Line int // starting at 1
	Col  int // starting at 1
}

func (loc Location) String() string {
	if loc.Col == 0 {
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
}
