package reader

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer splits source text into tokens.
type lexer struct {
	file string
	src  string
	pos  int
	line int
	col  int
}

func newLexer(file, src string) *lexer {
	return &lexer{file: file, src: src, line: 1, col: 1}
}

func (lx *lexer) loc() Location {
	return Location{File: lx.file, Line: lx.line, Col: lx.col}
}

func (lx *lexer) peek() (rune, bool) {
	if lx.pos >= len(lx.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return c, true
}

func (lx *lexer) advance() rune {
	c, n := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += n
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c
}

func (lx *lexer) skipSpace() {
	for {
		c, ok := lx.peek()
		switch {
		case !ok:
			return
		case c == ';':
			for ok && c != '\n' {
				lx.advance()
				c, ok = lx.peek()
			}
		case unicode.IsSpace(c):
			lx.advance()
		default:
			return
		}
	}
}

func isDelimiter(c rune) bool {
	return unicode.IsSpace(c) || strings.ContainsRune("()';\"", c)
}

// Next returns the next token.  After the end of input Next returns EOF
// tokens indefinitely.
func (lx *lexer) Next() Token {
	lx.skipSpace()
	start := lx.loc()
	c, ok := lx.peek()
	if !ok {
		return Token{Type: EOF, Source: start}
	}
	switch c {
	case '(':
		lx.advance()
		return Token{Type: PAREN_L, Text: "(", Source: start}
	case ')':
		lx.advance()
		return Token{Type: PAREN_R, Text: ")", Source: start}
	case '\'':
		lx.advance()
		return Token{Type: QUOTE, Text: "'", Source: start}
	case '"':
		return lx.lexString(start)
	}
	begin := lx.pos
	for ok && !isDelimiter(c) {
		lx.advance()
		c, ok = lx.peek()
	}
	text := lx.src[begin:lx.pos]
	return Token{Type: classifyAtom(text), Text: text, Source: start}
}

func (lx *lexer) lexString(start Location) Token {
	begin := lx.pos
	lx.advance() // opening quote
	for {
		c, ok := lx.peek()
		if !ok {
			return Token{Type: ERROR, Text: lx.src[begin:], Source: start}
		}
		lx.advance()
		switch c {
		case '\\':
			if _, ok := lx.peek(); ok {
				lx.advance()
			}
		case '"':
			return Token{Type: STRING, Text: lx.src[begin:lx.pos], Source: start}
		}
	}
}

func classifyAtom(text string) TokenType {
	switch {
	case text == ".":
		return DOT
	case text == "#t" || text == "#f" || text == "#true" || text == "#false":
		return BOOL
	case isInt(text):
		return INT
	case isFloat(text):
		return FLOAT
	default:
		return SYMBOL
	}
}

func isInt(text string) bool {
	digits := strings.TrimLeft(text, "+-")
	if len(text)-len(digits) > 1 || digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isFloat(text string) bool {
	digits := strings.TrimLeft(text, "+-")
	if len(text)-len(digits) > 1 || digits == "" || digits == "." {
		return false
	}
	dot, exp := false, false
	prevDigit := false
	for i, c := range digits {
		switch {
		case c >= '0' && c <= '9':
			prevDigit = true
		case c == '.' && !dot && !exp:
			dot = true
		case (c == 'e' || c == 'E') && !exp && prevDigit && i < len(digits)-1:
			exp = true
			prevDigit = false
		case (c == '+' || c == '-') && i > 0 && (digits[i-1] == 'e' || digits[i-1] == 'E'):
		default:
			return false
		}
	}
	return prevDigit || (dot && !exp)
}
