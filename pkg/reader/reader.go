// Package reader converts source text into lisp data.  It understands
// integers, floats, strings, booleans (#t and #f), symbols, lists, dotted
// pairs, 'x as shorthand for (quote x), and ; line comments.
package reader

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// ErrIncomplete is wrapped by errors caused by input ending inside an
// expression.  Interactive readers use it to request more input.
var ErrIncomplete = errors.New("unexpected end of input")

// Error is a read error with its source location.
type Error struct {
	Source Location
	Err    error
}

func (err *Error) Error() string {
	return fmt.Sprintf("%v: %v", err.Source, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Incomplete returns true if err was caused by input that ended inside an
// expression.
func Incomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// Reader reads data from source text, interning symbols into a table.
type Reader struct {
	Symbols symbol.Table
	quote   symbol.ID
}

// New returns a Reader that interns symbols into table.  A nil table uses
// symbol.DefaultGlobalTable.
func New(table symbol.Table) *Reader {
	if table == nil {
		table = symbol.DefaultGlobalTable
	}
	return &Reader{Symbols: table, quote: table.Intern("quote")}
}

// Read parses every datum in r.  The name is used in error locations.
func (rd *Reader) Read(name string, r io.Reader) ([]lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return rd.ReadString(name, string(b))
}

// ReadString parses every datum in src.
func (rd *Reader) ReadString(name, src string) ([]lisp.LVal, error) {
	p := &parser{rd: rd, lex: newLexer(name, src)}
	p.readToken()
	var data []lisp.LVal
	for p.peek.Type != EOF {
		v, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		data = append(data, v)
	}
	return data, nil
}

// ReadString is shorthand for New(table).ReadString(name, src).
func ReadString(table symbol.Table, name, src string) ([]lisp.LVal, error) {
	return New(table).ReadString(name, src)
}

type parser struct {
	rd   *Reader
	lex  *lexer
	curr Token
	peek Token
}

func (p *parser) readToken() {
	p.curr = p.peek
	p.peek = p.lex.Next()
}

func (p *parser) errorf(tok Token, format string, v ...interface{}) error {
	return &Error{Source: tok.Source, Err: fmt.Errorf(format, v...)}
}

func (p *parser) incomplete(tok Token) error {
	return &Error{Source: tok.Source, Err: ErrIncomplete}
}

func (p *parser) parseDatum() (lisp.LVal, error) {
	p.readToken()
	tok := p.curr
	switch tok.Type {
	case INT:
		x, err := strconv.Atoi(tok.Text)
		if err != nil {
			return lisp.Nil(), p.errorf(tok, "integer literal overflows int: %v", tok.Text)
		}
		return lisp.Int(x), nil
	case FLOAT:
		x, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return lisp.Nil(), p.errorf(tok, "invalid float literal: %v", tok.Text)
		}
		return lisp.Float(x), nil
	case STRING:
		s, err := unquote(tok.Text)
		if err != nil {
			return lisp.Nil(), p.errorf(tok, "invalid string literal: %v", err)
		}
		return lisp.String(s), nil
	case BOOL:
		return lisp.Bool(tok.Text == "#t" || tok.Text == "#true"), nil
	case SYMBOL:
		return lisp.Symbol(p.rd.Symbols.Intern(tok.Text)), nil
	case QUOTE:
		if p.peek.Type == EOF {
			return lisp.Nil(), p.incomplete(p.peek)
		}
		v, err := p.parseDatum()
		if err != nil {
			return lisp.Nil(), err
		}
		return lisp.List(lisp.Symbol(p.rd.quote), v), nil
	case PAREN_L:
		return p.parseList(tok)
	case EOF:
		return lisp.Nil(), p.incomplete(tok)
	case ERROR:
		return lisp.Nil(), &Error{Source: tok.Source, Err: fmt.Errorf("unterminated string: %w", ErrIncomplete)}
	default:
		return lisp.Nil(), p.errorf(tok, "unexpected %v", tok.Type)
	}
}

func (p *parser) parseList(open Token) (lisp.LVal, error) {
	var b lisp.ListBuilder
	var elems []lisp.LVal
	for {
		switch p.peek.Type {
		case EOF:
			return lisp.Nil(), p.incomplete(p.peek)
		case PAREN_R:
			p.readToken()
			b.Append(elems...)
			return b.List(), nil
		case DOT:
			p.readToken()
			dot := p.curr
			if len(elems) == 0 {
				return lisp.Nil(), p.errorf(dot, "dot without a preceding element")
			}
			if p.peek.Type == EOF {
				return lisp.Nil(), p.incomplete(p.peek)
			}
			tail, err := p.parseDatum()
			if err != nil {
				return lisp.Nil(), err
			}
			if p.peek.Type == EOF {
				return lisp.Nil(), p.incomplete(p.peek)
			}
			if p.peek.Type != PAREN_R {
				return lisp.Nil(), p.errorf(p.peek, "expected ) after dotted tail")
			}
			p.readToken()
			v := tail
			for i := len(elems) - 1; i >= 0; i-- {
				v = lisp.Cons(elems[i], v)
			}
			return v, nil
		default:
			v, err := p.parseDatum()
			if err != nil {
				return lisp.Nil(), err
			}
			elems = append(elems, v)
		}
	}
}

func unquote(text string) (string, error) {
	// Scheme strings may contain literal newlines which strconv rejects.
	text = strings.ReplaceAll(text, "\n", `\n`)
	return strconv.Unquote(text)
}
