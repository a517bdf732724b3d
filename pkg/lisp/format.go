package lisp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/mceval/pkg/symbol"
)

// Formatter is implemented by the host data of tagged values that know how
// to print themselves.  Tagged values without a Formatter print as an opaque
// #<type> placeholder.
type Formatter interface {
	FormatLisp(w io.Writer, table symbol.Table) error
}

// Format writes a source-code representation of v to w using table to
// translate symbols.  A nil table uses symbol.DefaultGlobalTable.
func Format(w io.Writer, v LVal, table symbol.Table) error {
	if table == nil {
		table = symbol.DefaultGlobalTable
	}
	p := &printer{w: w, table: table}
	p.format(v)
	return p.err
}

// Sprint returns the representation of v written by Format.
func Sprint(v LVal, table symbol.Table) string {
	var b strings.Builder
	err := Format(&b, v, table)
	if err != nil {
		return fmt.Sprintf("#<format error: %v>", err)
	}
	return b.String()
}

// printer holds the first write error so format can ignore errors until
// the end.
type printer struct {
	w     io.Writer
	table symbol.Table
	err   error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) format(v LVal) {
	if p.err != nil {
		return
	}
	switch v.typ {
	case LNil:
		p.write("()")
	case LSymbol:
		p.write(symbol.String(symbol.ID(v.Data), p.table))
	case LString:
		p.write(strconv.Quote(v.Native.(string)))
	case LInt:
		p.write(strconv.Itoa(int(v.Data)))
	case LFloat:
		x, _ := GetFloat(v)
		p.write(strconv.FormatFloat(x, 'g', -1, 64))
	case LBool:
		if IsTrue(v) {
			p.write("#t")
		} else {
			p.write("#f")
		}
	case LCons:
		p.formatCons(v.Native.(*ConsData))
	case LTaggedVal:
		if f, ok := v.Native.(Formatter); ok {
			p.err = f.FormatLisp(p.w, p.table)
			return
		}
		p.write("#<")
		p.write(symbol.String(symbol.ID(v.Data), p.table))
		p.write(">")
	default:
		p.err = fmt.Errorf("unrecognized type: %v", v.typ)
	}
}

func (p *printer) formatCons(data *ConsData) {
	p.write("(")
	for {
		p.format(data.CAR)
		switch data.CDR.typ {
		case LNil:
			p.write(")")
			return
		case LCons:
			p.write(" ")
			data = data.CDR.Native.(*ConsData)
		default:
			p.write(" . ")
			p.format(data.CDR)
			p.write(")")
			return
		}
	}
}
