package syntax

import (
	"errors"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// Parse classifies datum and its subexpressions.  Structural errors are
// reported before any part of datum is evaluated.  The symbol table is only
// used to render data in error messages and may be nil.
func Parse(datum lisp.LVal, table symbol.Table) (Expr, error) {
	x, err := parse(datum)
	if err != nil {
		return nil, withSymbols(err, table)
	}
	return x, nil
}

func withSymbols(err error, table symbol.Table) error {
	var serr *SyntaxError
	var cerr *MalformedCondError
	var uerr *UnknownExpressionTypeError
	switch {
	case errors.As(err, &serr):
		serr.Symbols = table
	case errors.As(err, &cerr):
		cerr.Symbols = table
	case errors.As(err, &uerr):
		uerr.Symbols = table
	}
	return err
}

func parse(v lisp.LVal) (Expr, error) {
	switch {
	case IsSelfEvaluating(v):
		return &Literal{node: node{v}, Value: v}, nil
	case IsVariable(v):
		id, _ := lisp.GetSymbol(v)
		return &Variable{node: node{v}, Name: id}, nil
	case IsQuoted(v):
		return parseQuote(v)
	case IsAssignment(v):
		return parseAssignment(v)
	case IsDefinition(v):
		return parseDefinition(v)
	case IsIf(v):
		return parseIf(v)
	case IsLambda(v):
		return parseLambda(v)
	case IsBegin(v):
		return parseBegin(v)
	case IsCond(v):
		return parseCond(v)
	case IsApplication(v):
		return parseApplication(v)
	default:
		return nil, &UnknownExpressionTypeError{Datum: v}
	}
}

func parseQuote(v lisp.LVal) (Expr, error) {
	text, err := TextOfQuotation(v)
	if err != nil {
		return nil, err
	}
	return &Quote{node: node{v}, Text: text}, nil
}

func parseAssignment(v lisp.LVal) (Expr, error) {
	name, err := AssignmentVariable(v)
	if err != nil {
		return nil, err
	}
	val, err := AssignmentValue(v)
	if err != nil {
		return nil, err
	}
	x, err := parse(val)
	if err != nil {
		return nil, err
	}
	return &Assignment{node: node{v}, Name: name, Value: x}, nil
}

func parseDefinition(v lisp.LVal) (Expr, error) {
	name, err := DefinitionVariable(v)
	if err != nil {
		return nil, err
	}
	val, err := DefinitionValue(v)
	if err != nil {
		return nil, err
	}
	x, err := parse(val)
	if err != nil {
		return nil, err
	}
	return &Definition{node: node{v}, Name: name, Value: x}, nil
}

func parseIf(v lisp.LVal) (Expr, error) {
	pred, err := IfPredicate(v)
	if err != nil {
		return nil, err
	}
	conseq, err := IfConsequent(v)
	if err != nil {
		return nil, err
	}
	alt, hasAlt, err := IfAlternative(v)
	if err != nil {
		return nil, err
	}
	x := &If{node: node{v}}
	if x.Predicate, err = parse(pred); err != nil {
		return nil, err
	}
	if x.Consequent, err = parse(conseq); err != nil {
		return nil, err
	}
	if hasAlt {
		if x.Alternative, err = parse(alt); err != nil {
			return nil, err
		}
	}
	return x, nil
}

func parseLambda(v lisp.LVal) (Expr, error) {
	params, err := LambdaParameters(v)
	if err != nil {
		return nil, err
	}
	body, err := LambdaBody(v)
	if err != nil {
		return nil, err
	}
	x := &Lambda{node: node{v}}
	x.Params, err = parseParams(v, params)
	if err != nil {
		return nil, err
	}
	x.Body, err = parseSequence("lambda", v, body)
	if err != nil {
		return nil, err
	}
	return x, nil
}

// parseParams accepts a proper list of symbols, a dotted list whose tail is
// the rest variable, or a single symbol naming the rest variable.
func parseParams(form, params lisp.LVal) (environ.Params, error) {
	var p environ.Params
	seen := make(map[symbol.ID]bool)
	add := func(param lisp.LVal) (symbol.ID, error) {
		id, ok := lisp.GetSymbol(param)
		if !ok {
			return 0, &SyntaxError{Form: "lambda", Msg: "parameter is not a symbol", Datum: form}
		}
		if seen[id] {
			return 0, &SyntaxError{Form: "lambda", Msg: "duplicate parameter", Datum: form}
		}
		seen[id] = true
		return id, nil
	}
	for params.Type() == lisp.LCons {
		data, _ := lisp.GetConsData(params)
		id, err := add(data.CAR)
		if err != nil {
			return p, err
		}
		p.Fixed = append(p.Fixed, id)
		params = data.CDR
	}
	if lisp.IsNil(params) {
		return p, nil
	}
	rest, err := add(params)
	if err != nil {
		return p, err
	}
	p.Rest = rest
	return p, nil
}

// parseSequence parses a non-empty list of expressions.
func parseSequence(form string, v, seq lisp.LVal) ([]Expr, error) {
	data, ok := lisp.Slice(seq)
	if !ok {
		return nil, &SyntaxError{Form: form, Msg: "body is not a proper list", Datum: v}
	}
	if len(data) == 0 {
		return nil, &SyntaxError{Form: form, Msg: "empty body", Datum: v}
	}
	exprs := make([]Expr, len(data))
	for i := range data {
		x, err := parse(data[i])
		if err != nil {
			return nil, err
		}
		exprs[i] = x
	}
	return exprs, nil
}

func parseBegin(v lisp.LVal) (Expr, error) {
	actions, err := BeginActions(v)
	if err != nil {
		return nil, err
	}
	exprs, err := parseSequence("begin", v, actions)
	if err != nil {
		return nil, err
	}
	return &Begin{node: node{v}, Actions: exprs}, nil
}

func parseCond(v lisp.LVal) (Expr, error) {
	clauses, err := CondClauses(v)
	if err != nil {
		return nil, err
	}
	data, _ := lisp.Slice(clauses)
	x := &Cond{node: node{v}, Clauses: make([]Clause, 0, len(data))}
	for i, clause := range data {
		if IsElseClause(clause) && i < len(data)-1 {
			return nil, &MalformedCondError{Datum: v}
		}
		c, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		x.Clauses = append(x.Clauses, c)
	}
	x.Expansion, err = CondToIf(v, x.Clauses)
	if err != nil {
		return nil, err
	}
	return x, nil
}

func parseClause(clause lisp.LVal) (Clause, error) {
	var c Clause
	pred, err := CondPredicate(clause)
	if err != nil {
		return c, err
	}
	actions, err := CondActions(clause)
	if err != nil {
		return c, err
	}
	if !IsElseClause(clause) {
		c.Predicate, err = parse(pred)
		if err != nil {
			return c, err
		}
	}
	c.Actions, err = parseSequence("cond clause", clause, actions)
	return c, err
}

func parseApplication(v lisp.LVal) (Expr, error) {
	op, err := Operator(v)
	if err != nil {
		return nil, err
	}
	operands, err := Operands(v)
	if err != nil {
		return nil, err
	}
	x := &Application{node: node{v}}
	if x.Operator, err = parse(op); err != nil {
		return nil, err
	}
	data, _ := lisp.Slice(operands)
	x.Operands = make([]Expr, len(data))
	for i := range data {
		if x.Operands[i], err = parse(data[i]); err != nil {
			return nil, err
		}
	}
	return x, nil
}
