package syntax

import (
	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// Expr is a classified expression.  The set of implementations is closed;
// evaluators switch over the concrete types defined in this file.
type Expr interface {
	// Datum returns the source datum the expression was parsed from.
	// Expressions synthesized by desugaring return an equivalent datum.
	Datum() lisp.LVal
	expr()
}

type node struct {
	datum lisp.LVal
}

func (n node) Datum() lisp.LVal { return n.datum }
func (node) expr()              {}

// Literal is a self-evaluating number, string or boolean.
type Literal struct {
	node
	Value lisp.LVal
}

// Variable is a reference to a variable.
type Variable struct {
	node
	Name symbol.ID
}

// Quote is (quote text).
type Quote struct {
	node
	Text lisp.LVal
}

// Assignment is (set! name value).
type Assignment struct {
	node
	Name  symbol.ID
	Value Expr
}

// Definition is (define name value).  The procedure shorthand has already
// been rewritten so that Value is a *Lambda.
type Definition struct {
	node
	Name  symbol.ID
	Value Expr
}

// Lambda is (lambda params body...).  Body is never empty.
type Lambda struct {
	node
	Params environ.Params
	Body   []Expr
}

// ParamsDatum returns the parameter list as written.
func (x *Lambda) ParamsDatum() lisp.LVal {
	params, _ := LambdaParameters(x.datum)
	return params
}

// BodyDatum returns the body expressions as written.
func (x *Lambda) BodyDatum() lisp.LVal {
	body, _ := LambdaBody(x.datum)
	return body
}

// If is (if predicate consequent [alternative]).  Alternative is nil when
// absent.
type If struct {
	node
	Predicate   Expr
	Consequent  Expr
	Alternative Expr
}

// Begin is (begin actions...).  Actions is never empty.
type Begin struct {
	node
	Actions []Expr
}

// Clause is one cond clause.  Predicate is nil for an else clause.
type Clause struct {
	Predicate Expr
	Actions   []Expr
}

// IsElse returns true if c is an else clause.
func (c Clause) IsElse() bool { return c.Predicate == nil }

// Cond is (cond clauses...).  Expansion holds the equivalent nested if
// expression produced by CondToIf.
type Cond struct {
	node
	Clauses   []Clause
	Expansion Expr
}

// Application is (operator operands...).
type Application struct {
	node
	Operator Expr
	Operands []Expr
}
