// Package syntax recognizes the special forms of the language and converts
// data read from source into a closed set of typed expressions.
//
// The predicates and accessors in this file operate directly on data.  They
// are pure; accessors return a *SyntaxError when a form has the wrong
// number of elements.  Parse is built from them and performs classification
// once, ahead of evaluation.
package syntax

import (
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// Reserved tag symbols, interned in symbol.DefaultGlobalTable.  Symbol tables
// used with this package must be copies of the global table.
var (
	SymQuote  = symbol.Intern("quote")
	SymSet    = symbol.Intern("set!")
	SymDefine = symbol.Intern("define")
	SymLambda = symbol.Intern("lambda")
	SymIf     = symbol.Intern("if")
	SymBegin  = symbol.Intern("begin")
	SymCond   = symbol.Intern("cond")
	SymElse   = symbol.Intern("else")
)

var reserved = map[symbol.ID]string{
	SymQuote:  "quote",
	SymSet:    "set!",
	SymDefine: "define",
	SymLambda: "lambda",
	SymIf:     "if",
	SymBegin:  "begin",
	SymCond:   "cond",
}

// IsReserved returns true if id tags a special form.
func IsReserved(id symbol.ID) bool {
	_, ok := reserved[id]
	return ok
}

// IsTaggedList returns true if v is a non-empty list whose first element is
// the symbol tag.
func IsTaggedList(v lisp.LVal, tag symbol.ID) bool {
	head, ok := lisp.GetCAR(v)
	return ok && lisp.IsSymbol(head, tag)
}

// IsSelfEvaluating returns true for numbers, strings and booleans.
func IsSelfEvaluating(v lisp.LVal) bool {
	switch v.Type() {
	case lisp.LInt, lisp.LFloat, lisp.LString, lisp.LBool:
		return true
	default:
		return false
	}
}

// IsVariable returns true if v is a symbol.
func IsVariable(v lisp.LVal) bool { return v.Type() == lisp.LSymbol }

func IsQuoted(v lisp.LVal) bool     { return IsTaggedList(v, SymQuote) }
func IsAssignment(v lisp.LVal) bool { return IsTaggedList(v, SymSet) }
func IsDefinition(v lisp.LVal) bool { return IsTaggedList(v, SymDefine) }
func IsLambda(v lisp.LVal) bool     { return IsTaggedList(v, SymLambda) }
func IsIf(v lisp.LVal) bool         { return IsTaggedList(v, SymIf) }
func IsBegin(v lisp.LVal) bool      { return IsTaggedList(v, SymBegin) }
func IsCond(v lisp.LVal) bool       { return IsTaggedList(v, SymCond) }

// IsApplication returns true if v is a pair that does not begin with a
// reserved tag symbol.
func IsApplication(v lisp.LVal) bool {
	head, ok := lisp.GetCAR(v)
	if !ok {
		return false
	}
	id, ok := lisp.GetSymbol(head)
	return !ok || !IsReserved(id)
}

// IsElseClause returns true for a cond clause of the form (else ...).
func IsElseClause(clause lisp.LVal) bool { return IsTaggedList(clause, SymElse) }

// elements splits form into its elements and checks that it has between min
// and max of them.  A negative max means no upper bound.
func elements(form string, v lisp.LVal, min, max int) ([]lisp.LVal, error) {
	s, ok := lisp.Slice(v)
	if !ok {
		return nil, &SyntaxError{Form: form, Msg: "not a proper list", Datum: v}
	}
	if len(s) < min {
		return nil, &SyntaxError{Form: form, Msg: "too few elements", Datum: v}
	}
	if max >= 0 && len(s) > max {
		return nil, &SyntaxError{Form: form, Msg: "too many elements", Datum: v}
	}
	return s, nil
}

// TextOfQuotation returns x from (quote x).
func TextOfQuotation(v lisp.LVal) (lisp.LVal, error) {
	s, err := elements("quote", v, 2, 2)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[1], nil
}

func variable(form string, v, name lisp.LVal) (symbol.ID, error) {
	id, ok := lisp.GetSymbol(name)
	if !ok {
		return 0, &SyntaxError{Form: form, Msg: "variable is not a symbol", Datum: v}
	}
	return id, nil
}

// AssignmentVariable returns var from (set! var value).
func AssignmentVariable(v lisp.LVal) (symbol.ID, error) {
	s, err := elements("set!", v, 3, 3)
	if err != nil {
		return 0, err
	}
	return variable("set!", v, s[1])
}

// AssignmentValue returns value from (set! var value).
func AssignmentValue(v lisp.LVal) (lisp.LVal, error) {
	s, err := elements("set!", v, 3, 3)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[2], nil
}

// DefinitionVariable returns var from (define var value) or from the
// procedure shorthand (define (var params...) body...).
func DefinitionVariable(v lisp.LVal) (symbol.ID, error) {
	s, err := elements("define", v, 3, -1)
	if err != nil {
		return 0, err
	}
	if target, ok := lisp.GetCAR(s[1]); ok {
		return variable("define", v, target)
	}
	if len(s) > 3 {
		return 0, &SyntaxError{Form: "define", Msg: "too many elements", Datum: v}
	}
	return variable("define", v, s[1])
}

// DefinitionValue returns the value expression of a definition.  The
// procedure shorthand (define (f . params) body...) yields the datum
// (lambda params body...).
func DefinitionValue(v lisp.LVal) (lisp.LVal, error) {
	s, err := elements("define", v, 3, -1)
	if err != nil {
		return lisp.Nil(), err
	}
	target, ok := lisp.GetConsData(s[1])
	if !ok {
		return s[2], nil
	}
	return MakeLambda(target.CDR, lisp.List(s[2:]...)), nil
}

// MakeLambda builds the datum (lambda params . body).
func MakeLambda(params, body lisp.LVal) lisp.LVal {
	return lisp.Cons(lisp.Symbol(SymLambda), lisp.Cons(params, body))
}

// LambdaParameters returns params from (lambda params body...).
func LambdaParameters(v lisp.LVal) (lisp.LVal, error) {
	s, err := elements("lambda", v, 3, -1)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[1], nil
}

// LambdaBody returns the list of body expressions of a lambda.
func LambdaBody(v lisp.LVal) (lisp.LVal, error) {
	if _, err := elements("lambda", v, 3, -1); err != nil {
		return lisp.Nil(), err
	}
	rest, _ := lisp.GetCDR(v)
	body, _ := lisp.GetCDR(rest)
	return body, nil
}

func ifElements(v lisp.LVal) ([]lisp.LVal, error) {
	return elements("if", v, 3, 4)
}

// IfPredicate returns pred from (if pred conseq [alt]).
func IfPredicate(v lisp.LVal) (lisp.LVal, error) {
	s, err := ifElements(v)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[1], nil
}

// IfConsequent returns conseq from (if pred conseq [alt]).
func IfConsequent(v lisp.LVal) (lisp.LVal, error) {
	s, err := ifElements(v)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[2], nil
}

// IfAlternative returns alt from (if pred conseq alt).  IfAlternative returns
// false if the alternative is absent.
func IfAlternative(v lisp.LVal) (lisp.LVal, bool, error) {
	s, err := ifElements(v)
	if err != nil {
		return lisp.Nil(), false, err
	}
	if len(s) < 4 {
		return lisp.Nil(), false, nil
	}
	return s[3], true, nil
}

// BeginActions returns the list of expressions in (begin actions...).
func BeginActions(v lisp.LVal) (lisp.LVal, error) {
	if _, err := elements("begin", v, 2, -1); err != nil {
		return lisp.Nil(), err
	}
	actions, _ := lisp.GetCDR(v)
	return actions, nil
}

// CondClauses returns the clause list of (cond clauses...).
func CondClauses(v lisp.LVal) (lisp.LVal, error) {
	if _, err := elements("cond", v, 1, -1); err != nil {
		return lisp.Nil(), err
	}
	clauses, _ := lisp.GetCDR(v)
	return clauses, nil
}

// CondPredicate returns the predicate of a cond clause.
func CondPredicate(clause lisp.LVal) (lisp.LVal, error) {
	s, err := elements("cond clause", clause, 2, -1)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[0], nil
}

// CondActions returns the action list of a cond clause.
func CondActions(clause lisp.LVal) (lisp.LVal, error) {
	if _, err := elements("cond clause", clause, 2, -1); err != nil {
		return lisp.Nil(), err
	}
	actions, _ := lisp.GetCDR(clause)
	return actions, nil
}

// Operator returns the operator of an application.
func Operator(v lisp.LVal) (lisp.LVal, error) {
	s, err := elements("application", v, 1, -1)
	if err != nil {
		return lisp.Nil(), err
	}
	return s[0], nil
}

// Operands returns the operand list of an application.
func Operands(v lisp.LVal) (lisp.LVal, error) {
	if _, err := elements("application", v, 1, -1); err != nil {
		return lisp.Nil(), err
	}
	operands, _ := lisp.GetCDR(v)
	return operands, nil
}
