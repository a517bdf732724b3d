package syntax

import "github.com/luthersystems/mceval/pkg/lisp"

var falseLiteral = &Literal{node: node{lisp.False()}, Value: lisp.False()}

// CondToIf rewrites a clause list into nested if expressions.  Each clause
// (p a...) becomes (if p (begin a...) rest) and an else clause supplies the
// innermost alternative; with no else clause the innermost alternative is
// absent and evaluates to false.  CondToIf returns a *MalformedCondError if
// an else clause is followed by other clauses.
func CondToIf(datum lisp.LVal, clauses []Clause) (Expr, error) {
	if len(clauses) == 0 {
		return falseLiteral, nil
	}
	first := clauses[0]
	if first.IsElse() {
		if len(clauses) > 1 {
			return nil, &MalformedCondError{Datum: datum}
		}
		return sequence(first.Actions), nil
	}
	conseq := sequence(first.Actions)
	if len(clauses) == 1 {
		return makeIf(first.Predicate, conseq, nil), nil
	}
	rest, err := CondToIf(datum, clauses[1:])
	if err != nil {
		return nil, err
	}
	return makeIf(first.Predicate, conseq, rest), nil
}

// sequence returns the single expression in actions or a Begin wrapping
// them.
func sequence(actions []Expr) Expr {
	if len(actions) == 1 {
		return actions[0]
	}
	data := make([]lisp.LVal, 0, len(actions)+1)
	data = append(data, lisp.Symbol(SymBegin))
	for _, x := range actions {
		data = append(data, x.Datum())
	}
	return &Begin{node: node{lisp.List(data...)}, Actions: actions}
}

func makeIf(pred, conseq, alt Expr) *If {
	data := []lisp.LVal{lisp.Symbol(SymIf), pred.Datum(), conseq.Datum()}
	if alt != nil {
		data = append(data, alt.Datum())
	}
	return &If{
		node:        node{lisp.List(data...)},
		Predicate:   pred,
		Consequent:  conseq,
		Alternative: alt,
	}
}
