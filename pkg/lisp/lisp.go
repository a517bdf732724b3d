// Package lisp defines the value representation shared by the reader, the
// classifier and the evaluator.  An LVal is immutable unless it is a cons
// cell or carries native data that is itself mutable.
package lisp

import (
	"fmt"
	"math"
	"reflect"

	"github.com/luthersystems/mceval/pkg/symbol"
)

// LType identifies the kind of data held in an LVal.
type LType uint8

const (
	// LNil is the empty list.
	LNil LType = iota
	// LSymbol is a symbolic name.
	// Schema:
	// 	Data: symbol.ID value
	LSymbol
	// LString is a go string value
	// Schema:
	// 	Native: string value
	LString
	// LInt is a go int value
	// Schema:
	// 	Data: int value
	LInt
	// LFloat is a go float64 value
	// Schema:
	// 	Data: float64 bits
	LFloat
	// LBool is a boolean.
	// Schema:
	//  Data: 0x0 if false and 0x1 if true
	LBool
	// LCons is a pair.  A chain of pairs terminated by LNil is a list.
	// Schema:
	// 	Native: *ConsData
	LCons
	// LTaggedVal is host data tagged with a type name, used for procedures,
	// thunks and environments.
	// Schema:
	// 	Data: symbol.ID value (type name)
	// 	Native: host data
	LTaggedVal

	numTypes
)

var typeStrings = [numTypes]string{
	LNil:       "nil",
	LSymbol:    "symbol",
	LString:    "string",
	LInt:       "int",
	LFloat:     "float",
	LBool:      "bool",
	LCons:      "pair",
	LTaggedVal: "tagged-value",
}

func (t LType) String() string {
	if t >= numTypes {
		return fmt.Sprintf("LType(%d)", uint8(t))
	}
	return typeStrings[t]
}

var typeSymbols [numTypes]symbol.ID

func init() {
	for i, s := range typeStrings {
		typeSymbols[i] = symbol.Intern(s)
	}
}

// LVal is a lisp value.  The zero LVal is the empty list.
type LVal struct {
	typ    LType
	Data   uint64
	Native interface{}
}

// Type returns the kind of v.
func (v LVal) Type() LType {
	return v.typ
}

// GetType returns a symbol naming the type of v.  Tagged values report their
// user-defined type.
func GetType(v LVal) LVal {
	if v.typ == LTaggedVal {
		return Symbol(symbol.ID(v.Data))
	}
	return Symbol(typeSymbols[v.typ])
}

// Nil returns the empty list.
func Nil() LVal {
	return LVal{}
}

// IsNil returns true if v is the empty list.
func IsNil(v LVal) bool {
	return v.typ == LNil
}

// Int returns an LInt value
func Int(x int) LVal {
	return LVal{typ: LInt, Data: uint64(x)}
}

// GetInt returns the int value from v.
// GetInt returns false if v is not LInt.
func GetInt(v LVal) (int, bool) {
	if v.typ != LInt {
		return 0, false
	}
	return int(v.Data), true
}

// Float returns an LFloat value
func Float(x float64) LVal {
	return LVal{typ: LFloat, Data: math.Float64bits(x)}
}

// GetFloat returns the float64 value from v.
// GetFloat returns false if v is not LFloat.
func GetFloat(v LVal) (float64, bool) {
	if v.typ != LFloat {
		return 0, false
	}
	return math.Float64frombits(v.Data), true
}

// IsNumber returns true if v is LInt or LFloat.
func IsNumber(v LVal) bool {
	return v.typ == LInt || v.typ == LFloat
}

// Bool returns the boolean value corresponding to ok.
func Bool(ok bool) LVal {
	if ok {
		return True()
	}
	return False()
}

// True returns the designated true value.
func True() LVal {
	return LVal{typ: LBool, Data: 1}
}

// False returns the designated false value.
func False() LVal {
	return LVal{typ: LBool, Data: 0}
}

// IsTrue returns true iff v is the designated true value.  No other value,
// including zero, the empty list or the empty string, is true.
func IsTrue(v LVal) bool {
	return v.typ == LBool && v.Data != 0
}

// IsFalse returns true iff v is the designated false value.
func IsFalse(v LVal) bool {
	return v.typ == LBool && v.Data == 0
}

// Symbol returns an LSymbol value
func Symbol(id symbol.ID) LVal {
	return LVal{typ: LSymbol, Data: uint64(id)}
}

// GetSymbol extracts the symbol.ID from v.  GetSymbol returns false if v is
// not LSymbol.
func GetSymbol(v LVal) (symbol.ID, bool) {
	if v.typ != LSymbol {
		return 0, false
	}
	return symbol.ID(v.Data), true
}

// IsSymbol returns true if v is the symbol id.
func IsSymbol(v LVal, id symbol.ID) bool {
	return v.typ == LSymbol && symbol.ID(v.Data) == id
}

// String returns an LString value
func String(str string) LVal {
	return LVal{typ: LString, Native: str}
}

// GetString extracts string data from v.  GetString returns false if v is not
// LString.
func GetString(v LVal) (string, bool) {
	if v.typ != LString {
		return "", false
	}
	return v.Native.(string), true
}

// TagNative wraps host data x as an LTaggedVal of the given type.  Packages
// that define tagged types provide typed constructors and getters; TagNative
// is the low-level building block.
func TagNative(typ symbol.ID, x interface{}) LVal {
	return LVal{typ: LTaggedVal, Data: uint64(typ), Native: x}
}

// UserType returns the type name of a tagged value.
// UserType returns false if v is not LTaggedVal.
func UserType(v LVal) (symbol.ID, bool) {
	if v.typ != LTaggedVal {
		return 0, false
	}
	return symbol.ID(v.Data), true
}

// Equal returns true if v1 and v2 are structurally equal.  Tagged values are
// equal only when they hold the identical host object.
func Equal(v1, v2 LVal) bool {
	if v1.typ != v2.typ {
		return false
	}
	switch v1.typ {
	case LNil:
		return true
	case LSymbol, LInt, LBool:
		return v1.Data == v2.Data
	case LFloat:
		return math.Float64frombits(v1.Data) == math.Float64frombits(v2.Data)
	case LString:
		return v1.Native.(string) == v2.Native.(string)
	case LCons:
		c1, c2 := v1.Native.(*ConsData), v2.Native.(*ConsData)
		return c1 == c2 || (Equal(c1.CAR, c2.CAR) && Equal(c1.CDR, c2.CDR))
	case LTaggedVal:
		return v1.Data == v2.Data && identical(v1.Native, v2.Native)
	default:
		return false
	}
}

// Eq returns true if v1 and v2 are the same object: atoms compare by value
// and pairs and tagged values by identity.
func Eq(v1, v2 LVal) bool {
	if v1.typ == LCons && v2.typ == LCons {
		return v1.Native.(*ConsData) == v2.Native.(*ConsData)
	}
	return Equal(v1, v2)
}

// identical compares host data without panicking on incomparable types.
func identical(x, y interface{}) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	tx := reflect.TypeOf(x)
	if tx != reflect.TypeOf(y) || !tx.Comparable() {
		return false
	}
	return x == y
}
