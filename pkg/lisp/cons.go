package lisp

import "fmt"

// ConsData is the container that backs LCons values.
type ConsData struct {
	CAR LVal
	CDR LVal
}

// Cons returns a new pair from head and tail.  If tail is a list then Cons
// returns a list as well.
func Cons(head, tail LVal) LVal {
	return LVal{typ: LCons, Native: &ConsData{CAR: head, CDR: tail}}
}

// GetCAR returns the head of pair v.
func GetCAR(v LVal) (LVal, bool) {
	if v.typ != LCons {
		return Nil(), false
	}
	return v.Native.(*ConsData).CAR, true
}

// GetCDR returns the tail of pair v.
func GetCDR(v LVal) (LVal, bool) {
	if v.typ != LCons {
		return Nil(), false
	}
	return v.Native.(*ConsData).CDR, true
}

// GetConsData returns ConsData from v.
// GetConsData returns false if v is not LCons.
func GetConsData(v LVal) (*ConsData, bool) {
	if v.typ != LCons {
		return nil, false
	}
	return v.Native.(*ConsData), true
}

// List returns a proper list containing the elements of v.
func List(v ...LVal) LVal {
	if len(v) == 0 {
		return Nil()
	}
	cells := make([]ConsData, len(v))
	lis := Nil()
	for i := len(v) - 1; i >= 0; i-- {
		cells[i].CAR = v[i]
		cells[i].CDR = lis
		lis = LVal{typ: LCons, Native: &cells[i]}
	}
	return lis
}

// Len returns the length of list v.  Len returns false if v is not a proper
// list.
func Len(v LVal) (int, bool) {
	n := 0
	for v.typ == LCons {
		v = v.Native.(*ConsData).CDR
		n++
	}
	return n, v.typ == LNil
}

// IsList returns true if v is a proper list, including the empty list.
func IsList(v LVal) bool {
	_, ok := Len(v)
	return ok
}

// Slice collects the elements of list v.  Slice returns false if v is not a
// proper list, in which case the returned slice holds the elements preceding
// the improper tail.
func Slice(v LVal) ([]LVal, bool) {
	var s []LVal
	for v.typ == LCons {
		data := v.Native.(*ConsData)
		s = append(s, data.CAR)
		v = data.CDR
	}
	return s, v.typ == LNil
}

// ListBuilder appends to the end of a list without reversing it.
type ListBuilder struct {
	front LVal
	back  *ConsData
}

// List returns the list built so far.  Subsequent calls to Append modify
// the returned list.
func (b *ListBuilder) List() LVal {
	return b.front
}

// Append adds elements to the end of the list.
func (b *ListBuilder) Append(v ...LVal) {
	for i := range v {
		data := &ConsData{CAR: v[i]}
		cell := LVal{typ: LCons, Native: data}
		if b.back == nil {
			b.front = cell
		} else {
			b.back.CDR = cell
		}
		b.back = data
	}
}

// ListIterator iterates through cons lists
type ListIterator struct {
	v    LVal
	rest LVal
	err  error
}

// NewListIterator returns a ListIterator that will iterate through list v.
func NewListIterator(v LVal) *ListIterator {
	return &ListIterator{rest: v}
}

// Value returns the iteration's current value.  Value will return LNil if Next
// has not been called.
func (it *ListIterator) Value() LVal {
	return it.v
}

// Rest returns any items remaining to be iterated over
func (it *ListIterator) Rest() LVal {
	return it.rest
}

// Next advances the iterator to the next list element.  Next returns false if
// iteration terminated, either because the list had no more elements or
// because an non-list value was encountered.
func (it *ListIterator) Next() bool {
	if IsNil(it.rest) || it.err != nil {
		return false
	}
	if it.rest.typ != LCons {
		it.err = fmt.Errorf("not a list: %v", it.rest.typ)
		return false
	}
	data := it.rest.Native.(*ConsData)
	it.v = data.CAR
	it.rest = data.CDR
	return true
}

// Err returns a non-nil error if the iteration encountered a non-list value
// terminating the cons chain.
func (it *ListIterator) Err() error {
	return it.err
}
