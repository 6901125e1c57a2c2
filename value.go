package rtkaller

import "fmt"

// PtrKind distinguishes the three PtrValue shapes used by out/ref-parameters.
type PtrKind uint8

const (
	PtrNone PtrKind = iota
	PtrOut
	PtrRef
)

// PtrValue models an output or reference parameter slot. The type name is
// carried for C emission but never serialized onto the wire (§4.5: Ptr
// values encode as zero; the target-side receiver fills the slot in).
type PtrValue struct {
	Kind PtrKind
	Type string
}

func (p PtrValue) String() string {
	switch p.Kind {
	case PtrOut:
		return fmt.Sprintf("Out(%s)", p.Type)
	case PtrRef:
		return fmt.Sprintf("Ref(%s)", p.Type)
	default:
		return "None"
	}
}

// ValueKind tags which of the three Value variants is populated.
type ValueKind uint8

const (
	ValueSymbol ValueKind = iota
	ValueNum
	ValuePtr
)

// Value is the tagged variant described in spec.md §3: Symbol(string) |
// Num(int64) | Ptr(PtrValue). Exactly one of Sym/Num/Ptr is meaningful,
// selected by Kind.
type Value struct {
	Kind ValueKind
	Sym  string
	Num  int64
	Ptr  PtrValue
}

func Symbol(name string) Value { return Value{Kind: ValueSymbol, Sym: name} }
func Num(n int64) Value        { return Value{Kind: ValueNum, Num: n} }
func Ptr(p PtrValue) Value     { return Value{Kind: ValuePtr, Ptr: p} }

// AsSymbol returns (name, true) if the value is a Symbol, matching prog.rs's
// Value::symbol() accessor used by the generator's task-state transitions.
func (v Value) AsSymbol() (string, bool) {
	if v.Kind == ValueSymbol {
		return v.Sym, true
	}
	return "", false
}

func (v Value) String() string {
	switch v.Kind {
	case ValueSymbol:
		return v.Sym
	case ValueNum:
		return fmt.Sprintf("%d", v.Num)
	default:
		return v.Ptr.String()
	}
}
