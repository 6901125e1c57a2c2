package rtkaller

import (
	"fmt"

	"github.com/Rrooach/Rtkaller/internal/sys"
)

// ErrBufferFull mirrors the teacher's ErrSQFull: the fixed-size wire buffer
// has no room left for another record.
var ErrBufferFull = fmt.Errorf("rtkaller: entity buffer full")

// entityBuilder accumulates CallRecords into a fresh, zeroed sys.EntityBuffer.
// It plays the role of the teacher's getSQE/Prep* pair: each call to put
// claims the next record slot or reports ErrBufferFull, and the cursor never
// rewinds.
//
// Because a new entityBuilder (and therefore a new zeroed EntityBuffer) is
// created per execution (see ExecutionSession in session.go), this
// resolves the Open Question in spec.md §9 about residual bytes leaking
// between runs that reuse a buffer: there is no reused buffer. Each record
// is also packed whole, so unused argument slots are written as zero
// (Testable Property 2's byte layout).
type entityBuilder struct {
	buf    sys.EntityBuffer
	offset int
}

func (b *entityBuilder) put(r sys.CallRecord) error {
	if b.offset+sys.RecordSize+sys.TermBytes > sys.BufferSize {
		return ErrBufferFull
	}
	r.Pack(b.buf[b.offset : b.offset+sys.RecordSize])
	b.offset += sys.RecordSize
	return nil
}

func (b *entityBuilder) finish() sys.EntityBuffer {
	b.buf.PutTerminator(b.offset)
	return b.buf
}

// SerializeEntity packs one entity's call sequence into its fixed
// BufferSize-byte wire buffer (spec.md §4.5). symVal resolves Symbol
// arguments; an unresolvable symbol is fatal per spec.md §7.
func SerializeEntity(calls []Call, symVal map[string]uint32) (sys.EntityBuffer, error) {
	b := &entityBuilder{}
	for _, c := range calls {
		rec, err := serializeCall(c, symVal)
		if err != nil {
			return sys.EntityBuffer{}, err
		}
		if err := b.put(rec); err != nil {
			return sys.EntityBuffer{}, err
		}
	}
	return b.finish(), nil
}

func serializeCall(c Call, symVal map[string]uint32) (sys.CallRecord, error) {
	id, ok := sys.IDOf(c.Name)
	if !ok {
		return sys.CallRecord{}, fmt.Errorf("rtkaller: unknown call name %q", c.Name)
	}
	var rec sys.CallRecord
	rec.ID = id
	for i, arg := range c.Args {
		if i >= sys.ArgSlots {
			return sys.CallRecord{}, fmt.Errorf("rtkaller: call %q has more than %d arguments", c.Name, sys.ArgSlots)
		}
		v, err := encodeValue(arg, symVal)
		if err != nil {
			return sys.CallRecord{}, err
		}
		rec.Args[i] = v
	}
	return rec, nil
}

// encodeValue implements spec.md §4.5's value-encoding rule: Symbol resolves
// through symVal (fatal if absent), Num truncates to the lower 32 bits,
// Ptr always encodes as zero (the target-side receiver fills the slot).
func encodeValue(v Value, symVal map[string]uint32) (uint32, error) {
	switch v.Kind {
	case ValueSymbol:
		u, ok := symVal[v.Sym]
		if !ok {
			return 0, fmt.Errorf("rtkaller: symbol %q not present in sym_val", v.Sym)
		}
		return u, nil
	case ValueNum:
		return uint32(v.Num), nil
	default:
		return 0, nil
	}
}

// ParseEntity is the inverse of SerializeEntity, used by tests to verify the
// round-trip property (Testable Property 2).
func ParseEntity(buf sys.EntityBuffer) []sys.CallRecord {
	return buf.ReadRecords()
}
