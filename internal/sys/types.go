package sys

import "encoding/binary"

// CallRecord is one 20-byte fixed record in an entity's wire buffer:
// struct { id u32le; args [4]u32le }. This matches the teacher's SQE/CQE
// fixed-layout-struct-plus-accessor-methods convention, adapted from a
// syscall submission entry to a kernel call-id record.
type CallRecord struct {
	ID   CallID
	Args [ArgSlots]uint32
}

// Pack writes the record's wire bytes into dst[0:RecordSize]. dst must have
// at least RecordSize bytes remaining.
func (r CallRecord) Pack(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(r.ID))
	for i, a := range r.Args {
		off := 4 + i*4
		binary.LittleEndian.PutUint32(dst[off:off+4], a)
	}
}

// UnpackCallRecord parses one record out of src[0:RecordSize].
func UnpackCallRecord(src []byte) CallRecord {
	var r CallRecord
	r.ID = CallID(binary.LittleEndian.Uint32(src[0:4]))
	for i := range r.Args {
		off := 4 + i*4
		r.Args[i] = binary.LittleEndian.Uint32(src[off : off+4])
	}
	return r
}

// EntityBuffer is the fixed BufferSize-byte wire buffer written per hook,
// per ISR, and per task (spec.md §4.5). It matches io_uring's fixed SQE
// array in spirit: a contiguous byte region addressed by record index.
type EntityBuffer [BufferSize]byte

// PutTerminator writes the 0xFFFF-as-u32le terminator at the given byte
// offset.
func (b *EntityBuffer) PutTerminator(offset int) {
	binary.LittleEndian.PutUint32(b[offset:offset+4], Terminator)
}

// ReadRecords parses an EntityBuffer back into CallRecords until the
// terminator or buffer end is reached. Used by tests to verify the
// serialization round-trip (Testable Property 2).
func (b *EntityBuffer) ReadRecords() []CallRecord {
	var out []CallRecord
	off := 0
	for off+4 <= BufferSize {
		if binary.LittleEndian.Uint32(b[off:off+4]) == Terminator {
			break
		}
		if off+RecordSize > BufferSize {
			break
		}
		out = append(out, UnpackCallRecord(b[off:off+RecordSize]))
		off += RecordSize
	}
	return out
}
