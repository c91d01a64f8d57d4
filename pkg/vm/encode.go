package vm

import (
	"encoding/binary"
	"math"
)

// Assembler builds a Program's instruction stream without hand-counting
// byte offsets, emitting the little-endian inline-immediate encoding the
// VM executes.
type Assembler struct {
	code []byte
}

// Label returns the current byte offset, to use as a jump target.
func (a *Assembler) Label() int { return len(a.code) }

func (a *Assembler) Op(op Opcode) *Assembler {
	a.code = append(a.code, byte(op))
	return a
}

// I64 appends an 8-byte little-endian int64 immediate (PUSH_INT).
func (a *Assembler) I64(v int64) *Assembler {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	a.code = append(a.code, buf[:]...)
	return a
}

// F64 appends an 8-byte little-endian double immediate (PUSH_FLOAT).
func (a *Assembler) F64(v float64) *Assembler {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	a.code = append(a.code, buf[:]...)
	return a
}

// Str appends a 4-byte length prefix followed by the UTF-8 bytes of s
// (PUSH_STRING).
func (a *Assembler) Str(s string) *Assembler {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(s)))
	a.code = append(a.code, buf[:]...)
	a.code = append(a.code, s...)
	return a
}

// Bool appends a 1-byte immediate (PUSH_BOOL).
func (a *Assembler) Bool(v bool) *Assembler {
	if v {
		a.code = append(a.code, 1)
	} else {
		a.code = append(a.code, 0)
	}
	return a
}

// U32 appends a 4-byte little-endian unsigned immediate: state/local/host
// ids, and (reinterpreted) jump targets.
func (a *Assembler) U32(v uint32) *Assembler {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	a.code = append(a.code, buf[:]...)
	return a
}

// I32 appends a 4-byte little-endian signed immediate (JUMP/JUMP_IF_FALSE
// targets).
func (a *Assembler) I32(v int32) *Assembler {
	return a.U32(uint32(v))
}

// Code returns the assembled instruction stream.
func (a *Assembler) Code() []byte { return a.code }
