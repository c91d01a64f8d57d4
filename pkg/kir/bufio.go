package kir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// writer accumulates binary KIR's little-endian byte stream. Every
// multi-byte field is written in the order named below; the layout is
// fixed per format version, with no forward compatibility within a
// major.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *writer) f64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// optStr writes a presence byte followed by the string when present, the
// binary format's equivalent of JSON KIR's "null strings are serialized
// as JSON null".
func (w *writer) optStr(s string, present bool) {
	w.bool(present)
	if present {
		w.str(s)
	}
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }

// reader walks a binary KIR buffer produced by writer, erroring instead
// of panicking on a truncated stream.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader { return &reader{data: data} }

var errTruncated = fmt.Errorf("kir: truncated binary stream")

func (r *reader) u8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, errTruncated
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) boolv() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) u64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) i64() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return int64(v), nil
}

func (r *reader) f64() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return math.Float64frombits(v), nil
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", errTruncated
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) optStr() (string, bool, error) {
	present, err := r.boolv()
	if err != nil || !present {
		return "", false, err
	}
	s, err := r.str()
	return s, true, err
}

func (r *reader) remaining() int { return len(r.data) - r.pos }
