package codec

import (
	"encoding/binary"
	"math"
)

const initialCapacity = 64

// Encoder appends tagged values to a growable buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder creates an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, initialCapacity)}
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Bytes returns a copy of the encoded buffer. Later writes do not affect it.
func (e *Encoder) Bytes() []byte {
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

func (e *Encoder) tag(k Kind) {
	e.buf = append(e.buf, byte(k))
}

func (e *Encoder) uvarint(v uint64) {
	e.buf = appendUvarint(e.buf, v)
}

// Nil writes an explicit nil marker.
func (e *Encoder) Nil() {
	e.tag(KindNil)
}

func (e *Encoder) Bool(v bool) {
	e.tag(KindBool)
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *Encoder) Int32(v int32) {
	e.tag(KindInt32)
	e.uvarint(uint64(zigzag32(v)))
}

func (e *Encoder) Int64(v int64) {
	e.tag(KindInt64)
	e.uvarint(zigzag64(v))
}

func (e *Encoder) Uint32(v uint32) {
	e.tag(KindUint32)
	e.uvarint(uint64(v))
}

func (e *Encoder) Uint64(v uint64) {
	e.tag(KindUint64)
	e.uvarint(v)
}

func (e *Encoder) Float32(v float32) {
	e.tag(KindFloat32)
	e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *Encoder) Float64(v float64) {
	e.tag(KindFloat64)
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *Encoder) String(v string) {
	e.tag(KindString)
	e.uvarint(uint64(len(v)))
	e.buf = append(e.buf, v...)
}

// Binary writes a byte sequence. Named to keep Bytes free for the result.
func (e *Encoder) Binary(v []byte) {
	e.tag(KindBytes)
	e.uvarint(uint64(len(v)))
	e.buf = append(e.buf, v...)
}

// Enum writes an enum ordinal.
func (e *Encoder) Enum(ordinal uint32) {
	e.tag(KindEnum)
	e.uvarint(uint64(ordinal))
}

// Error writes an error frame carrying err's message. A nil err is framed
// with an empty message.
func (e *Encoder) Error(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	e.tag(KindError)
	e.String(msg)
}

// Array writes an array header. The caller must follow it with exactly n
// values of kind elem.
func (e *Encoder) Array(elem Kind, n int) {
	e.tag(KindArray)
	e.buf = append(e.buf, byte(elem))
	e.uvarint(uint64(n))
}

// Map writes a map header. The caller must follow it with exactly n
// key/value pairs, keys in ascending order.
func (e *Encoder) Map(key, value Kind, n int) {
	e.tag(KindMap)
	e.buf = append(e.buf, byte(key), byte(value))
	e.uvarint(uint64(n))
}

// Model writes a length-prefixed model frame whose body is produced by fn.
func (e *Encoder) Model(fn func(*Encoder)) {
	body := &Encoder{buf: make([]byte, 0, initialCapacity)}
	if fn != nil {
		fn(body)
	}
	e.tag(KindModel)
	e.uvarint(uint64(len(body.buf)))
	e.buf = append(e.buf, body.buf...)
}
