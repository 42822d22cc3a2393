package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/wasm-signature/errors"
)

// MaxDepth bounds how deeply models, arrays and maps may nest on decode.
const MaxDepth = 64

// Decoder reads tagged values from a caller-supplied buffer.
type Decoder struct {
	buf   []byte
	pos   int
	depth int
	base  int // offset of buf within the outermost buffer
}

// NewDecoder creates a Decoder positioned at the start of b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Position returns the read offset relative to the outermost buffer.
func (d *Decoder) Position() int {
	return d.base + d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Done returns an error if unread bytes remain.
func (d *Decoder) Done() error {
	if n := d.Remaining(); n > 0 {
		return d.fail(errors.Trailing(n))
	}
	return nil
}

// fail annotates err with the current offset.
func (d *Decoder) fail(err *errors.Error) error {
	if err.Detail == "" {
		err.Detail = fmt.Sprintf("at offset %d", d.Position())
	} else {
		err.Detail = fmt.Sprintf("%s at offset %d", err.Detail, d.Position())
	}
	return err
}

func (d *Decoder) underrun(need int) error {
	return d.fail(errors.Underrun(nil, need, d.Remaining()))
}

// Peek returns the kind of the next value without consuming it.
func (d *Decoder) Peek() (Kind, error) {
	if d.Remaining() < 1 {
		return 0, d.underrun(1)
	}
	return Kind(d.buf[d.pos]), nil
}

// Nil consumes a nil marker if one is next and reports whether it did.
func (d *Decoder) Nil() bool {
	if d.Remaining() > 0 && Kind(d.buf[d.pos]) == KindNil {
		d.pos++
		return true
	}
	return false
}

func (d *Decoder) expect(want Kind) error {
	got, err := d.Peek()
	if err != nil {
		return err
	}
	if got != want {
		return d.fail(errors.TypeMismatch(errors.PhaseDecode, nil, got.String(), want.String()))
	}
	d.pos++
	return nil
}

func (d *Decoder) uvarint(bits uint) (uint64, error) {
	v, n, ok := uvarint(d.buf[d.pos:], bits)
	if !ok {
		if n < 0 {
			return 0, d.fail(errors.Overflow(errors.PhaseDecode, nil, fmt.Sprintf("varint exceeds %d bits", bits)))
		}
		return 0, d.underrun(d.Remaining() + 1)
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, d.underrun(n)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// length reads a uvarint length and checks it against the remaining bytes.
func (d *Decoder) length() (int, error) {
	v, err := d.uvarint(64)
	if err != nil {
		return 0, err
	}
	if v > uint64(d.Remaining()) {
		return 0, d.underrun(int(min(v, math.MaxInt32)))
	}
	return int(v), nil
}

func (d *Decoder) Bool() (bool, error) {
	if err := d.expect(KindBool); err != nil {
		return false, err
	}
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, d.fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("invalid bool byte 0x%02x", b[0])))
}

func (d *Decoder) Int32() (int32, error) {
	if err := d.expect(KindInt32); err != nil {
		return 0, err
	}
	v, err := d.uvarint(32)
	if err != nil {
		return 0, err
	}
	return unzigzag32(uint32(v)), nil
}

func (d *Decoder) Int64() (int64, error) {
	if err := d.expect(KindInt64); err != nil {
		return 0, err
	}
	v, err := d.uvarint(64)
	if err != nil {
		return 0, err
	}
	return unzigzag64(v), nil
}

func (d *Decoder) Uint32() (uint32, error) {
	if err := d.expect(KindUint32); err != nil {
		return 0, err
	}
	v, err := d.uvarint(32)
	return uint32(v), err
}

func (d *Decoder) Uint64() (uint64, error) {
	if err := d.expect(KindUint64); err != nil {
		return 0, err
	}
	return d.uvarint(64)
}

func (d *Decoder) Float32() (float32, error) {
	if err := d.expect(KindFloat32); err != nil {
		return 0, err
	}
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func (d *Decoder) Float64() (float64, error) {
	if err := d.expect(KindFloat64); err != nil {
		return 0, err
	}
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (d *Decoder) String() (string, error) {
	if err := d.expect(KindString); err != nil {
		return "", err
	}
	n, err := d.length()
	if err != nil {
		return "", err
	}
	b, err := d.take(n)
	return string(b), err
}

// Binary reads a byte sequence. The result is a copy.
func (d *Decoder) Binary() ([]byte, error) {
	if err := d.expect(KindBytes); err != nil {
		return nil, err
	}
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Enum reads an enum ordinal. Range checking is left to the caller, which
// knows the declared members.
func (d *Decoder) Enum() (uint32, error) {
	if err := d.expect(KindEnum); err != nil {
		return 0, err
	}
	v, err := d.uvarint(32)
	return uint32(v), err
}

// Error reads an error frame and returns the carried error. The second
// result reports a malformed frame.
func (d *Decoder) Error() (error, error) {
	if err := d.expect(KindError); err != nil {
		return nil, err
	}
	msg, err := d.String()
	if err != nil {
		return nil, err
	}
	return errors.Remote(msg), nil
}

func (d *Decoder) header(got Kind, want Kind) error {
	if !got.Valid() {
		return d.fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("invalid nested kind 0x%02x", byte(got))))
	}
	if got != want {
		return d.fail(errors.TypeMismatch(errors.PhaseDecode, nil, got.String(), want.String()))
	}
	return nil
}

// Array reads an array header of elem values and returns the element count.
func (d *Decoder) Array(elem Kind) (int, error) {
	if err := d.expect(KindArray); err != nil {
		return 0, err
	}
	kinds, err := d.take(1)
	if err != nil {
		return 0, err
	}
	if err := d.header(Kind(kinds[0]), elem); err != nil {
		return 0, err
	}
	// every element carries at least its tag
	return d.length()
}

// Map reads a map header and returns the number of key/value pairs.
func (d *Decoder) Map(key, value Kind) (int, error) {
	if err := d.expect(KindMap); err != nil {
		return 0, err
	}
	kinds, err := d.take(2)
	if err != nil {
		return 0, err
	}
	if err := d.header(Kind(kinds[0]), key); err != nil {
		return 0, err
	}
	if err := d.header(Kind(kinds[1]), value); err != nil {
		return 0, err
	}
	n, err := d.length()
	if err != nil {
		return 0, err
	}
	if 2*n > d.Remaining() {
		return 0, d.underrun(2 * n)
	}
	return n, nil
}

// Model reads a model frame and returns a Decoder over its body. The outer
// decoder is advanced past the whole frame, so bytes the caller leaves unread
// in the body are skipped.
func (d *Decoder) Model() (*Decoder, error) {
	if err := d.expect(KindModel); err != nil {
		return nil, err
	}
	if d.depth+1 > MaxDepth {
		return nil, d.fail(errors.Overflow(errors.PhaseDecode, nil, fmt.Sprintf("nesting exceeds %d levels", MaxDepth)))
	}
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	start := d.Position()
	body, _ := d.take(n)
	return &Decoder{buf: body, depth: d.depth + 1, base: start}, nil
}

// Skip consumes the next value whatever its kind.
func (d *Decoder) Skip() error {
	return d.skip(d.depth)
}

func (d *Decoder) skip(depth int) error {
	if depth > MaxDepth {
		return d.fail(errors.Overflow(errors.PhaseDecode, nil, fmt.Sprintf("nesting exceeds %d levels", MaxDepth)))
	}
	k, err := d.Peek()
	if err != nil {
		return err
	}
	switch k {
	case KindNil:
		d.pos++
		return nil
	case KindBool:
		_, err = d.Bool()
	case KindEnum:
		_, err = d.Enum()
	case KindUint32:
		_, err = d.Uint32()
	case KindUint64:
		_, err = d.Uint64()
	case KindInt32:
		_, err = d.Int32()
	case KindInt64:
		_, err = d.Int64()
	case KindFloat32:
		_, err = d.Float32()
	case KindFloat64:
		_, err = d.Float64()
	case KindString:
		_, err = d.String()
	case KindBytes:
		d.pos++
		var n int
		if n, err = d.length(); err == nil {
			_, err = d.take(n)
		}
	case KindError:
		_, err = d.Error()
	case KindModel:
		d.pos++
		var n int
		if n, err = d.length(); err == nil {
			_, err = d.take(n)
		}
	case KindArray:
		d.pos++
		var kinds []byte
		if kinds, err = d.take(1); err != nil {
			return err
		}
		elem := Kind(kinds[0])
		if err = d.header(elem, elem); err != nil {
			return err
		}
		var n int
		if n, err = d.length(); err != nil {
			return err
		}
		for i := 0; i < n && err == nil; i++ {
			err = d.skip(depth + 1)
		}
	case KindMap:
		d.pos++
		var kinds []byte
		if kinds, err = d.take(2); err != nil {
			return err
		}
		for _, k := range kinds {
			if err = d.header(Kind(k), Kind(k)); err != nil {
				return err
			}
		}
		var n int
		if n, err = d.length(); err != nil {
			return err
		}
		for i := 0; i < 2*n && err == nil; i++ {
			err = d.skip(depth + 1)
		}
	default:
		return d.fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("invalid kind 0x%02x", byte(k))))
	}
	return err
}
