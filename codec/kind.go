package codec

import "fmt"

// Kind is the one-byte wire tag that precedes every encoded value.
type Kind byte

const (
	KindNil     Kind = 0x00
	KindArray   Kind = 0x01
	KindMap     Kind = 0x02
	KindModel   Kind = 0x03
	KindBytes   Kind = 0x04
	KindString  Kind = 0x05
	KindError   Kind = 0x06
	KindBool    Kind = 0x07
	KindEnum    Kind = 0x08
	KindUint32  Kind = 0x0a
	KindUint64  Kind = 0x0b
	KindInt32   Kind = 0x0c
	KindInt64   Kind = 0x0d
	KindFloat32 Kind = 0x0e
	KindFloat64 Kind = 0x0f
)

var kindNames = [...]string{
	KindNil:     "nil",
	KindArray:   "array",
	KindMap:     "map",
	KindModel:   "model",
	KindBytes:   "bytes",
	KindString:  "string",
	KindError:   "error",
	KindBool:    "bool",
	KindEnum:    "enum",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(0x%02x)", byte(k))
}

// Valid reports whether k is a defined wire tag.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames) && kindNames[k] != ""
}

// Scalar reports whether values of k carry no nested tagged values.
func (k Kind) Scalar() bool {
	switch k {
	case KindArray, KindMap, KindModel, KindError:
		return false
	}
	return k.Valid()
}
