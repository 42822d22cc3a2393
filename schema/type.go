package schema

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-signature/codec"
)

// Type is the declared type of a field, an array element, or a map key/value.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt32
	TypeInt64
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBytes
	TypeEnum
	TypeModel
	TypeArray
	TypeMap
)

var typeInfo = [...]struct {
	name string
	kind codec.Kind
}{
	TypeInvalid: {"invalid", codec.KindNil},
	TypeBool:    {"bool", codec.KindBool},
	TypeInt32:   {"int32", codec.KindInt32},
	TypeInt64:   {"int64", codec.KindInt64},
	TypeUint32:  {"uint32", codec.KindUint32},
	TypeUint64:  {"uint64", codec.KindUint64},
	TypeFloat32: {"float32", codec.KindFloat32},
	TypeFloat64: {"float64", codec.KindFloat64},
	TypeString:  {"string", codec.KindString},
	TypeBytes:   {"bytes", codec.KindBytes},
	TypeEnum:    {"enum", codec.KindEnum},
	TypeModel:   {"model", codec.KindModel},
	TypeArray:   {"array", codec.KindArray},
	TypeMap:     {"map", codec.KindMap},
}

func (t Type) String() string {
	if int(t) < len(typeInfo) {
		return typeInfo[t].name
	}
	return "invalid"
}

// Kind returns the wire tag values of this type are written with.
func (t Type) Kind() codec.Kind {
	if int(t) < len(typeInfo) {
		return typeInfo[t].kind
	}
	return codec.KindNil
}

// Scalar reports whether t holds a single primitive or enum value.
func (t Type) Scalar() bool {
	return t >= TypeBool && t <= TypeEnum
}

// Numeric reports whether range rules apply to t.
func (t Type) Numeric() bool {
	return t >= TypeInt32 && t <= TypeFloat64
}

// ParsePrimitive maps a primitive type name as written in schema files.
func ParsePrimitive(name string) (Type, bool) {
	for t := TypeBool; t <= TypeBytes; t++ {
		if typeInfo[t].name == name {
			return t, true
		}
	}
	return TypeInvalid, false
}

func (t Type) primitiveWIT() wit.Type {
	switch t {
	case TypeBool:
		return wit.Bool{}
	case TypeInt32:
		return wit.S32{}
	case TypeInt64:
		return wit.S64{}
	case TypeUint32:
		return wit.U32{}
	case TypeUint64:
		return wit.U64{}
	case TypeFloat32:
		return wit.F32{}
	case TypeFloat64:
		return wit.F64{}
	case TypeString:
		return wit.String{}
	case TypeBytes:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	}
	return nil
}

// WIT describes the field as a component-model type: models become records,
// enums become enums, arrays become lists and maps become lists of tuples.
func (f Field) WIT() wit.Type {
	return f.wit(map[*Model]bool{})
}

func (f Field) wit(seen map[*Model]bool) wit.Type {
	switch f.Type {
	case TypeEnum:
		return f.Enum.WIT()
	case TypeModel:
		return f.Model.wit(seen)
	case TypeArray:
		return &wit.TypeDef{Kind: &wit.List{Type: f.elemWIT(f.Elem, seen)}}
	case TypeMap:
		pair := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{f.elemWIT(f.Key, seen), f.elemWIT(f.Elem, seen)}}}
		return &wit.TypeDef{Kind: &wit.List{Type: pair}}
	}
	return f.Type.primitiveWIT()
}

func (f Field) elemWIT(t Type, seen map[*Model]bool) wit.Type {
	switch t {
	case TypeEnum:
		return f.Enum.WIT()
	case TypeModel:
		return f.Model.wit(seen)
	}
	return t.primitiveWIT()
}

// WIT describes the model as a record of its fields in wire order.
func (m *Model) WIT() wit.Type {
	return m.wit(map[*Model]bool{})
}

func (m *Model) wit(seen map[*Model]bool) wit.Type {
	name := m.Name
	if seen[m] {
		return &wit.TypeDef{Name: &name, Kind: &wit.Record{}}
	}
	seen[m] = true
	defer delete(seen, m)

	fields := make([]wit.Field, 0, len(m.fields))
	for _, f := range m.fields {
		fields = append(fields, wit.Field{Name: f.Name, Type: f.wit(seen)})
	}
	return &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: fields}}
}

// WIT describes the enum by its member names in ordinal order.
func (e *Enum) WIT() wit.Type {
	name := e.Name
	cases := make([]wit.EnumCase, 0, len(e.Values))
	for _, v := range e.Values {
		cases = append(cases, wit.EnumCase{Name: v})
	}
	return &wit.TypeDef{Name: &name, Kind: &wit.Enum{Cases: cases}}
}
