package testbed

import (
	"github.com/wippyai/wasm-signature/codec"
)

// ModelWithAllFieldTypes covers every field shape: scalars, arrays and maps
// of scalars, maps with model values and enum keys.
type ModelWithAllFieldTypes struct {
	StringField         string
	StringArrayField    []string
	StringMapField      map[string]string
	StringModelMapField map[string]*ModelWithSingleStringField

	BoolField      bool
	BoolArrayField []bool

	BytesField []byte

	EnumField      GenericEnum
	EnumArrayField []GenericEnum
	EnumMapField   map[GenericEnum]string

	Int32Field      int32
	Int32ArrayField []int32
	Int32MapField   map[int32]int32

	Int64Field      int64
	Int64ArrayField []int64

	Uint32Field uint32

	Uint64Field    uint64
	Uint64MapField map[uint64]uint64

	Float32Field float32

	Float64Field      float64
	Float64ArrayField []float64
}

func NewModelWithAllFieldTypes() *ModelWithAllFieldTypes {
	return &ModelWithAllFieldTypes{
		StringField:         "DefaultValue",
		StringArrayField:    []string{},
		StringMapField:      map[string]string{},
		StringModelMapField: map[string]*ModelWithSingleStringField{},
		BoolField:           true,
		BoolArrayField:      []bool{},
		BytesField:          []byte("DefaultValue"),
		EnumField:           GenericEnumDefaultValue,
		EnumArrayField:      []GenericEnum{},
		EnumMapField:        map[GenericEnum]string{},
		Int32Field:          32,
		Int32ArrayField:     []int32{},
		Int32MapField:       map[int32]int32{},
		Int64Field:          64,
		Int64ArrayField:     []int64{},
		Uint32Field:         32,
		Uint64Field:         64,
		Uint64MapField:      map[uint64]uint64{},
		Float32Field:        0.5,
		Float64Field:        0.25,
		Float64ArrayField:   []float64{},
	}
}

func (x *ModelWithAllFieldTypes) Encode(e *codec.Encoder) {
	e.Model(func(b *codec.Encoder) {
		b.String(x.StringField)
		codec.WriteSlice(b, codec.KindString, x.StringArrayField, (*codec.Encoder).String)
		codec.WriteMap(b, codec.KindString, codec.KindString, x.StringMapField, (*codec.Encoder).String, (*codec.Encoder).String)
		codec.WriteMap(b, codec.KindString, codec.KindModel, x.StringModelMapField, (*codec.Encoder).String, writeModel[*ModelWithSingleStringField])

		b.Bool(x.BoolField)
		codec.WriteSlice(b, codec.KindBool, x.BoolArrayField, (*codec.Encoder).Bool)

		b.Binary(x.BytesField)

		writeGenericEnum(b, x.EnumField)
		codec.WriteSlice(b, codec.KindEnum, x.EnumArrayField, writeGenericEnum)
		codec.WriteMap(b, codec.KindEnum, codec.KindString, x.EnumMapField, writeGenericEnum, (*codec.Encoder).String)

		b.Int32(x.Int32Field)
		codec.WriteSlice(b, codec.KindInt32, x.Int32ArrayField, (*codec.Encoder).Int32)
		codec.WriteMap(b, codec.KindInt32, codec.KindInt32, x.Int32MapField, (*codec.Encoder).Int32, (*codec.Encoder).Int32)

		b.Int64(x.Int64Field)
		codec.WriteSlice(b, codec.KindInt64, x.Int64ArrayField, (*codec.Encoder).Int64)

		b.Uint32(x.Uint32Field)

		b.Uint64(x.Uint64Field)
		codec.WriteMap(b, codec.KindUint64, codec.KindUint64, x.Uint64MapField, (*codec.Encoder).Uint64, (*codec.Encoder).Uint64)

		b.Float32(x.Float32Field)

		b.Float64(x.Float64Field)
		codec.WriteSlice(b, codec.KindFloat64, x.Float64ArrayField, (*codec.Encoder).Float64)
	})
}

func DecodeModelWithAllFieldTypes(d *codec.Decoder) (*ModelWithAllFieldTypes, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	x := &ModelWithAllFieldTypes{}

	if x.StringField, err = body.String(); err != nil {
		return nil, field(err, "stringField")
	}
	if x.StringArrayField, err = codec.ReadSlice(body, codec.KindString, (*codec.Decoder).String); err != nil {
		return nil, field(err, "stringArrayField")
	}
	if x.StringMapField, err = codec.ReadMap(body, codec.KindString, codec.KindString, (*codec.Decoder).String, (*codec.Decoder).String); err != nil {
		return nil, field(err, "stringMapField")
	}
	if x.StringModelMapField, err = codec.ReadMap(body, codec.KindString, codec.KindModel, (*codec.Decoder).String, DecodeModelWithSingleStringField); err != nil {
		return nil, field(err, "stringModelMapField")
	}

	if x.BoolField, err = body.Bool(); err != nil {
		return nil, field(err, "boolField")
	}
	if x.BoolArrayField, err = codec.ReadSlice(body, codec.KindBool, (*codec.Decoder).Bool); err != nil {
		return nil, field(err, "boolArrayField")
	}

	if x.BytesField, err = body.Binary(); err != nil {
		return nil, field(err, "bytesField")
	}

	if x.EnumField, err = decodeGenericEnum(body); err != nil {
		return nil, field(err, "enumField")
	}
	if x.EnumArrayField, err = codec.ReadSlice(body, codec.KindEnum, decodeGenericEnum); err != nil {
		return nil, field(err, "enumArrayField")
	}
	if x.EnumMapField, err = codec.ReadMap(body, codec.KindEnum, codec.KindString, decodeGenericEnum, (*codec.Decoder).String); err != nil {
		return nil, field(err, "enumMapField")
	}

	if x.Int32Field, err = body.Int32(); err != nil {
		return nil, field(err, "int32Field")
	}
	if x.Int32ArrayField, err = codec.ReadSlice(body, codec.KindInt32, (*codec.Decoder).Int32); err != nil {
		return nil, field(err, "int32ArrayField")
	}
	if x.Int32MapField, err = codec.ReadMap(body, codec.KindInt32, codec.KindInt32, (*codec.Decoder).Int32, (*codec.Decoder).Int32); err != nil {
		return nil, field(err, "int32MapField")
	}

	if x.Int64Field, err = body.Int64(); err != nil {
		return nil, field(err, "int64Field")
	}
	if x.Int64ArrayField, err = codec.ReadSlice(body, codec.KindInt64, (*codec.Decoder).Int64); err != nil {
		return nil, field(err, "int64ArrayField")
	}

	if x.Uint32Field, err = body.Uint32(); err != nil {
		return nil, field(err, "uint32Field")
	}

	if x.Uint64Field, err = body.Uint64(); err != nil {
		return nil, field(err, "uint64Field")
	}
	if x.Uint64MapField, err = codec.ReadMap(body, codec.KindUint64, codec.KindUint64, (*codec.Decoder).Uint64, (*codec.Decoder).Uint64); err != nil {
		return nil, field(err, "uint64MapField")
	}

	if x.Float32Field, err = body.Float32(); err != nil {
		return nil, field(err, "float32Field")
	}

	if x.Float64Field, err = body.Float64(); err != nil {
		return nil, field(err, "float64Field")
	}
	if x.Float64ArrayField, err = codec.ReadSlice(body, codec.KindFloat64, (*codec.Decoder).Float64); err != nil {
		return nil, field(err, "float64ArrayField")
	}
	return x, nil
}
