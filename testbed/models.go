package testbed

import (
	stderrors "errors"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
)

// field prefixes the path of a structured decode error with name.
func field(err error, name string) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.Path = append([]string{name}, e.Path...)
	}
	return err
}

// writeModel adapts a model's Encode method to the element writer shape.
func writeModel[M interface{ Encode(*codec.Encoder) }](e *codec.Encoder, m M) {
	m.Encode(e)
}

type EmptyModel struct{}

func NewEmptyModel() *EmptyModel {
	return &EmptyModel{}
}

func (x *EmptyModel) Encode(e *codec.Encoder) {
	e.Model(nil)
}

func DecodeEmptyModel(d *codec.Decoder) (*EmptyModel, error) {
	if _, err := d.Model(); err != nil {
		return nil, err
	}
	return NewEmptyModel(), nil
}

type ModelWithSingleStringField struct {
	StringField string
}

func NewModelWithSingleStringField() *ModelWithSingleStringField {
	return &ModelWithSingleStringField{
		StringField: "DefaultValue",
	}
}

func (x *ModelWithSingleStringField) Encode(e *codec.Encoder) {
	if x == nil {
		x = NewModelWithSingleStringField()
	}
	e.Model(func(b *codec.Encoder) {
		b.String(x.StringField)
	})
}

func DecodeModelWithSingleStringField(d *codec.Decoder) (*ModelWithSingleStringField, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	x := &ModelWithSingleStringField{}
	if x.StringField, err = body.String(); err != nil {
		return nil, field(err, "stringField")
	}
	return x, nil
}

type ModelWithSingleInt32Field struct {
	Int32Field int32
}

func NewModelWithSingleInt32Field() *ModelWithSingleInt32Field {
	return &ModelWithSingleInt32Field{
		Int32Field: 32,
	}
}

func (x *ModelWithSingleInt32Field) Encode(e *codec.Encoder) {
	e.Model(func(b *codec.Encoder) {
		b.Int32(x.Int32Field)
	})
}

func DecodeModelWithSingleInt32Field(d *codec.Decoder) (*ModelWithSingleInt32Field, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	x := &ModelWithSingleInt32Field{}
	if x.Int32Field, err = body.Int32(); err != nil {
		return nil, field(err, "int32Field")
	}
	return x, nil
}

type ModelWithEnum struct {
	EnumField GenericEnum
}

func NewModelWithEnum() *ModelWithEnum {
	return &ModelWithEnum{
		EnumField: GenericEnumDefaultValue,
	}
}

func (x *ModelWithEnum) Encode(e *codec.Encoder) {
	e.Model(func(b *codec.Encoder) {
		writeGenericEnum(b, x.EnumField)
	})
}

func DecodeModelWithEnum(d *codec.Decoder) (*ModelWithEnum, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	x := &ModelWithEnum{}
	if x.EnumField, err = decodeGenericEnum(body); err != nil {
		return nil, field(err, "enumField")
	}
	return x, nil
}

// ModelWithEmbeddedModels owns its embedded models. A nil entry is encoded
// as a default instance.
type ModelWithEmbeddedModels struct {
	EmbeddedData   *ModelWithSingleStringField
	EmbeddedModels []*ModelWithSingleStringField
}

func NewModelWithEmbeddedModels() *ModelWithEmbeddedModels {
	return &ModelWithEmbeddedModels{
		EmbeddedData:   NewModelWithSingleStringField(),
		EmbeddedModels: []*ModelWithSingleStringField{},
	}
}

func (x *ModelWithEmbeddedModels) Encode(e *codec.Encoder) {
	e.Model(func(b *codec.Encoder) {
		x.EmbeddedData.Encode(b)
		codec.WriteSlice(b, codec.KindModel, x.EmbeddedModels, writeModel[*ModelWithSingleStringField])
	})
}

func DecodeModelWithEmbeddedModels(d *codec.Decoder) (*ModelWithEmbeddedModels, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	x := &ModelWithEmbeddedModels{}
	if x.EmbeddedData, err = DecodeModelWithSingleStringField(body); err != nil {
		return nil, field(err, "embeddedData")
	}
	if x.EmbeddedModels, err = codec.ReadSlice(body, codec.KindModel, DecodeModelWithSingleStringField); err != nil {
		return nil, field(err, "embeddedModels")
	}
	return x, nil
}
