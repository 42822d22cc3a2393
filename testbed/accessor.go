package testbed

import (
	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/schema"
)

var (
	modelWithMultipleFieldsAccessorStringFieldRules = []schema.Rule{
		schema.MustPattern(`^[a-zA-Z0-9]*$`),
		schema.Length(1, 20),
	}
	modelWithMultipleFieldsAccessorInt32FieldRules = []schema.Rule{
		schema.Range(int32(0), int32(100)),
	}
)

// ModelWithMultipleFieldsAccessor keeps its fields behind validated
// accessors. A rejected value leaves the field unchanged.
type ModelWithMultipleFieldsAccessor struct {
	stringField string
	int32Field  int32
}

func NewModelWithMultipleFieldsAccessor() *ModelWithMultipleFieldsAccessor {
	return &ModelWithMultipleFieldsAccessor{
		stringField: "DefaultValue",
		int32Field:  32,
	}
}

// StringField returns the stored value upper-cased.
func (x *ModelWithMultipleFieldsAccessor) StringField() string {
	return schema.TransformUpper.Apply(x.stringField)
}

func (x *ModelWithMultipleFieldsAccessor) SetStringField(v string) error {
	if err := schema.Validate([]string{"stringField"}, modelWithMultipleFieldsAccessorStringFieldRules, v); err != nil {
		return err
	}
	x.stringField = v
	return nil
}

func (x *ModelWithMultipleFieldsAccessor) Int32Field() int32 {
	return x.int32Field
}

func (x *ModelWithMultipleFieldsAccessor) SetInt32Field(v int32) error {
	if err := schema.Validate([]string{"int32Field"}, modelWithMultipleFieldsAccessorInt32FieldRules, v); err != nil {
		return err
	}
	x.int32Field = v
	return nil
}

func (x *ModelWithMultipleFieldsAccessor) Encode(e *codec.Encoder) {
	e.Model(func(b *codec.Encoder) {
		b.String(x.stringField)
		b.Int32(x.int32Field)
	})
}

func DecodeModelWithMultipleFieldsAccessor(d *codec.Decoder) (*ModelWithMultipleFieldsAccessor, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	x := &ModelWithMultipleFieldsAccessor{}
	if x.stringField, err = body.String(); err != nil {
		return nil, field(err, "stringField")
	}
	if x.int32Field, err = body.Int32(); err != nil {
		return nil, field(err, "int32Field")
	}
	return x, nil
}
