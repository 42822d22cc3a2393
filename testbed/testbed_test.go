package testbed

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/schema"
	"github.com/wippyai/wasm-signature/signature"
)

func encode(m signature.Message) []byte {
	e := codec.NewEncoder()
	m.Encode(e)
	return e.Bytes()
}

func TestEmptyModel(t *testing.T) {
	b := encode(NewEmptyModel())
	if !bytes.Equal(b, []byte{0x03, 0x00}) {
		t.Fatalf("empty model = % x", b)
	}
	d := codec.NewDecoder(b)
	if _, err := DecodeEmptyModel(d); err != nil {
		t.Fatal(err)
	}
	if err := d.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestModelWithSingleStringField(t *testing.T) {
	m := NewModelWithSingleStringField()
	if m.StringField != "DefaultValue" {
		t.Errorf("default = %q", m.StringField)
	}
	m.StringField = "hello world"

	got, err := DecodeModelWithSingleStringField(codec.NewDecoder(encode(m)))
	if err != nil {
		t.Fatal(err)
	}
	if got.StringField != "hello world" {
		t.Errorf("decoded = %q", got.StringField)
	}
}

func TestValidatedString(t *testing.T) {
	tests := []struct {
		value string
		kind  errors.Kind
		msg   string
	}{
		{"hello world", errors.KindPattern, "value must match ^[a-zA-Z0-9]*$"},
		{"", errors.KindLength, "length must be between 1 and 20"},
		{"this value has spaces and is far too long", errors.KindPattern, "value must match"},
		{"abcdefghijklmnopqrstu", errors.KindLength, "length must be between 1 and 20"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			m := NewModelWithMultipleFieldsAccessor()
			err := m.SetStringField(tt.value)
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: tt.kind}) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("message %q does not contain %q", err, tt.msg)
			}
			if m.StringField() != "DEFAULTVALUE" {
				t.Errorf("field changed to %q", m.StringField())
			}
		})
	}

	m := NewModelWithMultipleFieldsAccessor()
	if err := m.SetStringField("hello"); err != nil {
		t.Fatal(err)
	}
	if m.StringField() != "HELLO" {
		t.Errorf("read back %q", m.StringField())
	}
	if m.StringField() != schema.TransformUpper.Apply(m.StringField()) {
		t.Error("transform not idempotent")
	}
}

func TestValidatedNumber(t *testing.T) {
	m := NewModelWithMultipleFieldsAccessor()
	if m.Int32Field() != 32 {
		t.Errorf("default = %d", m.Int32Field())
	}

	var msgs []string
	for _, v := range []int32{-1, 101} {
		err := m.SetInt32Field(v)
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: errors.KindRange}) {
			t.Fatalf("SetInt32Field(%d) = %v", v, err)
		}
		msgs = append(msgs, err.(*errors.Error).Detail)
	}
	if msgs[0] != msgs[1] || msgs[0] != "value must be between 0 and 100" {
		t.Errorf("range messages = %q", msgs)
	}
	if m.Int32Field() != 32 {
		t.Errorf("field changed to %d", m.Int32Field())
	}

	for _, v := range []int32{0, 100} {
		if err := m.SetInt32Field(v); err != nil {
			t.Errorf("SetInt32Field(%d) = %v", v, err)
		}
	}
}

func TestAccessorRoundTrip(t *testing.T) {
	m := NewModelWithMultipleFieldsAccessor()
	if err := m.SetStringField("abc"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetInt32Field(7); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeModelWithMultipleFieldsAccessor(codec.NewDecoder(encode(m)))
	if err != nil {
		t.Fatal(err)
	}
	if *got != *m {
		t.Errorf("decoded %+v, want %+v", got, m)
	}
}

func TestModelWithEnum(t *testing.T) {
	m := NewModelWithEnum()
	if m.EnumField != GenericEnumDefaultValue {
		t.Errorf("default = %v", m.EnumField)
	}
	m.EnumField = GenericEnumSecondValue

	got, err := DecodeModelWithEnum(codec.NewDecoder(encode(m)))
	if err != nil {
		t.Fatal(err)
	}
	if got.EnumField != GenericEnumSecondValue {
		t.Errorf("decoded %v", got.EnumField)
	}

	m.EnumField = 9
	_, err = DecodeModelWithEnum(codec.NewDecoder(encode(m)))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidEnum}) {
		t.Fatalf("expected invalid enum, got %v", err)
	}
	if p := err.(*errors.Error).Path; len(p) != 1 || p[0] != "enumField" {
		t.Errorf("path = %v", p)
	}
}

func TestEmbeddedModels(t *testing.T) {
	m := NewModelWithEmbeddedModels()
	if m.EmbeddedData == nil || m.EmbeddedModels == nil {
		t.Fatal("embedded fields not allocated")
	}
	if m.EmbeddedData.StringField != "DefaultValue" {
		t.Errorf("embedded default = %q", m.EmbeddedData.StringField)
	}

	m.EmbeddedData.StringField = "outer"
	m.EmbeddedModels = append(m.EmbeddedModels,
		&ModelWithSingleStringField{StringField: "a"},
		&ModelWithSingleStringField{StringField: "b"},
	)

	got, err := DecodeModelWithEmbeddedModels(codec.NewDecoder(encode(m)))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("decoded %+v, want %+v", got, m)
	}
}

func TestNilEmbeddedEncodesDefault(t *testing.T) {
	m := NewModelWithEmbeddedModels()
	m.EmbeddedData = nil
	if !bytes.Equal(encode(m), encode(NewModelWithEmbeddedModels())) {
		t.Error("nil embedded model not encoded as default")
	}
}

func populatedAll() *ModelWithAllFieldTypes {
	m := NewModelWithAllFieldTypes()
	m.StringField = "hello"
	m.StringArrayField = []string{"a", "", "c"}
	m.StringMapField = map[string]string{"z": "last", "a": "first", "m": "middle"}
	m.StringModelMapField = map[string]*ModelWithSingleStringField{"k": {StringField: "v"}}
	m.BoolField = false
	m.BoolArrayField = []bool{true, false}
	m.BytesField = []byte{0, 1, 2, 0xff}
	m.EnumField = GenericEnumFirstValue
	m.EnumArrayField = []GenericEnum{GenericEnumSecondValue, GenericEnumDefaultValue}
	m.EnumMapField = map[GenericEnum]string{GenericEnumSecondValue: "two", GenericEnumFirstValue: "one"}
	m.Int32Field = -2147483648
	m.Int32ArrayField = []int32{-1, 0, 1}
	m.Int32MapField = map[int32]int32{-5: 5, 5: -5}
	m.Int64Field = -1 << 63
	m.Int64ArrayField = []int64{1<<63 - 1}
	m.Uint32Field = 1<<32 - 1
	m.Uint64Field = 1<<64 - 1
	m.Uint64MapField = map[uint64]uint64{1 << 60: 1}
	m.Float32Field = -1.5
	m.Float64Field = 3.141592653589793
	m.Float64ArrayField = []float64{0, -0.5}
	return m
}

func TestAllFieldTypesDefaults(t *testing.T) {
	m := NewModelWithAllFieldTypes()
	if m.StringArrayField == nil || m.StringMapField == nil || m.StringModelMapField == nil ||
		m.EnumMapField == nil || m.Int32MapField == nil || m.Uint64MapField == nil ||
		m.Float64ArrayField == nil {
		t.Fatal("containers must be allocated")
	}
	if !m.BoolField || string(m.BytesField) != "DefaultValue" || m.Float32Field != 0.5 {
		t.Errorf("defaults = %+v", m)
	}
}

func TestAllFieldTypesRoundTrip(t *testing.T) {
	m := populatedAll()
	got, err := DecodeModelWithAllFieldTypes(codec.NewDecoder(encode(m)))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("decoded %+v\nwant %+v", got, m)
	}

	empty, err := DecodeModelWithAllFieldTypes(codec.NewDecoder(encode(NewModelWithAllFieldTypes())))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(empty, NewModelWithAllFieldTypes()) {
		t.Error("default instance does not round trip")
	}
}

func TestEncodingIndependentOfAssignmentOrder(t *testing.T) {
	a := NewModelWithAllFieldTypes()
	a.Int64Field = 1
	a.StringField = "x"
	a.StringMapField["b"] = "2"
	a.StringMapField["a"] = "1"

	b := NewModelWithAllFieldTypes()
	b.StringMapField["a"] = "1"
	b.StringField = "x"
	b.StringMapField["b"] = "2"
	b.Int64Field = 1

	if !bytes.Equal(encode(a), encode(b)) {
		t.Error("identical values encoded differently")
	}
}

func TestDecodeTruncatedFails(t *testing.T) {
	full := encode(populatedAll())
	for _, n := range []int{0, 1, 2, len(full) / 2, len(full) - 1} {
		if _, err := DecodeModelWithAllFieldTypes(codec.NewDecoder(full[:n])); !errors.IsDecode(err) {
			t.Errorf("truncated at %d: %v", n, err)
		}
	}
}

func TestTypedModelsMatchSchemaRecords(t *testing.T) {
	s, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}

	tests := []struct {
		model    string
		defaults signature.Message
		values   signature.Message
	}{
		{"EmptyModel", NewEmptyModel(), NewEmptyModel()},
		{"ModelWithSingleStringField", NewModelWithSingleStringField(), &ModelWithSingleStringField{StringField: "hello world"}},
		{"ModelWithSingleInt32Field", NewModelWithSingleInt32Field(), &ModelWithSingleInt32Field{Int32Field: 42}},
		{"ModelWithMultipleFieldsAccessor", NewModelWithMultipleFieldsAccessor(), &ModelWithMultipleFieldsAccessor{stringField: "abc", int32Field: 99}},
		{"ModelWithEnum", NewModelWithEnum(), &ModelWithEnum{EnumField: GenericEnumSecondValue}},
		{"ModelWithEmbeddedModels", NewModelWithEmbeddedModels(), &ModelWithEmbeddedModels{
			EmbeddedData:   &ModelWithSingleStringField{StringField: "x"},
			EmbeddedModels: []*ModelWithSingleStringField{{StringField: "y"}},
		}},
		{"ModelWithAllFieldTypes", NewModelWithAllFieldTypes(), populatedAll()},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			m, ok := s.Model(tt.model)
			if !ok {
				t.Fatalf("model %s missing from schema", tt.model)
			}

			if got, want := encode(schema.New(m)), encode(tt.defaults); !bytes.Equal(got, want) {
				t.Errorf("defaults differ\nrecord % x\ntyped  % x", got, want)
			}

			typed := encode(tt.values)
			rec, err := schema.Decode(m, codec.NewDecoder(typed))
			if err != nil {
				t.Fatalf("record decode: %v", err)
			}
			if got := encode(rec); !bytes.Equal(got, typed) {
				t.Errorf("record re-encoding differs\nrecord % x\ntyped  % x", got, typed)
			}
		})
	}
}

func TestSchemaRecordValidationMatchesAccessors(t *testing.T) {
	s, err := Schema()
	if err != nil {
		t.Fatal(err)
	}
	m, _ := s.Model("ModelWithMultipleFieldsAccessor")
	rec := schema.New(m)
	typed := NewModelWithMultipleFieldsAccessor()

	for _, v := range []string{"hello world", "", "hello"} {
		recErr := rec.Set("stringField", v)
		typedErr := typed.SetStringField(v)
		if (recErr == nil) != (typedErr == nil) {
			t.Fatalf("%q: record %v, typed %v", v, recErr, typedErr)
		}
		if recErr != nil && recErr.Error() != typedErr.Error() {
			t.Errorf("%q: messages differ\n%v\n%v", v, recErr, typedErr)
		}
	}
	if got := rec.MustGet("stringField"); got != typed.StringField() {
		t.Errorf("record %v, typed %v", got, typed.StringField())
	}
}

func TestSchemaDescription(t *testing.T) {
	s, err := Schema()
	if err != nil {
		t.Fatal(err)
	}
	m, ok := s.Model("EmptyModelWithDescription")
	if !ok || m.Description != "Test Description" {
		t.Errorf("description = %v", m)
	}
	if !bytes.Equal(Source(), schemaSource) {
		t.Error("Source differs from embedded schema")
	}
}

func TestSignatureExchange(t *testing.T) {
	host := NewModelWithSingleStringFieldSignature()
	host.Message.StringField = "hello world"

	guest := NewModelWithSingleStringFieldSignature()
	if err := guest.GuestContext().FromReadBuffer(host.RuntimeContext().Write()); err != nil {
		t.Fatal(err)
	}
	if guest.Message.StringField != "hello world" {
		t.Errorf("guest got %q", guest.Message.StringField)
	}

	out := guest.GuestContext().ErrorWriteBuffer(stderrors.New("rejected"))
	err := host.RuntimeContext().Read(out)
	if !errors.IsProtocol(err) {
		t.Fatalf("expected protocol error, got %v", err)
	}
	if host.Message.StringField != "hello world" {
		t.Error("host message modified by error payload")
	}
}
