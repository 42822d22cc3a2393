package main

import (
	"bytes"
	stderrors "errors"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/schema"
	"github.com/wippyai/wasm-signature/testbed"
)

func testModel(t *testing.T, name string) *schema.Model {
	t.Helper()
	s, err := testbed.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	m, ok := s.Model(name)
	if !ok {
		t.Fatalf("model %s not found", name)
	}
	return m
}

func TestConvertArg(t *testing.T) {
	tests := []struct {
		value   string
		typ     wit.Type
		want    any
		wantErr bool
	}{
		{"hello", wit.String{}, "hello", false},
		{"42", wit.U32{}, uint32(42), false},
		{"-7", wit.S32{}, int32(-7), false},
		{"18446744073709551615", wit.U64{}, uint64(18446744073709551615), false},
		{"-9", wit.S64{}, int64(-9), false},
		{"0.5", wit.F32{}, float32(0.5), false},
		{"0.25", wit.F64{}, 0.25, false},
		{"true", wit.Bool{}, true, false},
		{"-1", wit.U32{}, nil, true},
		{"4294967296", wit.U32{}, nil, true},
		{"maybe", wit.Bool{}, nil, true},
		{"x", wit.Char{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(witTypeStr(tt.typ)+"/"+tt.value, func(t *testing.T) {
			got, err := convertArg(tt.value, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("convertArg: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestAssign(t *testing.T) {
	m := testModel(t, "ModelWithAllFieldTypes")
	rec := schema.New(m)

	settings := []string{
		"stringField=hello",
		"stringArrayField=a,b,c",
		"stringMapField=x:1,y:2",
		"boolField=false",
		"bytesField=raw",
		"enumField=SecondValue",
		"enumArrayField=FirstValue,DefaultValue",
		"int32Field=-5",
		"int32ArrayField=1,2,3",
		"int32MapField=3:9",
		"uint64Field=7",
		"float64Field=1.5",
		"float64ArrayField=",
	}
	for _, s := range settings {
		if err := assign(rec, s); err != nil {
			t.Fatalf("assign %q: %v", s, err)
		}
	}

	if got := rec.MustGet("stringField"); got != "hello" {
		t.Errorf("stringField = %v", got)
	}
	if got := rec.MustGet("stringArrayField").([]any); len(got) != 3 || got[2] != "c" {
		t.Errorf("stringArrayField = %v", got)
	}
	if got := rec.MustGet("stringMapField").(map[any]any); got["y"] != "2" {
		t.Errorf("stringMapField = %v", got)
	}
	if got := rec.MustGet("boolField"); got != false {
		t.Errorf("boolField = %v", got)
	}
	if got := rec.MustGet("bytesField").([]byte); string(got) != "raw" {
		t.Errorf("bytesField = %q", got)
	}
	if got := rec.MustGet("enumField"); got != uint32(2) {
		t.Errorf("enumField = %v", got)
	}
	if got := rec.MustGet("enumArrayField").([]any); len(got) != 2 || got[0] != uint32(1) {
		t.Errorf("enumArrayField = %v", got)
	}
	if got := rec.MustGet("int32Field"); got != int32(-5) {
		t.Errorf("int32Field = %v", got)
	}
	if got := rec.MustGet("int32MapField").(map[any]any); got[int32(3)] != int32(9) {
		t.Errorf("int32MapField = %v", got)
	}
	if got := rec.MustGet("uint64Field"); got != uint64(7) {
		t.Errorf("uint64Field = %v", got)
	}
	if got := rec.Len("float64ArrayField"); got != 0 {
		t.Errorf("float64ArrayField len = %d", got)
	}
}

func TestAssignEmbedded(t *testing.T) {
	rec := schema.New(testModel(t, "ModelWithEmbeddedModels"))
	if err := assign(rec, "embeddedData.stringField=inner"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	inner := rec.MustGet("embeddedData").(*schema.Record)
	if got := inner.MustGet("stringField"); got != "inner" {
		t.Errorf("embeddedData.stringField = %v", got)
	}
}

func TestAssignErrors(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		setting string
		phase   errors.Phase
		kind    errors.Kind
	}{
		{"no equals", "ModelWithAllFieldTypes", "stringField", errors.PhaseParse, errors.KindInvalidInput},
		{"unknown field", "ModelWithAllFieldTypes", "nope=1", errors.PhaseParse, errors.KindFieldUnknown},
		{"not a model", "ModelWithAllFieldTypes", "stringField.x=1", errors.PhaseParse, errors.KindFieldUnknown},
		{"bad number", "ModelWithAllFieldTypes", "int32Field=abc", errors.PhaseParse, errors.KindInvalidInput},
		{"bad array element", "ModelWithAllFieldTypes", "int32ArrayField=1,x", errors.PhaseParse, errors.KindInvalidInput},
		{"map entry without key", "ModelWithAllFieldTypes", "stringMapField=x", errors.PhaseParse, errors.KindInvalidInput},
		{"unknown enum member", "ModelWithAllFieldTypes", "enumField=Nope", errors.PhaseValidate, errors.KindInvalidEnum},
		{"model array", "ModelWithEmbeddedModels", "embeddedModels=x", errors.PhaseParse, errors.KindInvalidInput},
		{"embedded record", "ModelWithEmbeddedModels", "embeddedData=x", errors.PhaseParse, errors.KindInvalidInput},
		{"rule violation", "ModelWithMultipleFieldsAccessor", "int32Field=101", errors.PhaseValidate, errors.KindRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := schema.New(testModel(t, tt.model))
			err := assign(rec, tt.setting)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, &errors.Error{Phase: tt.phase, Kind: tt.kind}) {
				t.Errorf("got %v, want %s/%s", err, tt.phase, tt.kind)
			}
		})
	}
}

func TestListSchema(t *testing.T) {
	s, err := testbed.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	var out bytes.Buffer
	if err := listSchema(&out, s); err != nil {
		t.Fatalf("listSchema: %v", err)
	}

	for _, want := range []string{
		"Models: 8",
		"EmptyModelWithDescription  // Test Description",
		"stringField: string (pattern ^[a-zA-Z0-9]*$; length [1, 20]; upper)",
		"int32Field: s32 (range [0, 100])",
		"enumField: enumField",
		"stringArrayField: list<string>",
		"int32MapField: list<tuple<s32, s32>>",
		"embeddedData: ModelWithSingleStringField",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg.bin")
	ctx := context.Background()

	err := run(ctx, options{
		model: "ModelWithMultipleFieldsAccessor",
		sets:  setFlags{"stringField=abc", "int32Field=7"},
		out:   path,
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out bytes.Buffer
	err = run(ctx, options{model: "ModelWithMultipleFieldsAccessor", in: path}, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{`stringField = "ABC"`, "int32Field = 7"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestEncodeHex(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), options{model: "EmptyModel"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "03 00" {
		t.Errorf("got %q, want %q", got, "03 00")
	}
}

func TestDecodeErrorPayload(t *testing.T) {
	e := codec.NewEncoder()
	e.Error(stderrors.New("guest failed"))
	path := filepath.Join(t.TempDir(), "err.bin")
	if err := os.WriteFile(path, e.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), options{model: "EmptyModel", in: path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "guest failed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunFailures(t *testing.T) {
	ctx := context.Background()
	truncated := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(truncated, []byte{0x03, 0x09}, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts options
	}{
		{"missing model", options{}},
		{"unknown model", options{model: "Nope"}},
		{"missing schema file", options{schemaPath: "does-not-exist.hcl", list: true}},
		{"missing input file", options{model: "EmptyModel", in: "does-not-exist.bin"}},
		{"truncated input", options{model: "EmptyModel", in: truncated}},
		{"bad signature ref", options{model: "EmptyModel", wasm: "guest.wasm", ref: "a/b/c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(ctx, tt.opts, &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
