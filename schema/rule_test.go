package schema

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/wasm-signature/errors"
)

func TestValidatePriority(t *testing.T) {
	rules := []Rule{
		Length(1, 20),
		MustPattern(`^[a-zA-Z0-9]*$`),
	}

	tests := []struct {
		name  string
		value string
		kind  errors.Kind
		msg   string
	}{
		{"pattern before length", "hello world", errors.KindPattern, "value must match ^[a-zA-Z0-9]*$"},
		{"pattern wins even when too long", strings.Repeat("a b", 10), errors.KindPattern, "value must match"},
		{"empty violates length only", "", errors.KindLength, "length must be between 1 and 20"},
		{"too long", strings.Repeat("a", 21), errors.KindLength, "length must be between 1 and 20"},
		{"accepted", "hello", "", ""},
		{"upper bound inclusive", strings.Repeat("a", 20), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]string{"field"}, rules, tt.value)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseValidate, Kind: tt.kind}) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("message %q does not contain %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	rules := []Rule{Range(int32(0), int32(100))}

	for _, v := range []int32{0, 50, 100} {
		if err := Validate(nil, rules, v); err != nil {
			t.Errorf("%d rejected: %v", v, err)
		}
	}

	var msgs []string
	for _, v := range []int32{-1, 101} {
		err := Validate(nil, rules, v)
		if !errors.IsValidation(err) {
			t.Fatalf("%d: expected validation error, got %v", v, err)
		}
		var e *errors.Error
		stderrors.As(err, &e)
		msgs = append(msgs, e.Detail)
	}
	if msgs[0] != msgs[1] || msgs[0] != "value must be between 0 and 100" {
		t.Errorf("messages = %q", msgs)
	}
}

func TestBoundMessages(t *testing.T) {
	tests := []struct {
		rule  Rule
		value any
		want  string
	}{
		{MinLength(3), "ab", "length must be at least 3"},
		{MaxLength(2), "abc", "length must be at most 2"},
		{Range(int64(5), nil), int64(4), "value must be greater than or equal to 5"},
		{Range(nil, uint64(5)), uint64(6), "value must be less than or equal to 5"},
		{Range(float64(-1.5), float64(1.5)), float64(2), "value must be between -1.5 and 1.5"},
	}

	for _, tt := range tests {
		err := Validate(nil, []Rule{tt.rule}, tt.value)
		if err == nil {
			t.Errorf("%v accepted by %+v", tt.value, tt.rule)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("got %q, want %q", err.Error(), tt.want)
		}
	}
}

func TestLengthCountsRunes(t *testing.T) {
	if err := Validate(nil, []Rule{Length(1, 3)}, "äöü"); err != nil {
		t.Errorf("three runes rejected: %v", err)
	}
	if err := Validate(nil, []Rule{Length(1, 3)}, []byte("äöü")); err == nil {
		t.Error("six bytes accepted")
	}
}

func TestPatternMatchesWholeString(t *testing.T) {
	r := MustPattern(`[a-z]+`)
	if err := Validate(nil, []Rule{r}, "abc"); err != nil {
		t.Errorf("full match rejected: %v", err)
	}
	if err := Validate(nil, []Rule{r}, "abc1"); err == nil {
		t.Error("partial match accepted")
	}
}

func TestPatternInvalidExpression(t *testing.T) {
	if _, err := Pattern(`(`); err == nil {
		t.Error("expected compile error")
	}
}

func TestCheckRule(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		typ  Type
		ok   bool
	}{
		{"pattern on string", MustPattern(`a`), TypeString, true},
		{"pattern on int", MustPattern(`a`), TypeInt32, false},
		{"length on bytes", Length(0, 4), TypeBytes, true},
		{"length inverted", Length(4, 1), TypeString, false},
		{"range on int32", Range(int32(1), int32(2)), TypeInt32, true},
		{"range wrong bound type", Range(1, 2), TypeInt32, false},
		{"range inverted", Range(uint32(3), uint32(2)), TypeUint32, false},
		{"range on string", Range("a", "b"), TypeString, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkRule(tt.rule, tt.typ)
			if (err == nil) != tt.ok {
				t.Errorf("checkRule = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	for _, tr := range []Transform{TransformNone, TransformUpper, TransformLower} {
		once := tr.Apply("MiXeD")
		if tr.Apply(once) != once {
			t.Errorf("%s not idempotent", tr)
		}
	}
	if TransformUpper.Apply("hello") != "HELLO" {
		t.Error("upper")
	}
	if tr, ok := ParseTransform("lower"); !ok || tr != TransformLower {
		t.Error("ParseTransform(lower)")
	}
	if _, ok := ParseTransform("title"); ok {
		t.Error("ParseTransform accepted title")
	}
}
