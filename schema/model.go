package schema

import (
	"fmt"

	"github.com/wippyai/wasm-signature/errors"
)

// Field describes one declared field. For arrays Elem is the element type;
// for maps Key and Elem are the key and value types. Model and Enum name the
// referenced descriptors wherever a model or enum type appears.
//
// Rules and Transform constrain the field's own value when it is a scalar,
// each element of an array, or each key of a map.
type Field struct {
	Name      string
	Type      Type
	Elem      Type
	Key       Type
	Model     *Model
	Enum      *Enum
	Default   any
	Rules     []Rule
	Transform Transform
}

// target is the scalar type rules and transforms apply to.
func (f *Field) target() Type {
	switch f.Type {
	case TypeArray:
		return f.Elem
	case TypeMap:
		return f.Key
	}
	return f.Type
}

// Validated reports whether the field carries any rules.
func (f *Field) Validated() bool {
	return len(f.Rules) > 0
}

// Model is an ordered field table. Declaration order is wire order.
type Model struct {
	Name        string
	Description string

	fields []Field
	index  map[string]int
}

// NewModel checks the field table and returns the model.
func NewModel(name string, fields ...Field) (*Model, error) {
	m := &Model{Name: name}
	if err := m.define(fields); err != nil {
		return nil, err
	}
	return m, nil
}

// MustModel is NewModel for package-level declarations.
func MustModel(name string, fields ...Field) *Model {
	m, err := NewModel(name, fields...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) define(fields []Field) error {
	m.fields = make([]Field, len(fields))
	m.index = make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return m.invalid(fmt.Sprintf("#%d", i), "empty field name")
		}
		if _, ok := m.index[f.Name]; ok {
			return errors.Duplicate(errors.PhaseSchema, []string{m.Name}, "field", f.Name)
		}
		if err := m.check(&f); err != nil {
			return err
		}
		m.fields[i] = f
		m.index[f.Name] = i
	}
	return nil
}

func (m *Model) invalid(field, detail string) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidData).
		Path(m.Name, field).
		Detail("%s", detail).
		Build()
}

func (m *Model) check(f *Field) error {
	needs := func(t Type) error {
		switch t {
		case TypeModel:
			if f.Model == nil {
				return m.invalid(f.Name, "model reference not set")
			}
		case TypeEnum:
			if f.Enum == nil || len(f.Enum.Values) == 0 {
				return m.invalid(f.Name, "enum reference not set")
			}
		}
		return nil
	}

	switch {
	case f.Type.Scalar() || f.Type == TypeModel:
		if err := needs(f.Type); err != nil {
			return err
		}
	case f.Type == TypeArray:
		if !f.Elem.Scalar() && f.Elem != TypeModel {
			return m.invalid(f.Name, fmt.Sprintf("invalid array element type %s", f.Elem))
		}
		if err := needs(f.Elem); err != nil {
			return err
		}
	case f.Type == TypeMap:
		if !f.Key.Scalar() || f.Key == TypeBytes || f.Key == TypeBool {
			return m.invalid(f.Name, fmt.Sprintf("invalid map key type %s", f.Key))
		}
		if (!f.Elem.Scalar() && f.Elem != TypeModel) || (f.Elem == TypeEnum && f.Key == TypeEnum) {
			return m.invalid(f.Name, fmt.Sprintf("invalid map value type %s", f.Elem))
		}
		if err := needs(f.Key); err != nil {
			return err
		}
		if err := needs(f.Elem); err != nil {
			return err
		}
	default:
		return m.invalid(f.Name, fmt.Sprintf("invalid type %s", f.Type))
	}

	target := f.target()
	for _, r := range f.Rules {
		if err := checkRule(r, target); err != nil {
			return m.invalid(f.Name, err.Error())
		}
	}
	if f.Transform != TransformNone && (target != TypeString || f.Type == TypeMap) {
		return m.invalid(f.Name, fmt.Sprintf("%s transform on %s", f.Transform, f.Type))
	}

	switch {
	case !f.Type.Scalar():
		if f.Default != nil {
			return m.invalid(f.Name, fmt.Sprintf("default not allowed on %s", f.Type))
		}
	case f.Default == nil:
		f.Default = zero(f.Type, f.Enum)
	default:
		v, err := coerce(nil, f.Type, f.Enum, f.Default)
		if err != nil {
			return m.invalid(f.Name, fmt.Sprintf("default %v: %v", f.Default, err))
		}
		f.Default = v
	}
	return nil
}

// Fields returns the field table in declaration order.
func (m *Model) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Field looks up a field by name.
func (m *Model) Field(name string) (Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

func (m *Model) NumFields() int {
	return len(m.fields)
}

func (m *Model) String() string {
	return m.Name
}

// zero is the value a field of scalar type t holds when no default is given.
func zero(t Type, e *Enum) any {
	switch t {
	case TypeBool:
		return false
	case TypeInt32:
		return int32(0)
	case TypeInt64:
		return int64(0)
	case TypeUint32:
		return uint32(0)
	case TypeUint64:
		return uint64(0)
	case TypeFloat32:
		return float32(0)
	case TypeFloat64:
		return float64(0)
	case TypeString:
		return ""
	case TypeBytes:
		return []byte{}
	case TypeEnum:
		if e != nil {
			return e.Default
		}
		return uint32(0)
	}
	return nil
}

func isType(t Type, v any) bool {
	switch v.(type) {
	case bool:
		return t == TypeBool
	case int32:
		return t == TypeInt32
	case int64:
		return t == TypeInt64
	case uint32:
		return t == TypeUint32 || t == TypeEnum
	case uint64:
		return t == TypeUint64
	case float32:
		return t == TypeFloat32
	case float64:
		return t == TypeFloat64
	case string:
		return t == TypeString
	case []byte:
		return t == TypeBytes
	}
	return false
}

// coerce checks that v is a valid scalar of type t and returns the stored
// form: enum members may be given by name and are stored as ordinals, byte
// sequences are copied.
func coerce(path []string, t Type, e *Enum, v any) (any, error) {
	if t == TypeEnum {
		switch x := v.(type) {
		case uint32:
			if !e.Contains(x) {
				return nil, errors.InvalidEnum(errors.PhaseValidate, path, x, e.Name)
			}
			return x, nil
		case string:
			o, ok := e.Ordinal(x)
			if !ok {
				return nil, errors.InvalidEnum(errors.PhaseValidate, path, x, e.Name)
			}
			return o, nil
		}
		return nil, errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), e.Name)
	}
	if !isType(t, v) {
		return nil, errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), t.String())
	}
	if b, ok := v.([]byte); ok {
		return append([]byte{}, b...), nil
	}
	return v, nil
}
