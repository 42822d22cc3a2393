package schema

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"
	"slices"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
)

// Record is an instance of a Model. Every field always holds a value:
// scalars their default, arrays []any, maps map[any]any and embedded models
// a *Record. Containers and embedded records are never nil.
//
// A Record owns its containers and embedded records exclusively. Set deep
// copies what it is given and Get hands out copies of containers, so two
// records never share mutable state.
type Record struct {
	model  *Model
	values []any
}

// New creates a record with every field at its default.
func New(m *Model) *Record {
	r := &Record{model: m, values: make([]any, len(m.fields))}
	for i := range m.fields {
		r.values[i] = initial(&m.fields[i])
	}
	return r
}

func initial(f *Field) any {
	switch f.Type {
	case TypeModel:
		return New(f.Model)
	case TypeArray:
		return []any{}
	case TypeMap:
		return map[any]any{}
	case TypeBytes:
		return append([]byte{}, f.Default.([]byte)...)
	}
	return f.Default
}

// Model returns the record's descriptor.
func (r *Record) Model() *Model {
	return r.model
}

func (r *Record) lookup(name string) (int, *Field, error) {
	i, ok := r.model.index[name]
	if !ok {
		return 0, nil, errors.FieldUnknown(errors.PhaseValidate, []string{r.model.Name}, name)
	}
	return i, &r.model.fields[i], nil
}

// Get returns the value of a field with its read transform applied.
// Arrays and maps are returned as copies; an embedded model is returned as
// the owned *Record so its own setters can be used.
func (r *Record) Get(name string) (any, error) {
	i, f, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	v := r.values[i]
	switch f.Type {
	case TypeString:
		return f.Transform.Apply(v.(string)), nil
	case TypeBytes:
		return append([]byte{}, v.([]byte)...), nil
	case TypeModel:
		return v, nil
	case TypeArray:
		out := cloneValue(v).([]any)
		if f.Transform != TransformNone {
			for j, e := range out {
				out[j] = f.Transform.Apply(e.(string))
			}
		}
		return out, nil
	case TypeMap:
		return cloneValue(v), nil
	}
	return v, nil
}

// MustGet is Get for fields known to exist.
func (r *Record) MustGet(name string) any {
	v, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Set type checks and validates v, then stores a deep copy of it. On error
// the field keeps its previous value.
//
// Enum fields accept an ordinal (uint32) or a member name. Array fields
// accept []any or a typed slice of the element type. Map fields accept
// map[any]any. Model fields accept a *Record of the same model.
func (r *Record) Set(name string, v any) error {
	i, f, err := r.lookup(name)
	if err != nil {
		return err
	}
	path := []string{f.Name}

	var stored any
	switch f.Type {
	case TypeModel:
		stored, err = checkRecord(path, f.Model, v)
	case TypeArray:
		stored, err = r.checkArray(path, f, v)
	case TypeMap:
		stored, err = r.checkMap(path, f, v)
	default:
		stored, err = checkScalar(path, f, f.Type, v)
	}
	if err != nil {
		return err
	}
	r.values[i] = stored
	return nil
}

// Append validates v and adds it to the end of an array field.
func (r *Record) Append(name string, v any) error {
	i, f, err := r.lookup(name)
	if err != nil {
		return err
	}
	if f.Type != TypeArray {
		return errors.TypeMismatch(errors.PhaseValidate, []string{f.Name}, f.Type.String(), "array")
	}
	arr := r.values[i].([]any)
	e, err := r.checkElem(append([]string{f.Name}, fmt.Sprint(len(arr))), f, f.Elem, v)
	if err != nil {
		return err
	}
	r.values[i] = append(arr, e)
	return nil
}

// Put validates k and v and stores the pair in a map field.
func (r *Record) Put(name string, k, v any) error {
	i, f, err := r.lookup(name)
	if err != nil {
		return err
	}
	if f.Type != TypeMap {
		return errors.TypeMismatch(errors.PhaseValidate, []string{f.Name}, f.Type.String(), "map")
	}
	path := append([]string{f.Name}, fmt.Sprint(k))
	key, err := checkKey(path, f, k)
	if err != nil {
		return err
	}
	val, err := r.checkValue(path, f, v)
	if err != nil {
		return err
	}
	r.values[i].(map[any]any)[key] = val
	return nil
}

// Len returns the number of elements in an array or map field.
func (r *Record) Len(name string) int {
	i, ok := r.model.index[name]
	if !ok {
		return 0
	}
	switch v := r.values[i].(type) {
	case []any:
		return len(v)
	case map[any]any:
		return len(v)
	}
	return 0
}

// checkScalar checks a value that rules apply to.
func checkScalar(path []string, f *Field, t Type, v any) (any, error) {
	stored, err := coerce(path, t, f.Enum, v)
	if err != nil {
		return nil, err
	}
	if err := Validate(path, f.Rules, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// checkKey checks a map key. NaN is rejected since it never equals itself
// and could not be looked up again.
func checkKey(path []string, f *Field, k any) (any, error) {
	if isNaN(k) {
		return nil, errors.InvalidData(errors.PhaseValidate, path, "map key is NaN")
	}
	return checkScalar(path, f, f.Key, k)
}

func isNaN(v any) bool {
	switch x := v.(type) {
	case float32:
		return math.IsNaN(float64(x))
	case float64:
		return math.IsNaN(x)
	}
	return false
}

func checkRecord(path []string, m *Model, v any) (any, error) {
	rec, ok := v.(*Record)
	if !ok || rec == nil {
		return nil, errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), m.Name)
	}
	if rec.model != m {
		return nil, errors.TypeMismatch(errors.PhaseValidate, path, rec.model.Name, m.Name)
	}
	return rec.Clone(), nil
}

// checkElem checks one array element.
func (r *Record) checkElem(path []string, f *Field, t Type, v any) (any, error) {
	if t == TypeModel {
		return checkRecord(path, f.Model, v)
	}
	return checkScalar(path, f, t, v)
}

// checkValue checks one map value. Rules constrain keys, not values.
func (r *Record) checkValue(path []string, f *Field, v any) (any, error) {
	if f.Elem == TypeModel {
		return checkRecord(path, f.Model, v)
	}
	return coerce(path, f.Elem, f.Enum, v)
}

func (r *Record) checkArray(path []string, f *Field, v any) (any, error) {
	in, ok := toSlice(v)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), "[]"+f.Elem.String())
	}
	out := make([]any, 0, len(in))
	for j, e := range in {
		stored, err := r.checkElem(append(slices.Clip(path), fmt.Sprint(j)), f, f.Elem, e)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (r *Record) checkMap(path []string, f *Field, v any) (any, error) {
	in, ok := v.(map[any]any)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), "map[any]any")
	}
	out := make(map[any]any, len(in))
	for k, e := range in {
		p := append(slices.Clip(path), fmt.Sprint(k))
		key, err := checkKey(p, f, k)
		if err != nil {
			return nil, err
		}
		val, err := r.checkValue(p, f, e)
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			// two enum spellings of the same member
			return nil, errors.Duplicate(errors.PhaseValidate, path, "map key", fmt.Sprint(key))
		}
		out[key] = val
	}
	return out, nil
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []bool:
		return widen(s), true
	case []int32:
		return widen(s), true
	case []int64:
		return widen(s), true
	case []uint32:
		return widen(s), true
	case []uint64:
		return widen(s), true
	case []float32:
		return widen(s), true
	case []float64:
		return widen(s), true
	case []string:
		return widen(s), true
	case [][]byte:
		return widen(s), true
	case []*Record:
		return widen(s), true
	}
	return nil, false
}

func widen[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{model: r.model, values: make([]any, len(r.values))}
	for i, v := range r.values {
		c.values[i] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return append([]byte{}, x...)
	case *Record:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	}
	return v
}

// Equal reports whether two records have the same model and field values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.model != o.model {
		return false
	}
	for i := range r.values {
		if !equalValue(r.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalValue(x[i], y[i]) {
				return false
			}
		}
		return true
	case float32:
		y, ok := b.(float32)
		return ok && math.Float32bits(x) == math.Float32bits(y)
	case float64:
		y, ok := b.(float64)
		return ok && math.Float64bits(x) == math.Float64bits(y)
	case map[any]any:
		y, ok := b.(map[any]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !equalValue(xv, yv) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Encode writes the record as a model frame, every field in declaration
// order whether or not it was ever set.
func (r *Record) Encode(e *codec.Encoder) {
	e.Model(func(body *codec.Encoder) {
		for i := range r.model.fields {
			f := &r.model.fields[i]
			encodeField(body, f, r.values[i])
		}
	})
}

func encodeField(e *codec.Encoder, f *Field, v any) {
	switch f.Type {
	case TypeModel:
		v.(*Record).Encode(e)
	case TypeArray:
		arr := v.([]any)
		e.Array(f.Elem.Kind(), len(arr))
		for _, x := range arr {
			encodeScalar(e, f.Elem, x)
		}
	case TypeMap:
		m := v.(map[any]any)
		type entry struct{ k, v any }
		entries := make([]entry, 0, len(m))
		for k, x := range m {
			entries = append(entries, entry{k, x})
		}
		slices.SortFunc(entries, func(a, b entry) int {
			c, _ := compareScalar(a.k, b.k)
			return c
		})
		e.Map(f.Key.Kind(), f.Elem.Kind(), len(entries))
		for _, en := range entries {
			encodeScalar(e, f.Key, en.k)
			encodeScalar(e, f.Elem, en.v)
		}
	default:
		encodeScalar(e, f.Type, v)
	}
}

func encodeScalar(e *codec.Encoder, t Type, v any) {
	switch t {
	case TypeBool:
		e.Bool(v.(bool))
	case TypeInt32:
		e.Int32(v.(int32))
	case TypeInt64:
		e.Int64(v.(int64))
	case TypeUint32:
		e.Uint32(v.(uint32))
	case TypeUint64:
		e.Uint64(v.(uint64))
	case TypeFloat32:
		e.Float32(v.(float32))
	case TypeFloat64:
		e.Float64(v.(float64))
	case TypeString:
		e.String(v.(string))
	case TypeBytes:
		e.Binary(v.([]byte))
	case TypeEnum:
		e.Enum(v.(uint32))
	case TypeModel:
		v.(*Record).Encode(e)
	}
}

// Decode reads a record of model m. On any failure the partially decoded
// record is dropped and only the error is returned.
func Decode(m *Model, d *codec.Decoder) (*Record, error) {
	body, err := d.Model()
	if err != nil {
		return nil, err
	}
	r := &Record{model: m, values: make([]any, len(m.fields))}
	for i := range m.fields {
		f := &m.fields[i]
		v, err := decodeField(body, f)
		if err != nil {
			return nil, at(err, f.Name)
		}
		r.values[i] = v
	}
	return r, nil
}

func decodeField(d *codec.Decoder, f *Field) (any, error) {
	switch f.Type {
	case TypeArray:
		n, err := d.Array(f.Elem.Kind())
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, n)
		for j := 0; j < n; j++ {
			v, err := decodeScalar(d, f, f.Elem)
			if err != nil {
				return nil, at(err, fmt.Sprint(j))
			}
			out = append(out, v)
		}
		return out, nil
	case TypeMap:
		n, err := d.Map(f.Key.Kind(), f.Elem.Kind())
		if err != nil {
			return nil, err
		}
		out := make(map[any]any, n)
		for j := 0; j < n; j++ {
			k, err := decodeScalar(d, f, f.Key)
			if err != nil {
				return nil, err
			}
			if isNaN(k) {
				return nil, errors.InvalidData(errors.PhaseDecode, nil, "map key is NaN")
			}
			v, err := decodeScalar(d, f, f.Elem)
			if err != nil {
				return nil, at(err, fmt.Sprint(k))
			}
			if _, dup := out[k]; dup {
				return nil, errors.Duplicate(errors.PhaseDecode, nil, "map key", fmt.Sprint(k))
			}
			out[k] = v
		}
		return out, nil
	}
	return decodeScalar(d, f, f.Type)
}

func decodeScalar(d *codec.Decoder, f *Field, t Type) (any, error) {
	switch t {
	case TypeBool:
		return d.Bool()
	case TypeInt32:
		return d.Int32()
	case TypeInt64:
		return d.Int64()
	case TypeUint32:
		return d.Uint32()
	case TypeUint64:
		return d.Uint64()
	case TypeFloat32:
		return d.Float32()
	case TypeFloat64:
		return d.Float64()
	case TypeString:
		return d.String()
	case TypeBytes:
		return d.Binary()
	case TypeEnum:
		o, err := d.Enum()
		if err != nil {
			return nil, err
		}
		if !f.Enum.Contains(o) {
			return nil, errors.InvalidEnum(errors.PhaseDecode, nil, o, f.Enum.Name)
		}
		return o, nil
	case TypeModel:
		return Decode(f.Model, d)
	}
	return nil, errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("cannot decode %s", t))
}

// at prefixes the path of a structured error with name.
func at(err error, name string) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.Path = append([]string{name}, e.Path...)
	}
	return err
}
