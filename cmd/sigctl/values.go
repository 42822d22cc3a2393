package main

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/schema"
)

// assign applies one "path=value" setting to rec. Paths walk embedded
// models with dots. Arrays take comma separated elements, maps take
// comma separated key:value pairs.
func assign(rec *schema.Record, setting string) error {
	path, raw, ok := strings.Cut(setting, "=")
	if !ok {
		return errors.InvalidInput(errors.PhaseParse, "expected field=value, got "+setting)
	}

	names := strings.Split(path, ".")
	for _, name := range names[:len(names)-1] {
		f, ok := rec.Model().Field(name)
		if !ok || f.Type != schema.TypeModel {
			return errors.FieldUnknown(errors.PhaseParse, []string{rec.Model().Name}, name)
		}
		v, err := rec.Get(name)
		if err != nil {
			return err
		}
		rec = v.(*schema.Record)
	}
	return assignField(rec, names[len(names)-1], raw)
}

func assignField(rec *schema.Record, name, raw string) error {
	f, ok := rec.Model().Field(name)
	if !ok {
		return errors.FieldUnknown(errors.PhaseParse, []string{rec.Model().Name}, name)
	}

	switch t := f.WIT().(type) {
	case *wit.TypeDef:
		switch k := t.Kind.(type) {
		case *wit.List:
			if f.Type == schema.TypeBytes {
				return rec.Set(name, []byte(raw))
			}
			if f.Type == schema.TypeArray {
				return assignArray(rec, f, k.Type, raw)
			}
			return assignMap(rec, f, k.Type, raw)
		case *wit.Enum:
			return rec.Set(name, raw)
		default:
			return errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("field %s of type %s cannot be set from text", name, witTypeStr(t)))
		}
	default:
		v, err := convertArg(raw, t)
		if err != nil {
			return errors.New(errors.PhaseParse, errors.KindInvalidInput).Path(name).Type(witTypeStr(t)).Cause(err).Build()
		}
		return rec.Set(name, v)
	}
}

func assignArray(rec *schema.Record, f schema.Field, elem wit.Type, raw string) error {
	values := []any{}
	if raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := convertElem(part, f, f.Elem, elem)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
	}
	return rec.Set(f.Name, values)
}

func assignMap(rec *schema.Record, f schema.Field, pair wit.Type, raw string) error {
	tuple, ok := pair.(*wit.TypeDef).Kind.(*wit.Tuple)
	if !ok || len(tuple.Types) != 2 {
		return errors.InvalidInput(errors.PhaseParse, "malformed map type for "+f.Name)
	}
	entries := map[any]any{}
	if raw != "" {
		for _, part := range strings.Split(raw, ",") {
			ks, vs, ok := strings.Cut(part, ":")
			if !ok {
				return errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("map entry %q for %s needs key:value", part, f.Name))
			}
			k, err := convertElem(ks, f, f.Key, tuple.Types[0])
			if err != nil {
				return err
			}
			v, err := convertElem(vs, f, f.Elem, tuple.Types[1])
			if err != nil {
				return err
			}
			entries[k] = v
		}
	}
	return rec.Set(f.Name, entries)
}

func convertElem(raw string, f schema.Field, t schema.Type, wt wit.Type) (any, error) {
	switch t {
	case schema.TypeEnum:
		return raw, nil
	case schema.TypeBytes:
		return []byte(raw), nil
	case schema.TypeModel:
		return nil, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("field %s holds models and cannot be set from text", f.Name))
	}
	v, err := convertArg(raw, wt)
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).Path(f.Name).Type(witTypeStr(wt)).Cause(err).Build()
	}
	return v, nil
}

// convertArg parses text into the Go value of a primitive WIT type.
func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.String:
		return value, nil
	case wit.U32:
		v, err := strconv.ParseUint(value, 10, 32)
		return uint32(v), err
	case wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case wit.U64:
		return strconv.ParseUint(value, 10, 64)
	case wit.S64:
		return strconv.ParseInt(value, 10, 64)
	case wit.F32:
		v, err := strconv.ParseFloat(value, 32)
		return float32(v), err
	case wit.F64:
		return strconv.ParseFloat(value, 64)
	case wit.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported type %s", witTypeStr(t))
	}
}

func witTypeStr(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.List:
			return "list<" + witTypeStr(k.Type) + ">"
		case *wit.Tuple:
			parts := make([]string, len(k.Types))
			for i, e := range k.Types {
				parts[i] = witTypeStr(e)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}
