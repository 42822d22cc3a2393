package schema

import "github.com/wippyai/wasm-signature/errors"

// Enum is a closed set of named ordinals. Ordinals are positions in Values.
type Enum struct {
	Name    string
	Values  []string
	Default uint32
}

// NewEnum creates an enum whose default member is def. The default is
// moved to ordinal 0 and the member it displaces takes its old position,
// matching how schema files are compiled.
func NewEnum(name string, def string, values ...string) (*Enum, error) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return nil, errors.Duplicate(errors.PhaseSchema, []string{name}, "enum value", v)
		}
		seen[v] = struct{}{}
	}

	ordered := append([]string(nil), values...)
	for i, v := range ordered {
		if v == def {
			ordered[i], ordered[0] = ordered[0], v
			return &Enum{Name: name, Values: ordered}, nil
		}
	}
	return nil, errors.New(errors.PhaseSchema, errors.KindInvalidEnum).
		Path(name).
		Detail("default %q is not a valid value", def).
		Build()
}

// MustEnum is NewEnum for package-level declarations.
func MustEnum(name string, def string, values ...string) *Enum {
	e, err := NewEnum(name, def, values...)
	if err != nil {
		panic(err)
	}
	return e
}

// Ordinal returns the ordinal of the named member.
func (e *Enum) Ordinal(name string) (uint32, bool) {
	for i, v := range e.Values {
		if v == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// Member returns the member name for ordinal, or "" if it is out of range.
func (e *Enum) Member(ordinal uint32) string {
	if int64(ordinal) < int64(len(e.Values)) {
		return e.Values[ordinal]
	}
	return ""
}

// Contains reports whether ordinal is a declared member.
func (e *Enum) Contains(ordinal uint32) bool {
	return int64(ordinal) < int64(len(e.Values))
}
