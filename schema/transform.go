package schema

import "strings"

// Transform is a read-time normalization applied by Record.Get.
type Transform uint8

const (
	TransformNone Transform = iota
	TransformUpper
	TransformLower
)

// ParseTransform maps a caseModifier kind from a schema file.
func ParseTransform(kind string) (Transform, bool) {
	switch strings.ToLower(kind) {
	case "", "none":
		return TransformNone, true
	case "upper":
		return TransformUpper, true
	case "lower":
		return TransformLower, true
	}
	return TransformNone, false
}

func (t Transform) String() string {
	switch t {
	case TransformUpper:
		return "upper"
	case TransformLower:
		return "lower"
	}
	return "none"
}

// Apply returns s normalized. Applying twice yields the same result.
func (t Transform) Apply(s string) string {
	switch t {
	case TransformUpper:
		return strings.ToUpper(s)
	case TransformLower:
		return strings.ToLower(s)
	}
	return s
}
