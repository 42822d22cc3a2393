package schema

import (
	"cmp"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/wippyai/wasm-signature/errors"
)

// RuleKind orders rule evaluation: every pattern rule runs before any
// length rule, and length rules run before range rules.
type RuleKind uint8

const (
	RulePattern RuleKind = iota + 1
	RuleLength
	RuleRange
)

func (k RuleKind) String() string {
	switch k {
	case RulePattern:
		return "pattern"
	case RuleLength:
		return "length"
	case RuleRange:
		return "range"
	}
	return "unknown"
}

// Rule is a single validation constraint attached to a field.
// A nil Min or Max leaves that side unbounded. Length bounds are ints;
// range bounds have the Go type of the value they constrain.
type Rule struct {
	Kind RuleKind
	Expr string
	Min  any
	Max  any

	re *regexp.Regexp
}

// Pattern creates a rule matching expr against the whole value.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return Rule{}, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "compile pattern "+expr)
	}
	return Rule{Kind: RulePattern, Expr: expr, re: re}, nil
}

// MustPattern is Pattern for package-level declarations.
func MustPattern(expr string) Rule {
	r, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Length bounds the length of a string in runes, or of a byte sequence in
// bytes, inclusively on both sides.
func Length(lo, hi int) Rule {
	return Rule{Kind: RuleLength, Min: lo, Max: hi}
}

func MinLength(lo int) Rule {
	return Rule{Kind: RuleLength, Min: lo}
}

func MaxLength(hi int) Rule {
	return Rule{Kind: RuleLength, Max: hi}
}

// Range bounds a numeric value inclusively. Either bound may be nil.
func Range(lo, hi any) Rule {
	return Rule{Kind: RuleRange, Min: lo, Max: hi}
}

// Validate runs rules against v in priority order and returns the first
// failure as a validation error carrying path.
func Validate(path []string, rules []Rule, v any) error {
	for _, kind := range [...]RuleKind{RulePattern, RuleLength, RuleRange} {
		for i := range rules {
			if rules[i].Kind != kind {
				continue
			}
			if err := rules[i].check(path, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Rule) check(path []string, v any) error {
	switch r.Kind {
	case RulePattern:
		s, ok := v.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), "string")
		}
		if !r.matches(s) {
			return errors.Pattern(path, r.Expr, v)
		}
	case RuleLength:
		var n int
		switch s := v.(type) {
		case string:
			n = utf8.RuneCountInString(s)
		case []byte:
			n = len(s)
		default:
			return errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), "string")
		}
		lo, hasMin := r.Min.(int)
		hi, hasMax := r.Max.(int)
		if (hasMin && n < lo) || (hasMax && n > hi) {
			return errors.Length(path, boundMessage("length", r.Min, r.Max, "at least", "at most"), v)
		}
	case RuleRange:
		if r.Min != nil {
			c, ok := compareScalar(v, r.Min)
			if !ok {
				return errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), fmt.Sprintf("%T", r.Min))
			}
			if c < 0 {
				return errors.Range(path, boundMessage("value", r.Min, r.Max, "greater than or equal to", "less than or equal to"), v)
			}
		}
		if r.Max != nil {
			c, ok := compareScalar(v, r.Max)
			if !ok {
				return errors.TypeMismatch(errors.PhaseValidate, path, fmt.Sprintf("%T", v), fmt.Sprintf("%T", r.Max))
			}
			if c > 0 {
				return errors.Range(path, boundMessage("value", r.Min, r.Max, "greater than or equal to", "less than or equal to"), v)
			}
		}
	}
	return nil
}

func (r *Rule) matches(s string) bool {
	if r.re == nil {
		// zero Rule built without Pattern
		re, err := regexp.Compile(`^(?:` + r.Expr + `)$`)
		if err != nil {
			return false
		}
		r.re = re
	}
	return r.re.MatchString(s)
}

func boundMessage(subject string, lo, hi any, lower, upper string) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%s must be between %v and %v", subject, lo, hi)
	case lo != nil:
		return fmt.Sprintf("%s must be %s %v", subject, lower, lo)
	default:
		return fmt.Sprintf("%s must be %s %v", subject, upper, hi)
	}
}

// compareScalar orders two values of the same ordered Go type.
func compareScalar(a, b any) (int, bool) {
	switch x := a.(type) {
	case int32:
		y, ok := b.(int32)
		return cmp.Compare(x, y), ok
	case int64:
		y, ok := b.(int64)
		return cmp.Compare(x, y), ok
	case uint32:
		y, ok := b.(uint32)
		return cmp.Compare(x, y), ok
	case uint64:
		y, ok := b.(uint64)
		return cmp.Compare(x, y), ok
	case float32:
		y, ok := b.(float32)
		return cmp.Compare(x, y), ok
	case float64:
		y, ok := b.(float64)
		return cmp.Compare(x, y), ok
	case string:
		y, ok := b.(string)
		return cmp.Compare(x, y), ok
	case bool:
		y, ok := b.(bool)
		switch {
		case x == y:
			return 0, ok
		case !x:
			return -1, ok
		}
		return 1, ok
	}
	return 0, false
}

// checkRule reports whether r can constrain values of type t.
func checkRule(r Rule, t Type) error {
	switch r.Kind {
	case RulePattern:
		if t != TypeString {
			return fmt.Errorf("pattern rule on %s", t)
		}
		if r.re == nil {
			if _, err := regexp.Compile(r.Expr); err != nil {
				return err
			}
		}
	case RuleLength:
		if t != TypeString && t != TypeBytes {
			return fmt.Errorf("length rule on %s", t)
		}
		lo, hasMin := r.Min.(int)
		hi, hasMax := r.Max.(int)
		if (r.Min != nil && !hasMin) || (r.Max != nil && !hasMax) {
			return fmt.Errorf("length bounds must be int")
		}
		if hasMin && hasMax && lo > hi {
			return fmt.Errorf("length minimum %d greater than maximum %d", lo, hi)
		}
	case RuleRange:
		if !t.Numeric() {
			return fmt.Errorf("range rule on %s", t)
		}
		for _, b := range []any{r.Min, r.Max} {
			if b != nil && !isType(t, b) {
				return fmt.Errorf("range bound %v (%T) does not match %s", b, b, t)
			}
		}
		if r.Min != nil && r.Max != nil {
			if c, _ := compareScalar(r.Min, r.Max); c > 0 {
				return fmt.Errorf("range minimum %v greater than maximum %v", r.Min, r.Max)
			}
		}
	default:
		return fmt.Errorf("unknown rule kind %d", r.Kind)
	}
	return nil
}
