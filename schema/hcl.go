package schema

import (
	"fmt"
	"os"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/wippyai/wasm-signature/errors"
)

var (
	validLabel    = regexp.MustCompile(`^[A-Za-z0-9]*$`)
	invalidString = regexp.MustCompile(`[^A-Za-z0-9-.]`)
)

// Schema is a compiled schema file.
type Schema struct {
	Name   string
	Tag    string
	Models []*Model

	byName map[string]*Model
}

// Model looks up a compiled model by name.
func (s *Schema) Model(name string) (*Model, bool) {
	m, ok := s.byName[name]
	return m, ok
}

type file struct {
	Name   string       `hcl:"name,attr"`
	Tag    string       `hcl:"tag,attr"`
	Models []modelBlock `hcl:"model,block"`
}

type modelBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`

	Models      []fieldBlock `hcl:"model,block"`
	ModelArrays []fieldBlock `hcl:"modelArray,block"`

	Strings      []fieldBlock `hcl:"string,block"`
	StringArrays []fieldBlock `hcl:"stringArray,block"`
	StringMaps   []fieldBlock `hcl:"stringMap,block"`

	Bools      []fieldBlock `hcl:"bool,block"`
	BoolArrays []fieldBlock `hcl:"boolArray,block"`

	Bytes       []fieldBlock `hcl:"bytes,block"`
	BytesArrays []fieldBlock `hcl:"bytesArray,block"`

	Enums      []fieldBlock `hcl:"enum,block"`
	EnumArrays []fieldBlock `hcl:"enumArray,block"`
	EnumMaps   []fieldBlock `hcl:"enumMap,block"`

	Int32s      []fieldBlock `hcl:"int32,block"`
	Int32Arrays []fieldBlock `hcl:"int32Array,block"`
	Int32Maps   []fieldBlock `hcl:"int32Map,block"`

	Int64s      []fieldBlock `hcl:"int64,block"`
	Int64Arrays []fieldBlock `hcl:"int64Array,block"`
	Int64Maps   []fieldBlock `hcl:"int64Map,block"`

	Uint32s      []fieldBlock `hcl:"uint32,block"`
	Uint32Arrays []fieldBlock `hcl:"uint32Array,block"`
	Uint32Maps   []fieldBlock `hcl:"uint32Map,block"`

	Uint64s      []fieldBlock `hcl:"uint64,block"`
	Uint64Arrays []fieldBlock `hcl:"uint64Array,block"`
	Uint64Maps   []fieldBlock `hcl:"uint64Map,block"`

	Float32s      []fieldBlock `hcl:"float32,block"`
	Float32Arrays []fieldBlock `hcl:"float32Array,block"`
	Float32Maps   []fieldBlock `hcl:"float32Map,block"`

	Float64s      []fieldBlock `hcl:"float64,block"`
	Float64Arrays []fieldBlock `hcl:"float64Array,block"`
	Float64Maps   []fieldBlock `hcl:"float64Map,block"`
}

// fieldBlock is the union of every field block's attributes. Which of them
// are meaningful depends on the block type; the rest are rejected when the
// field is compiled.
type fieldBlock struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default,optional"`
	Accessor    *bool          `hcl:"accessor,optional"`
	Reference   string         `hcl:"reference,optional"`
	Value       string         `hcl:"value,optional"`
	Values      []string       `hcl:"values,optional"`
	InitialSize *uint32        `hcl:"initial_size,optional"`

	Regex  *regexBlock  `hcl:"regexValidator,block"`
	Length *lengthBlock `hcl:"lengthValidator,block"`
	Limit  *limitBlock  `hcl:"limitValidator,block"`
	Case   *caseBlock   `hcl:"caseModifier,block"`
}

type regexBlock struct {
	Expression string `hcl:"expression,attr"`
}

type lengthBlock struct {
	Minimum *uint `hcl:"min,optional"`
	Maximum *uint `hcl:"max,optional"`
}

type limitBlock struct {
	Minimum hcl.Expression `hcl:"minimum,optional"`
	Maximum hcl.Expression `hcl:"maximum,optional"`
}

type caseBlock struct {
	Kind string `hcl:"kind,attr"`
}

type shape uint8

const (
	single shape = iota
	array
	keyed
)

type group struct {
	blocks []fieldBlock
	typ    Type
	shape  shape
	name   string
}

// groups lists a model's field blocks in wire order.
func (b *modelBlock) groups() []group {
	return []group{
		{b.Models, TypeModel, single, "model"},
		{b.ModelArrays, TypeModel, array, "modelArray"},
		{b.Strings, TypeString, single, "string"},
		{b.StringArrays, TypeString, array, "stringArray"},
		{b.StringMaps, TypeString, keyed, "stringMap"},
		{b.Bools, TypeBool, single, "bool"},
		{b.BoolArrays, TypeBool, array, "boolArray"},
		{b.Bytes, TypeBytes, single, "bytes"},
		{b.BytesArrays, TypeBytes, array, "bytesArray"},
		{b.Enums, TypeEnum, single, "enum"},
		{b.EnumArrays, TypeEnum, array, "enumArray"},
		{b.EnumMaps, TypeEnum, keyed, "enumMap"},
		{b.Int32s, TypeInt32, single, "int32"},
		{b.Int32Arrays, TypeInt32, array, "int32Array"},
		{b.Int32Maps, TypeInt32, keyed, "int32Map"},
		{b.Int64s, TypeInt64, single, "int64"},
		{b.Int64Arrays, TypeInt64, array, "int64Array"},
		{b.Int64Maps, TypeInt64, keyed, "int64Map"},
		{b.Uint32s, TypeUint32, single, "uint32"},
		{b.Uint32Arrays, TypeUint32, array, "uint32Array"},
		{b.Uint32Maps, TypeUint32, keyed, "uint32Map"},
		{b.Uint64s, TypeUint64, single, "uint64"},
		{b.Uint64Arrays, TypeUint64, array, "uint64Array"},
		{b.Uint64Maps, TypeUint64, keyed, "uint64Map"},
		{b.Float32s, TypeFloat32, single, "float32"},
		{b.Float32Arrays, TypeFloat32, array, "float32Array"},
		{b.Float32Maps, TypeFloat32, keyed, "float32Map"},
		{b.Float64s, TypeFloat64, single, "float64"},
		{b.Float64Arrays, TypeFloat64, array, "float64Array"},
		{b.Float64Maps, TypeFloat64, keyed, "float64Map"},
	}
}

// ReadSchema loads and compiles a schema file.
func ReadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ParseFailed("schema file "+path, err)
	}
	return Parse(data, path)
}

// Parse decodes, validates and compiles a schema description.
func Parse(data []byte, filename string) (*Schema, error) {
	f, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.ParseFailed(filename, diags.Errs()[0])
	}

	var doc file
	if diags := gohcl.DecodeBody(f.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.ParseFailed(filename, diags.Errs()[0])
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc.compile()
}

func schemaError(detail string, args ...any) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidData).Detail(detail, args...).Build()
}

// validate applies the naming and reference rules of schema files. Enum
// defaults are moved to ordinal 0 as a side effect.
func (doc *file) validate() error {
	if !validLabel.MatchString(doc.Name) {
		return schemaError("invalid name: %s", doc.Name)
	}
	if invalidString.MatchString(doc.Tag) {
		return schemaError("invalid tag: %s", doc.Tag)
	}

	known := make(map[string]struct{}, len(doc.Models))
	for i := range doc.Models {
		m := &doc.Models[i]
		if !validLabel.MatchString(m.Name) {
			return schemaError("invalid model name: %s", m.Name)
		}
		if _, ok := known[m.Name]; ok {
			return errors.Duplicate(errors.PhaseSchema, nil, "model", m.Name)
		}
		known[m.Name] = struct{}{}

		for _, g := range m.groups() {
			for j := range g.blocks {
				if err := g.blocks[j].validate(m.Name, g); err != nil {
					return err
				}
			}
		}
	}

	for i := range doc.Models {
		m := &doc.Models[i]
		for _, g := range m.groups() {
			for _, fb := range g.blocks {
				if g.typ == TypeModel {
					if _, ok := known[fb.Reference]; !ok {
						return schemaError("unknown %s.%s.reference: %s", m.Name, fb.Name, fb.Reference)
					}
				}
				if g.shape == keyed {
					if _, ok := ParsePrimitive(fb.Value); !ok {
						if _, ok := known[fb.Value]; !ok {
							return schemaError("unknown %s.%s.value: %s", m.Name, fb.Name, fb.Value)
						}
					}
				}
			}
		}
	}
	return nil
}

func (fb *fieldBlock) validate(model string, g group) error {
	if !validLabel.MatchString(fb.Name) {
		return schemaError("invalid %s.%s name: %s", model, g.name, fb.Name)
	}
	hasRules := fb.Regex != nil || fb.Length != nil || fb.Limit != nil || fb.Case != nil
	if fb.Accessor != nil && !*fb.Accessor && hasRules {
		return schemaError("invalid %s.%s.accessor: cannot be false while using validators or modifiers", model, fb.Name)
	}
	if g.shape == keyed && fb.Value == "" {
		return schemaError("missing %s.%s.value", model, fb.Name)
	}
	if g.typ == TypeModel && fb.Reference == "" {
		return schemaError("missing %s.%s.reference", model, fb.Name)
	}
	if fb.Length != nil && fb.Length.Minimum != nil && fb.Length.Maximum != nil && *fb.Length.Minimum > *fb.Length.Maximum {
		return schemaError("invalid %s.%s.lengthValidator: minimum cannot be greater than maximum", model, fb.Name)
	}
	if g.typ != TypeEnum {
		return nil
	}

	seen := make(map[string]struct{}, len(fb.Values))
	for _, v := range fb.Values {
		if _, ok := seen[v]; ok {
			return schemaError("duplicate value in %s.%s: %s", model, fb.Name, v)
		}
		seen[v] = struct{}{}
	}
	if g.shape != single {
		return nil
	}
	def, err := stringDefault(fb.Default)
	if err != nil {
		return schemaError("invalid %s.%s.default: %v", model, fb.Name, err)
	}
	for i, v := range fb.Values {
		if v == def {
			fb.Values[i], fb.Values[0] = fb.Values[0], v
			return nil
		}
	}
	return schemaError("invalid %s.%s.default: %s is not a valid value", model, fb.Name, def)
}

func stringDefault(expr hcl.Expression) (string, error) {
	if expr == nil {
		return "", nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags.Errs()[0]
	}
	if v.IsNull() {
		return "", nil
	}
	var s string
	if err := gocty.FromCtyValue(v, &s); err != nil {
		return "", err
	}
	return s, nil
}

// compile turns validated blocks into models. Shells for every model are
// created first so references may point forward.
func (doc *file) compile() (*Schema, error) {
	s := &Schema{
		Name:   doc.Name,
		Tag:    doc.Tag,
		Models: make([]*Model, len(doc.Models)),
		byName: make(map[string]*Model, len(doc.Models)),
	}
	for i, mb := range doc.Models {
		m := &Model{Name: mb.Name, Description: mb.Description}
		s.Models[i] = m
		s.byName[mb.Name] = m
	}

	for i := range doc.Models {
		mb := &doc.Models[i]
		var fields []Field
		for _, g := range mb.groups() {
			for _, fb := range g.blocks {
				f, err := fb.field(mb.Name, g, s.byName)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
			}
		}
		if err := s.Models[i].define(fields); err != nil {
			return nil, err
		}
	}

	if err := s.checkCycles(); err != nil {
		return nil, err
	}
	return s, nil
}

func (fb *fieldBlock) field(model string, g group, models map[string]*Model) (Field, error) {
	f := Field{Name: fb.Name}
	switch g.shape {
	case single:
		f.Type = g.typ
	case array:
		f.Type = TypeArray
		f.Elem = g.typ
	case keyed:
		f.Type = TypeMap
		f.Key = g.typ
		if t, ok := ParsePrimitive(fb.Value); ok {
			f.Elem = t
		} else {
			f.Elem = TypeModel
			f.Model = models[fb.Value]
		}
	}

	if g.typ == TypeModel {
		f.Model = models[fb.Reference]
	}
	if g.typ == TypeEnum {
		f.Enum = &Enum{Name: fb.Name, Values: append([]string(nil), fb.Values...)}
	}

	if g.shape == single && g.typ != TypeModel {
		def, err := defaultValue(fb.Default, g.typ)
		if err != nil {
			return Field{}, schemaError("invalid %s.%s.default: %v", model, fb.Name, err)
		}
		f.Default = def
	}

	if fb.Regex != nil {
		r, err := Pattern(fb.Regex.Expression)
		if err != nil {
			return Field{}, err
		}
		f.Rules = append(f.Rules, r)
	}
	if fb.Length != nil {
		r := Rule{Kind: RuleLength}
		if fb.Length.Minimum != nil {
			r.Min = int(*fb.Length.Minimum)
		}
		if fb.Length.Maximum != nil {
			r.Max = int(*fb.Length.Maximum)
		}
		f.Rules = append(f.Rules, r)
	}
	if fb.Limit != nil {
		r := Rule{Kind: RuleRange}
		var err error
		if r.Min, err = defaultValue(fb.Limit.Minimum, g.typ); err != nil {
			return Field{}, schemaError("invalid %s.%s.limitValidator.minimum: %v", model, fb.Name, err)
		}
		if r.Max, err = defaultValue(fb.Limit.Maximum, g.typ); err != nil {
			return Field{}, schemaError("invalid %s.%s.limitValidator.maximum: %v", model, fb.Name, err)
		}
		f.Rules = append(f.Rules, r)
	}
	if fb.Case != nil {
		t, ok := ParseTransform(fb.Case.Kind)
		if !ok {
			return Field{}, schemaError("invalid %s.%s.caseModifier.kind: %s", model, fb.Name, fb.Case.Kind)
		}
		f.Transform = t
	}
	return f, nil
}

// defaultValue evaluates a literal expression into the Go type of t. An
// absent expression yields nil.
func defaultValue(expr hcl.Expression, t Type) (any, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags.Errs()[0]
	}
	if v.IsNull() {
		return nil, nil
	}

	var err error
	switch t {
	case TypeBool:
		var x bool
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeInt32:
		var x int32
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeInt64:
		var x int64
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeUint32:
		var x uint32
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeUint64:
		var x uint64
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeFloat32:
		var x float32
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeFloat64:
		var x float64
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeString, TypeEnum:
		var x string
		err = gocty.FromCtyValue(v, &x)
		return x, err
	case TypeBytes:
		if !v.Type().Equals(cty.String) {
			return nil, fmt.Errorf("bytes default must be a string")
		}
		return []byte(v.AsString()), nil
	}
	return nil, fmt.Errorf("no default for %s", t)
}

// checkCycles rejects embedded model fields that contain themselves, since
// every record constructs its embedded models eagerly.
func (s *Schema) checkCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*Model]int, len(s.Models))
	var visit func(m *Model) error
	visit = func(m *Model) error {
		switch state[m] {
		case visiting:
			return schemaError("model %s embeds itself", m.Name)
		case done:
			return nil
		}
		state[m] = visiting
		for _, f := range m.fields {
			if f.Type == TypeModel {
				if err := visit(f.Model); err != nil {
					return err
				}
			}
		}
		state[m] = done
		return nil
	}
	for _, m := range s.Models {
		if err := visit(m); err != nil {
			return err
		}
	}
	return nil
}
