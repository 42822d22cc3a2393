package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/wippyai/wasm-signature/schema"
)

func listSchema(w io.Writer, s *schema.Schema) error {
	fmt.Fprintf(w, "Schema: %s", s.Name)
	if s.Tag != "" {
		fmt.Fprintf(w, "@%s", s.Tag)
	}
	fmt.Fprintf(w, "\nModels: %d\n", len(s.Models))

	for _, m := range s.Models {
		fmt.Fprintf(w, "\n%s", m.Name)
		if m.Description != "" {
			fmt.Fprintf(w, "  // %s", m.Description)
		}
		fmt.Fprintln(w)
		for _, f := range m.Fields() {
			fmt.Fprintf(w, "  %s: %s%s\n", f.Name, witTypeStr(f.WIT()), describeRules(f))
		}
	}
	return nil
}

func describeRules(f schema.Field) string {
	var parts []string
	for _, r := range f.Rules {
		switch r.Kind {
		case schema.RulePattern:
			parts = append(parts, "pattern "+r.Expr)
		case schema.RuleLength, schema.RuleRange:
			parts = append(parts, fmt.Sprintf("%s [%s, %s]", r.Kind, bound(r.Min), bound(r.Max)))
		}
	}
	if f.Transform != schema.TransformNone {
		parts = append(parts, f.Transform.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

func bound(v any) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

// printRecord writes one line per field, embedded models indented.
func printRecord(w io.Writer, rec *schema.Record, indent string) {
	for _, f := range rec.Model().Fields() {
		v := rec.MustGet(f.Name)
		if f.Type == schema.TypeModel {
			fmt.Fprintf(w, "%s%s:\n", indent, f.Name)
			printRecord(w, v.(*schema.Record), indent+"  ")
			continue
		}
		fmt.Fprintf(w, "%s%s = %s\n", indent, f.Name, formatValue(f, v))
	}
}

func formatValue(f schema.Field, v any) string {
	switch f.Type {
	case schema.TypeArray:
		items := v.([]any)
		parts := make([]string, len(items))
		for i, e := range items {
			parts[i] = formatScalar(f, f.Elem, e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case schema.TypeMap:
		m := v.(map[any]any)
		parts := make([]string, 0, len(m))
		for k, e := range m {
			parts = append(parts, formatScalar(f, f.Key, k)+": "+formatScalar(f, f.Elem, e))
		}
		slices.Sort(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return formatScalar(f, f.Type, v)
}

func formatScalar(f schema.Field, t schema.Type, v any) string {
	switch t {
	case schema.TypeString:
		return fmt.Sprintf("%q", v)
	case schema.TypeBytes:
		return fmt.Sprintf("0x%x", v)
	case schema.TypeEnum:
		return f.Enum.Member(v.(uint32))
	case schema.TypeModel:
		var b strings.Builder
		printRecord(&b, v.(*schema.Record), "")
		return "{" + strings.ReplaceAll(strings.TrimSpace(b.String()), "\n", "; ") + "}"
	}
	return fmt.Sprint(v)
}
