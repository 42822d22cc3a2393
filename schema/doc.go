// Package schema is the runtime behind generated signature models.
//
// A Model is a fixed, ordered table of Field descriptors. Each field has a
// declared Type, an optional default and an optional list of validation
// Rules. A Record is an instance of a Model:
//
//	r := schema.New(model)            // every field at its default
//	err := r.Set("name", "hello")     // type checked, validated, copied
//	v, _ := r.Get("name")             // read transform applied
//	r.Encode(enc)                     // fields in declaration order
//	r2, err := schema.Decode(model, dec)
//
// Validation runs in a fixed priority: pattern rules, then length rules,
// then range rules. The first failing rule is reported and the field keeps
// its previous value.
//
// Models can be declared in Go with NewModel or loaded from an HCL schema
// file with Parse / ReadSchema.
package schema
