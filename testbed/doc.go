// Package testbed holds typed models in the shape the signature code
// generator emits, for the schema in testdata/testbed.hcl.
//
// Each model has a constructor applying schema defaults, exported fields or
// validated accessors, an Encode method and a static DecodeX function. The
// typed models and the schema-driven records of package schema produce
// identical bytes for the same values.
package testbed
