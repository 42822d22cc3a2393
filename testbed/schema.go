package testbed

import (
	_ "embed"
	"sync"

	"github.com/wippyai/wasm-signature/schema"
)

//go:embed testdata/testbed.hcl
var schemaSource []byte

var (
	parsed     *schema.Schema
	parseErr   error
	parsedOnce sync.Once
)

// Schema returns the compiled schema the typed models correspond to.
func Schema() (*schema.Schema, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = schema.Parse(schemaSource, "testbed.hcl")
	})
	return parsed, parseErr
}

// Source returns the schema file the typed models were written for.
func Source() []byte {
	return append([]byte(nil), schemaSource...)
}
